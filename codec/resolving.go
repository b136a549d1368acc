package codec

import (
	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/grammar"
	"github.com/avroforge/avro/schema"
)

// resolvingDecoder reads writer-encoded bytes while presenting reader
// schema semantics. It doubles as the parser's action handler: writer
// union tags are pulled from the live decoder, and default brackets
// swap a scratch decoder over the pre-encoded default bytes in and
// out.
type resolvingDecoder struct {
	live    avro.Decoder // the caller's decoder, bound to the stream
	base    avro.Decoder // the decoder reads go through right now
	saved   avro.Decoder // live decoder parked during a default bracket
	scratch *BinaryDecoder
	parser  *grammar.Parser
}

// NewResolvingDecoder compiles the resolving grammar for the schema
// pair and wraps base with it. A reader field with neither a writer
// counterpart nor a default fails here. Incompatible types (including
// a promotion in the reverse direction) and writer-union branches
// without a reader counterpart compile to error actions that fail with
// incompatible_schema at decode time, when that part of the data is
// actually reached.
func NewResolvingDecoder(writer, reader *schema.Node, base avro.Decoder) (avro.ResolvingDecoder, error) {
	g, err := grammar.GenerateResolving(writer, reader)
	if err != nil {
		return nil, err
	}
	d := &resolvingDecoder{
		live:    base,
		base:    base,
		scratch: NewBinaryDecoder(),
	}
	d.parser = grammar.NewParser(g, errors.PhaseDecode, base, d)
	return d, nil
}

// Handle implements grammar.Handler.
func (d *resolvingDecoder) Handle(s *grammar.Symbol) (int64, error) {
	switch s.Kind() {
	case grammar.KindWriterUnion:
		return d.base.DecodeUnionIndex()
	case grammar.KindDefaultStart:
		d.saved = d.base
		d.scratch.Init(avro.NewMemoryInput(s.DefaultBytes(), 0))
		d.base = d.scratch
	case grammar.KindDefaultEnd:
		d.base = d.saved
		d.saved = nil
	}
	return 0, nil
}

func (d *resolvingDecoder) Init(in avro.InputStream) {
	d.base = d.live
	d.saved = nil
	d.live.Init(in)
	d.parser.Reset()
}

// FieldOrder advances past the record marker and returns the order, in
// reader field indices, in which the caller must read the fields.
func (d *resolvingDecoder) FieldOrder() ([]int, error) {
	if _, err := d.parser.Advance(grammar.KindRecord); err != nil {
		return nil, err
	}
	return d.parser.SizeList()
}

func (d *resolvingDecoder) DecodeNull() error {
	if _, err := d.parser.Advance(grammar.KindNull); err != nil {
		return err
	}
	return d.base.DecodeNull()
}

func (d *resolvingDecoder) DecodeBool() (bool, error) {
	if _, err := d.parser.Advance(grammar.KindBool); err != nil {
		return false, err
	}
	return d.base.DecodeBool()
}

func (d *resolvingDecoder) DecodeInt() (int32, error) {
	if _, err := d.parser.Advance(grammar.KindInt); err != nil {
		return 0, err
	}
	return d.base.DecodeInt()
}

// DecodeLong widens when the writer wrote an int.
func (d *resolvingDecoder) DecodeLong() (int64, error) {
	k, err := d.parser.Advance(grammar.KindLong)
	if err != nil {
		return 0, err
	}
	if k == grammar.KindInt {
		v, err := d.base.DecodeInt()
		return int64(v), err
	}
	return d.base.DecodeLong()
}

func (d *resolvingDecoder) DecodeFloat() (float32, error) {
	k, err := d.parser.Advance(grammar.KindFloat)
	if err != nil {
		return 0, err
	}
	switch k {
	case grammar.KindInt:
		v, err := d.base.DecodeInt()
		return float32(v), err
	case grammar.KindLong:
		v, err := d.base.DecodeLong()
		return float32(v), err
	}
	return d.base.DecodeFloat()
}

func (d *resolvingDecoder) DecodeDouble() (float64, error) {
	k, err := d.parser.Advance(grammar.KindDouble)
	if err != nil {
		return 0, err
	}
	switch k {
	case grammar.KindInt:
		v, err := d.base.DecodeInt()
		return float64(v), err
	case grammar.KindLong:
		v, err := d.base.DecodeLong()
		return float64(v), err
	case grammar.KindFloat:
		v, err := d.base.DecodeFloat()
		return float64(v), err
	}
	return d.base.DecodeDouble()
}

func (d *resolvingDecoder) DecodeString() (string, error) {
	if _, err := d.parser.Advance(grammar.KindString); err != nil {
		return "", err
	}
	return d.base.DecodeString()
}

func (d *resolvingDecoder) SkipString() error {
	if _, err := d.parser.Advance(grammar.KindString); err != nil {
		return err
	}
	return d.base.SkipString()
}

func (d *resolvingDecoder) DecodeBytes() ([]byte, error) {
	if _, err := d.parser.Advance(grammar.KindBytes); err != nil {
		return nil, err
	}
	return d.base.DecodeBytes()
}

func (d *resolvingDecoder) SkipBytes() error {
	if _, err := d.parser.Advance(grammar.KindBytes); err != nil {
		return err
	}
	return d.base.SkipBytes()
}

func (d *resolvingDecoder) DecodeFixed(n int) ([]byte, error) {
	if _, err := d.parser.Advance(grammar.KindFixed); err != nil {
		return nil, err
	}
	if err := d.parser.AssertSize(n); err != nil {
		return nil, err
	}
	return d.base.DecodeFixed(n)
}

func (d *resolvingDecoder) SkipFixed(n int) error {
	if _, err := d.parser.Advance(grammar.KindFixed); err != nil {
		return err
	}
	if err := d.parser.AssertSize(n); err != nil {
		return err
	}
	return d.base.SkipFixed(n)
}

// DecodeEnum returns the reader's ordinal for the symbol the writer
// wrote.
func (d *resolvingDecoder) DecodeEnum() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindEnum); err != nil {
		return 0, err
	}
	w, err := d.base.DecodeEnum()
	if err != nil {
		return 0, err
	}
	return d.parser.EnumAdjust(w)
}

func (d *resolvingDecoder) blockStart(n int64, endKind grammar.Kind) (int64, error) {
	if n == 0 {
		if err := d.parser.PopRepeater(); err != nil {
			return 0, err
		}
		_, err := d.parser.Advance(endKind)
		return 0, err
	}
	return n, d.parser.SetRepeatCount(n)
}

func (d *resolvingDecoder) ArrayStart() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindArrayStart); err != nil {
		return 0, err
	}
	n, err := d.base.ArrayStart()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindArrayEnd)
}

func (d *resolvingDecoder) ArrayNext() (int64, error) {
	if err := d.parser.ProcessImplicitActions(); err != nil {
		return 0, err
	}
	n, err := d.base.ArrayNext()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindArrayEnd)
}

func (d *resolvingDecoder) SkipArray() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindArrayStart); err != nil {
		return 0, err
	}
	n, err := d.base.SkipArray()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		if err := d.parser.Pop(); err != nil {
			return 0, err
		}
	} else {
		if err := d.parser.SetRepeatCount(n); err != nil {
			return 0, err
		}
		if err := d.parser.Skip(d.base); err != nil {
			return 0, err
		}
	}
	_, err = d.parser.Advance(grammar.KindArrayEnd)
	return 0, err
}

func (d *resolvingDecoder) MapStart() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindMapStart); err != nil {
		return 0, err
	}
	n, err := d.base.MapStart()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindMapEnd)
}

func (d *resolvingDecoder) MapNext() (int64, error) {
	if err := d.parser.ProcessImplicitActions(); err != nil {
		return 0, err
	}
	n, err := d.base.MapNext()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindMapEnd)
}

func (d *resolvingDecoder) SkipMap() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindMapStart); err != nil {
		return 0, err
	}
	n, err := d.base.SkipMap()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		if err := d.parser.Pop(); err != nil {
			return 0, err
		}
	} else {
		if err := d.parser.SetRepeatCount(n); err != nil {
			return 0, err
		}
		if err := d.parser.Skip(d.base); err != nil {
			return 0, err
		}
	}
	_, err = d.parser.Advance(grammar.KindMapEnd)
	return 0, err
}

// DecodeUnionIndex returns the reader branch selected by resolution.
func (d *resolvingDecoder) DecodeUnionIndex() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindUnion); err != nil {
		return 0, err
	}
	return d.parser.UnionAdjust()
}
