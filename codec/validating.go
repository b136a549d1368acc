package codec

import (
	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/grammar"
	"github.com/avroforge/avro/schema"
)

// ValidatingDecoder checks every call against the schema grammar
// before delegating the byte movement to a base decoder.
type ValidatingDecoder struct {
	base   avro.Decoder
	parser *grammar.Parser
}

// NewValidatingDecoder compiles the validating grammar of s and wraps
// base with it.
func NewValidatingDecoder(s *schema.Node, base avro.Decoder) (*ValidatingDecoder, error) {
	g, err := grammar.Generate(s)
	if err != nil {
		return nil, err
	}
	return &ValidatingDecoder{
		base:   base,
		parser: grammar.NewParser(g, errors.PhaseDecode, nil, grammar.NoopHandler{}),
	}, nil
}

func (d *ValidatingDecoder) Init(in avro.InputStream) {
	d.base.Init(in)
	d.parser.Reset()
}

func (d *ValidatingDecoder) DecodeNull() error {
	if _, err := d.parser.Advance(grammar.KindNull); err != nil {
		return err
	}
	return d.base.DecodeNull()
}

func (d *ValidatingDecoder) DecodeBool() (bool, error) {
	if _, err := d.parser.Advance(grammar.KindBool); err != nil {
		return false, err
	}
	return d.base.DecodeBool()
}

func (d *ValidatingDecoder) DecodeInt() (int32, error) {
	if _, err := d.parser.Advance(grammar.KindInt); err != nil {
		return 0, err
	}
	return d.base.DecodeInt()
}

func (d *ValidatingDecoder) DecodeLong() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindLong); err != nil {
		return 0, err
	}
	return d.base.DecodeLong()
}

func (d *ValidatingDecoder) DecodeFloat() (float32, error) {
	if _, err := d.parser.Advance(grammar.KindFloat); err != nil {
		return 0, err
	}
	return d.base.DecodeFloat()
}

func (d *ValidatingDecoder) DecodeDouble() (float64, error) {
	if _, err := d.parser.Advance(grammar.KindDouble); err != nil {
		return 0, err
	}
	return d.base.DecodeDouble()
}

func (d *ValidatingDecoder) DecodeString() (string, error) {
	if _, err := d.parser.Advance(grammar.KindString); err != nil {
		return "", err
	}
	return d.base.DecodeString()
}

func (d *ValidatingDecoder) SkipString() error {
	if _, err := d.parser.Advance(grammar.KindString); err != nil {
		return err
	}
	return d.base.SkipString()
}

func (d *ValidatingDecoder) DecodeBytes() ([]byte, error) {
	if _, err := d.parser.Advance(grammar.KindBytes); err != nil {
		return nil, err
	}
	return d.base.DecodeBytes()
}

func (d *ValidatingDecoder) SkipBytes() error {
	if _, err := d.parser.Advance(grammar.KindBytes); err != nil {
		return err
	}
	return d.base.SkipBytes()
}

func (d *ValidatingDecoder) DecodeFixed(n int) ([]byte, error) {
	if _, err := d.parser.Advance(grammar.KindFixed); err != nil {
		return nil, err
	}
	if err := d.parser.AssertSize(n); err != nil {
		return nil, err
	}
	return d.base.DecodeFixed(n)
}

func (d *ValidatingDecoder) SkipFixed(n int) error {
	if _, err := d.parser.Advance(grammar.KindFixed); err != nil {
		return err
	}
	if err := d.parser.AssertSize(n); err != nil {
		return err
	}
	return d.base.SkipFixed(n)
}

func (d *ValidatingDecoder) DecodeEnum() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindEnum); err != nil {
		return 0, err
	}
	v, err := d.base.DecodeEnum()
	if err != nil {
		return 0, err
	}
	if err := d.parser.AssertLessThan(v); err != nil {
		return 0, err
	}
	return v, nil
}

func (d *ValidatingDecoder) blockStart(n int64, endKind grammar.Kind) (int64, error) {
	if n == 0 {
		if err := d.parser.PopRepeater(); err != nil {
			return 0, err
		}
		_, err := d.parser.Advance(endKind)
		return 0, err
	}
	return n, d.parser.SetRepeatCount(n)
}

func (d *ValidatingDecoder) ArrayStart() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindArrayStart); err != nil {
		return 0, err
	}
	n, err := d.base.ArrayStart()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindArrayEnd)
}

func (d *ValidatingDecoder) ArrayNext() (int64, error) {
	n, err := d.base.ArrayNext()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindArrayEnd)
}

func (d *ValidatingDecoder) SkipArray() (int64, error) {
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

func (d *ValidatingDecoder) MapStart() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindMapStart); err != nil {
		return 0, err
	}
	n, err := d.base.MapStart()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindMapEnd)
}

func (d *ValidatingDecoder) MapNext() (int64, error) {
	n, err := d.base.MapNext()
	if err != nil {
		return 0, err
	}
	return d.blockStart(n, grammar.KindMapEnd)
}

func (d *ValidatingDecoder) SkipMap() (int64, error) {
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

func (d *ValidatingDecoder) DecodeUnionIndex() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindUnion); err != nil {
		return 0, err
	}
	v, err := d.base.DecodeUnionIndex()
	if err != nil {
		return 0, err
	}
	if err := d.parser.SelectBranch(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidatingEncoder checks every call against the schema grammar
// before delegating to a base encoder.
type ValidatingEncoder struct {
	base   avro.Encoder
	parser *grammar.Parser
}

// NewValidatingEncoder compiles the validating grammar of s and wraps
// base with it.
func NewValidatingEncoder(s *schema.Node, base avro.Encoder) (*ValidatingEncoder, error) {
	g, err := grammar.Generate(s)
	if err != nil {
		return nil, err
	}
	return &ValidatingEncoder{
		base:   base,
		parser: grammar.NewParser(g, errors.PhaseEncode, nil, grammar.NoopHandler{}),
	}, nil
}

func (e *ValidatingEncoder) Init(out avro.OutputStream) {
	e.base.Init(out)
	e.parser.Reset()
}

func (e *ValidatingEncoder) Flush() error { return e.base.Flush() }

func (e *ValidatingEncoder) EncodeNull() error {
	if _, err := e.parser.Advance(grammar.KindNull); err != nil {
		return err
	}
	return e.base.EncodeNull()
}

func (e *ValidatingEncoder) EncodeBool(b bool) error {
	if _, err := e.parser.Advance(grammar.KindBool); err != nil {
		return err
	}
	return e.base.EncodeBool(b)
}

func (e *ValidatingEncoder) EncodeInt(v int32) error {
	if _, err := e.parser.Advance(grammar.KindInt); err != nil {
		return err
	}
	return e.base.EncodeInt(v)
}

func (e *ValidatingEncoder) EncodeLong(v int64) error {
	if _, err := e.parser.Advance(grammar.KindLong); err != nil {
		return err
	}
	return e.base.EncodeLong(v)
}

func (e *ValidatingEncoder) EncodeFloat(v float32) error {
	if _, err := e.parser.Advance(grammar.KindFloat); err != nil {
		return err
	}
	return e.base.EncodeFloat(v)
}

func (e *ValidatingEncoder) EncodeDouble(v float64) error {
	if _, err := e.parser.Advance(grammar.KindDouble); err != nil {
		return err
	}
	return e.base.EncodeDouble(v)
}

func (e *ValidatingEncoder) EncodeString(s string) error {
	if _, err := e.parser.Advance(grammar.KindString); err != nil {
		return err
	}
	return e.base.EncodeString(s)
}

func (e *ValidatingEncoder) EncodeBytes(b []byte) error {
	if _, err := e.parser.Advance(grammar.KindBytes); err != nil {
		return err
	}
	return e.base.EncodeBytes(b)
}

func (e *ValidatingEncoder) EncodeFixed(b []byte) error {
	if _, err := e.parser.Advance(grammar.KindFixed); err != nil {
		return err
	}
	if err := e.parser.AssertSize(len(b)); err != nil {
		return err
	}
	return e.base.EncodeFixed(b)
}

func (e *ValidatingEncoder) EncodeEnum(ordinal int64) error {
	if _, err := e.parser.Advance(grammar.KindEnum); err != nil {
		return err
	}
	if err := e.parser.AssertLessThan(ordinal); err != nil {
		return err
	}
	return e.base.EncodeEnum(ordinal)
}

func (e *ValidatingEncoder) ArrayStart() error {
	if _, err := e.parser.Advance(grammar.KindArrayStart); err != nil {
		return err
	}
	return e.base.ArrayStart()
}

func (e *ValidatingEncoder) ArrayEnd() error {
	if err := e.parser.PopRepeater(); err != nil {
		return err
	}
	if _, err := e.parser.Advance(grammar.KindArrayEnd); err != nil {
		return err
	}
	return e.base.ArrayEnd()
}

func (e *ValidatingEncoder) MapStart() error {
	if _, err := e.parser.Advance(grammar.KindMapStart); err != nil {
		return err
	}
	return e.base.MapStart()
}

func (e *ValidatingEncoder) MapEnd() error {
	if err := e.parser.PopRepeater(); err != nil {
		return err
	}
	if _, err := e.parser.Advance(grammar.KindMapEnd); err != nil {
		return err
	}
	return e.base.MapEnd()
}

func (e *ValidatingEncoder) SetItemCount(n int64) error {
	if err := e.parser.SetRepeatCount(n); err != nil {
		return err
	}
	return e.base.SetItemCount(n)
}

func (e *ValidatingEncoder) StartItem() error {
	if e.parser.Top() != grammar.KindRepeater {
		return errors.GrammarViolation(errors.PhaseEncode,
			grammar.KindRepeater.String(), e.parser.Top().String())
	}
	return e.base.StartItem()
}

func (e *ValidatingEncoder) EncodeUnionIndex(branch int64) error {
	if _, err := e.parser.Advance(grammar.KindUnion); err != nil {
		return err
	}
	if err := e.parser.SelectBranch(branch); err != nil {
		return err
	}
	return e.base.EncodeUnionIndex(branch)
}
