package codec

import (
	"encoding/json"
	"math"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/grammar"
	"github.com/avroforge/avro/schema"
)

// JSONDecoder reads the Avro JSON encoding, validating against the
// schema grammar as it goes.
type JSONDecoder struct {
	lex      *jsonLex
	parser   *grammar.Parser
	wrappers []bool // per open union: wrapper object to close
}

// NewJSONDecoder compiles the JSON grammar of s.
func NewJSONDecoder(s *schema.Node) (*JSONDecoder, error) {
	g, err := grammar.JSONGenerate(s)
	if err != nil {
		return nil, err
	}
	d := &JSONDecoder{lex: newJSONLex()}
	d.parser = grammar.NewParser(g, errors.PhaseDecode, nil, d)
	return d, nil
}

// Handle implements grammar.Handler: structural symbols verify the
// corresponding JSON framing tokens.
func (d *JSONDecoder) Handle(s *grammar.Symbol) (int64, error) {
	switch s.Kind() {
	case grammar.KindRecordStart:
		return 0, d.lex.expectDelim('{')
	case grammar.KindRecordEnd:
		return 0, d.lex.expectDelim('}')
	case grammar.KindField:
		t, err := d.lex.Token()
		if err != nil {
			return 0, err
		}
		name, ok := t.(string)
		if !ok || name != s.FieldName() {
			return 0, errors.InvalidData(errors.PhaseDecode, nil,
				"expected field %q, found %v", s.FieldName(), t)
		}
	case grammar.KindUnionEnd:
		wrapped := d.wrappers[len(d.wrappers)-1]
		d.wrappers = d.wrappers[:len(d.wrappers)-1]
		if wrapped {
			return 0, d.lex.expectDelim('}')
		}
	}
	return 0, nil
}

func (d *JSONDecoder) Init(in avro.InputStream) {
	d.lex.Reset(in)
	d.parser.Reset()
	d.wrappers = d.wrappers[:0]
}

func (d *JSONDecoder) DecodeNull() error {
	if _, err := d.parser.Advance(grammar.KindNull); err != nil {
		return err
	}
	t, err := d.lex.Token()
	if err != nil {
		return err
	}
	if t != nil {
		return errors.InvalidData(errors.PhaseDecode, nil, "expected null, found %v", t)
	}
	return nil
}

func (d *JSONDecoder) DecodeBool() (bool, error) {
	if _, err := d.parser.Advance(grammar.KindBool); err != nil {
		return false, err
	}
	t, err := d.lex.Token()
	if err != nil {
		return false, err
	}
	b, ok := t.(bool)
	if !ok {
		return false, errors.InvalidData(errors.PhaseDecode, nil, "expected boolean, found %v", t)
	}
	return b, nil
}

func (d *JSONDecoder) readLong() (int64, error) {
	t, err := d.lex.Token()
	if err != nil {
		return 0, err
	}
	num, ok := t.(json.Number)
	if !ok {
		return 0, errors.InvalidData(errors.PhaseDecode, nil, "expected integer, found %v", t)
	}
	v, err := num.Int64()
	if err != nil {
		return 0, errors.InvalidData(errors.PhaseDecode, nil, "%v is not an integer", num)
	}
	return v, nil
}

func (d *JSONDecoder) DecodeInt() (int32, error) {
	if _, err := d.parser.Advance(grammar.KindInt); err != nil {
		return 0, err
	}
	v, err := d.readLong()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Range(errors.PhaseDecode, "value %d out of range for int", v)
	}
	return int32(v), nil
}

func (d *JSONDecoder) DecodeLong() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindLong); err != nil {
		return 0, err
	}
	return d.readLong()
}

// readDouble accepts numbers plus the literals "NaN", "Infinity" and
// "-Infinity".
func (d *JSONDecoder) readDouble() (float64, error) {
	t, err := d.lex.Token()
	if err != nil {
		return 0, err
	}
	switch v := t.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, errors.InvalidData(errors.PhaseDecode, nil, "%v is not a number", v)
		}
		return f, nil
	case string:
		switch v {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
	}
	return 0, errors.InvalidData(errors.PhaseDecode, nil, "expected number, found %v", t)
}

func (d *JSONDecoder) DecodeFloat() (float32, error) {
	if _, err := d.parser.Advance(grammar.KindFloat); err != nil {
		return 0, err
	}
	v, err := d.readDouble()
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func (d *JSONDecoder) DecodeDouble() (float64, error) {
	if _, err := d.parser.Advance(grammar.KindDouble); err != nil {
		return 0, err
	}
	return d.readDouble()
}

func (d *JSONDecoder) readString() (string, error) {
	t, err := d.lex.Token()
	if err != nil {
		return "", err
	}
	s, ok := t.(string)
	if !ok {
		return "", errors.InvalidData(errors.PhaseDecode, nil, "expected string, found %v", t)
	}
	return s, nil
}

func (d *JSONDecoder) DecodeString() (string, error) {
	if _, err := d.parser.Advance(grammar.KindString); err != nil {
		return "", err
	}
	return d.readString()
}

func (d *JSONDecoder) SkipString() error {
	_, err := d.DecodeString()
	return err
}

func (d *JSONDecoder) DecodeBytes() ([]byte, error) {
	if _, err := d.parser.Advance(grammar.KindBytes); err != nil {
		return nil, err
	}
	s, err := d.readString()
	if err != nil {
		return nil, err
	}
	return stringBytes(s)
}

func (d *JSONDecoder) SkipBytes() error {
	_, err := d.DecodeBytes()
	return err
}

func (d *JSONDecoder) DecodeFixed(n int) ([]byte, error) {
	if _, err := d.parser.Advance(grammar.KindFixed); err != nil {
		return nil, err
	}
	if err := d.parser.AssertSize(n); err != nil {
		return nil, err
	}
	s, err := d.readString()
	if err != nil {
		return nil, err
	}
	b, err := stringBytes(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			"fixed value has %d bytes, want %d", len(b), n)
	}
	return b, nil
}

func (d *JSONDecoder) SkipFixed(n int) error {
	_, err := d.DecodeFixed(n)
	return err
}

// DecodeEnum reads an enum symbol and returns its ordinal.
func (d *JSONDecoder) DecodeEnum() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindEnum); err != nil {
		return 0, err
	}
	labels, err := d.parser.EnumLabels()
	if err != nil {
		return 0, err
	}
	s, err := d.readString()
	if err != nil {
		return 0, err
	}
	for i, label := range labels {
		if label == s {
			return int64(i), nil
		}
	}
	return 0, errors.InvalidData(errors.PhaseDecode, nil, "%q is not an enum symbol", s)
}

// containerNext reports one remaining item at a time: the JSON text
// carries no block counts.
func (d *JSONDecoder) containerNext(closing rune, endKind grammar.Kind) (int64, error) {
	if err := d.parser.ProcessImplicitActions(); err != nil {
		return 0, err
	}
	t, err := d.lex.Peek()
	if err != nil {
		return 0, err
	}
	if isDelim(t, closing) {
		if _, err := d.lex.Token(); err != nil {
			return 0, err
		}
		if err := d.parser.PopRepeater(); err != nil {
			return 0, err
		}
		_, err := d.parser.Advance(endKind)
		return 0, err
	}
	return 1, d.parser.SetRepeatCount(1)
}

func (d *JSONDecoder) ArrayStart() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindArrayStart); err != nil {
		return 0, err
	}
	if err := d.lex.expectDelim('['); err != nil {
		return 0, err
	}
	return d.containerNext(']', grammar.KindArrayEnd)
}

func (d *JSONDecoder) ArrayNext() (int64, error) {
	return d.containerNext(']', grammar.KindArrayEnd)
}

func (d *JSONDecoder) SkipArray() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindArrayStart); err != nil {
		return 0, err
	}
	if err := d.lex.expectDelim('['); err != nil {
		return 0, err
	}
	if err := d.skipComposite(); err != nil {
		return 0, err
	}
	if err := d.parser.Pop(); err != nil {
		return 0, err
	}
	_, err := d.parser.Advance(grammar.KindArrayEnd)
	return 0, err
}

func (d *JSONDecoder) MapStart() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindMapStart); err != nil {
		return 0, err
	}
	if err := d.lex.expectDelim('{'); err != nil {
		return 0, err
	}
	return d.containerNext('}', grammar.KindMapEnd)
}

func (d *JSONDecoder) MapNext() (int64, error) {
	return d.containerNext('}', grammar.KindMapEnd)
}

func (d *JSONDecoder) SkipMap() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindMapStart); err != nil {
		return 0, err
	}
	if err := d.lex.expectDelim('{'); err != nil {
		return 0, err
	}
	if err := d.skipComposite(); err != nil {
		return 0, err
	}
	if err := d.parser.Pop(); err != nil {
		return 0, err
	}
	_, err := d.parser.Advance(grammar.KindMapEnd)
	return 0, err
}

// skipComposite consumes tokens until the open delimiter is balanced.
func (d *JSONDecoder) skipComposite() error {
	depth := 1
	for depth > 0 {
		t, err := d.lex.Token()
		if err != nil {
			return err
		}
		if delim, ok := t.(json.Delim); ok {
			switch rune(delim) {
			case '[', '{':
				depth++
			case ']', '}':
				depth--
			}
		}
	}
	return nil
}

// DecodeUnionIndex infers the branch from the JSON text: a bare null
// selects the null branch, an object wrapper's key names the branch.
func (d *JSONDecoder) DecodeUnionIndex() (int64, error) {
	if _, err := d.parser.Advance(grammar.KindUnion); err != nil {
		return 0, err
	}
	names, err := d.parser.AltNames()
	if err != nil {
		return 0, err
	}
	t, err := d.lex.Peek()
	if err != nil {
		return 0, err
	}
	var branchName string
	if t == nil {
		// The null literal stays in the stream for DecodeNull.
		branchName = "null"
		d.wrappers = append(d.wrappers, false)
	} else {
		if err := d.lex.expectDelim('{'); err != nil {
			return 0, err
		}
		branchName, err = d.readString()
		if err != nil {
			return 0, err
		}
		d.wrappers = append(d.wrappers, true)
	}
	for i, name := range names {
		if name == branchName {
			return int64(i), d.parser.SelectBranch(int64(i))
		}
	}
	return 0, errors.InvalidData(errors.PhaseDecode, nil, "unknown union branch %q", branchName)
}
