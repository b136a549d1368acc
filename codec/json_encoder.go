package codec

import (
	"math"
	"strconv"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/grammar"
	"github.com/avroforge/avro/schema"
)

// JSONEncoder writes the Avro JSON encoding. It is validating by
// construction: the JSON grammar drives record framing, union
// wrappers and enum labels.
type JSONEncoder struct {
	gen      *jsonGen
	parser   *grammar.Parser
	wrappers []bool // per open union: wrapper object written
}

// NewJSONEncoder compiles the JSON grammar of s.
func NewJSONEncoder(s *schema.Node) (*JSONEncoder, error) {
	g, err := grammar.JSONGenerate(s)
	if err != nil {
		return nil, err
	}
	e := &JSONEncoder{gen: newJSONGen()}
	e.parser = grammar.NewParser(g, errors.PhaseEncode, nil, e)
	return e, nil
}

// Handle implements grammar.Handler: structural symbols become JSON
// framing.
func (e *JSONEncoder) Handle(s *grammar.Symbol) (int64, error) {
	switch s.Kind() {
	case grammar.KindRecordStart:
		return 0, e.gen.Begin(ctxRecord)
	case grammar.KindRecordEnd:
		return 0, e.gen.End()
	case grammar.KindField:
		return 0, e.gen.Key(s.FieldName())
	case grammar.KindUnionEnd:
		wrapped := e.wrappers[len(e.wrappers)-1]
		e.wrappers = e.wrappers[:len(e.wrappers)-1]
		if wrapped {
			return 0, e.gen.End()
		}
	}
	return 0, nil
}

func (e *JSONEncoder) Init(out avro.OutputStream) {
	e.gen.Reset(out)
	e.parser.Reset()
	e.wrappers = e.wrappers[:0]
}

func (e *JSONEncoder) Flush() error {
	if err := e.parser.ProcessImplicitActions(); err != nil {
		return err
	}
	return e.gen.Flush()
}

func (e *JSONEncoder) EncodeNull() error {
	if _, err := e.parser.Advance(grammar.KindNull); err != nil {
		return err
	}
	return e.gen.Value("null")
}

func (e *JSONEncoder) EncodeBool(b bool) error {
	if _, err := e.parser.Advance(grammar.KindBool); err != nil {
		return err
	}
	return e.gen.Value(strconv.FormatBool(b))
}

func (e *JSONEncoder) EncodeInt(v int32) error {
	if _, err := e.parser.Advance(grammar.KindInt); err != nil {
		return err
	}
	return e.gen.Value(strconv.FormatInt(int64(v), 10))
}

func (e *JSONEncoder) EncodeLong(v int64) error {
	if _, err := e.parser.Advance(grammar.KindLong); err != nil {
		return err
	}
	return e.gen.Value(strconv.FormatInt(v, 10))
}

func (e *JSONEncoder) EncodeFloat(v float32) error {
	if _, err := e.parser.Advance(grammar.KindFloat); err != nil {
		return err
	}
	return e.gen.Value(formatFloat(float64(v), 32))
}

func (e *JSONEncoder) EncodeDouble(v float64) error {
	if _, err := e.parser.Advance(grammar.KindDouble); err != nil {
		return err
	}
	return e.gen.Value(formatFloat(v, 64))
}

// formatFloat renders the non-finite values as the string literals the
// Avro JSON encoding prescribes.
func formatFloat(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return `"NaN"`
	case math.IsInf(v, 1):
		return `"Infinity"`
	case math.IsInf(v, -1):
		return `"-Infinity"`
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}

func (e *JSONEncoder) EncodeString(s string) error {
	if _, err := e.parser.Advance(grammar.KindString); err != nil {
		return err
	}
	if e.gen.InMapKeyPosition() {
		if err := e.gen.MapKey(s); err != nil {
			return err
		}
		e.gen.MapKeyWritten()
		return nil
	}
	return e.gen.String(s)
}

func (e *JSONEncoder) EncodeBytes(b []byte) error {
	if _, err := e.parser.Advance(grammar.KindBytes); err != nil {
		return err
	}
	return e.gen.String(byteString(b))
}

func (e *JSONEncoder) EncodeFixed(b []byte) error {
	if _, err := e.parser.Advance(grammar.KindFixed); err != nil {
		return err
	}
	if err := e.parser.AssertSize(len(b)); err != nil {
		return err
	}
	return e.gen.String(byteString(b))
}

func (e *JSONEncoder) EncodeEnum(ordinal int64) error {
	if _, err := e.parser.Advance(grammar.KindEnum); err != nil {
		return err
	}
	labels, err := e.parser.EnumLabels()
	if err != nil {
		return err
	}
	if ordinal < 0 || ordinal >= int64(len(labels)) {
		return errors.Range(errors.PhaseEncode, "enum ordinal %d out of range [0, %d)", ordinal, len(labels))
	}
	return e.gen.String(labels[ordinal])
}

func (e *JSONEncoder) ArrayStart() error {
	if _, err := e.parser.Advance(grammar.KindArrayStart); err != nil {
		return err
	}
	return e.gen.Begin(ctxArray)
}

func (e *JSONEncoder) ArrayEnd() error {
	if err := e.parser.ProcessImplicitActions(); err != nil {
		return err
	}
	if err := e.parser.PopRepeater(); err != nil {
		return err
	}
	if _, err := e.parser.Advance(grammar.KindArrayEnd); err != nil {
		return err
	}
	return e.gen.End()
}

func (e *JSONEncoder) MapStart() error {
	if _, err := e.parser.Advance(grammar.KindMapStart); err != nil {
		return err
	}
	return e.gen.Begin(ctxMap)
}

func (e *JSONEncoder) MapEnd() error {
	if err := e.parser.ProcessImplicitActions(); err != nil {
		return err
	}
	if err := e.parser.PopRepeater(); err != nil {
		return err
	}
	if _, err := e.parser.Advance(grammar.KindMapEnd); err != nil {
		return err
	}
	return e.gen.End()
}

func (e *JSONEncoder) SetItemCount(n int64) error {
	if err := e.parser.ProcessImplicitActions(); err != nil {
		return err
	}
	return e.parser.SetRepeatCount(n)
}

func (e *JSONEncoder) StartItem() error {
	if err := e.parser.ProcessImplicitActions(); err != nil {
		return err
	}
	if e.parser.Top() != grammar.KindRepeater {
		return errors.GrammarViolation(errors.PhaseEncode,
			grammar.KindRepeater.String(), e.parser.Top().String())
	}
	return nil
}

func (e *JSONEncoder) EncodeUnionIndex(branch int64) error {
	if _, err := e.parser.Advance(grammar.KindUnion); err != nil {
		return err
	}
	names, err := e.parser.AltNames()
	if err != nil {
		return err
	}
	if branch < 0 || branch >= int64(len(names)) {
		return errors.Range(errors.PhaseEncode, "union branch %d out of range [0, %d)", branch, len(names))
	}
	if err := e.parser.SelectBranch(branch); err != nil {
		return err
	}
	if names[branch] == "null" {
		e.wrappers = append(e.wrappers, false)
		return nil
	}
	e.wrappers = append(e.wrappers, true)
	if err := e.gen.Begin(ctxRecord); err != nil {
		return err
	}
	return e.gen.Key(names[branch])
}
