package grammar

import (
	stderrors "errors"
	"testing"

	averrors "github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/schema"
)

func mustSchema(t *testing.T, src string) *schema.Node {
	t.Helper()
	n, err := schema.Parse(src)
	if err != nil {
		t.Fatalf("schema.Parse(%s): %v", src, err)
	}
	return n
}

func newTestParser(t *testing.T, g Grammar) *Parser {
	t.Helper()
	return NewParser(g, averrors.PhaseDecode, nil, NoopHandler{})
}

func TestGeneratePrimitive(t *testing.T) {
	g, err := Generate(mustSchema(t, `"long"`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	k, err := p.Advance(KindLong)
	if err != nil || k != KindLong {
		t.Fatalf("Advance = %s, %v", k, err)
	}
}

func TestAdvanceMismatch(t *testing.T) {
	g, err := Generate(mustSchema(t, `"string"`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	_, err = p.Advance(KindLong)
	var e *averrors.Error
	if !stderrors.As(err, &e) || e.Kind != averrors.KindGrammarViolation {
		t.Fatalf("err = %v, want grammar_violation", err)
	}
}

func TestRecordFieldOrderOnStack(t *testing.T) {
	g, err := Generate(mustSchema(t,
		`{"type":"record","name":"R","fields":[
			{"name":"a","type":"int"},
			{"name":"b","type":"string"},
			{"name":"c","type":"double"}]}`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	for _, k := range []Kind{KindInt, KindString, KindDouble} {
		if _, err := p.Advance(k); err != nil {
			t.Fatalf("Advance(%s): %v", k, err)
		}
	}
}

func TestFixedSizeCheck(t *testing.T) {
	g, err := Generate(mustSchema(t, `{"type":"fixed","name":"F","size":8}`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	if _, err := p.Advance(KindFixed); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := p.AssertSize(4); err == nil {
		t.Fatal("AssertSize(4) on fixed(8) should fail")
	}

	p = newTestParser(t, g)
	if _, err := p.Advance(KindFixed); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := p.AssertSize(8); err != nil {
		t.Fatalf("AssertSize(8): %v", err)
	}
}

func TestEnumBound(t *testing.T) {
	g, err := Generate(mustSchema(t, `{"type":"enum","name":"E","symbols":["A","B"]}`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	if _, err := p.Advance(KindEnum); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := p.AssertLessThan(2); err == nil {
		t.Fatal("ordinal 2 of 2 symbols should fail")
	}
}

func TestRepeaterCounts(t *testing.T) {
	g, err := Generate(mustSchema(t, `{"type":"array","items":"long"}`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	if _, err := p.Advance(KindArrayStart); err != nil {
		t.Fatalf("Advance(array_start): %v", err)
	}
	if err := p.SetRepeatCount(2); err != nil {
		t.Fatalf("SetRepeatCount: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := p.Advance(KindLong); err != nil {
			t.Fatalf("item %d: %v", i, err)
		}
	}
	// A third item exceeds the declared count.
	if _, err := p.Advance(KindLong); err == nil {
		t.Fatal("advancing past the repeat count should fail")
	}
}

func TestPopRepeaterNonZero(t *testing.T) {
	g, err := Generate(mustSchema(t, `{"type":"array","items":"long"}`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	if _, err := p.Advance(KindArrayStart); err != nil {
		t.Fatal(err)
	}
	if err := p.SetRepeatCount(3); err != nil {
		t.Fatal(err)
	}
	if err := p.PopRepeater(); err == nil {
		t.Fatal("PopRepeater with pending items should fail")
	}
}

func TestUnionSelectBranch(t *testing.T) {
	g, err := Generate(mustSchema(t, `["null","string"]`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	p := newTestParser(t, g)
	if _, err := p.Advance(KindUnion); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectBranch(2); err == nil {
		t.Fatal("branch 2 of 2 should fail")
	}

	p = newTestParser(t, g)
	if _, err := p.Advance(KindUnion); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectBranch(1); err != nil {
		t.Fatalf("SelectBranch: %v", err)
	}
	if _, err := p.Advance(KindString); err != nil {
		t.Fatalf("Advance(string): %v", err)
	}
}

func TestRecursiveGrammarTerminates(t *testing.T) {
	g, err := Generate(mustSchema(t, `{
		"type": "record",
		"name": "Node",
		"fields": [
			{"name": "label", "type": "string"},
			{"name": "children", "type": {"type": "array", "items": "Node"}}
		]
	}`))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Walk two levels to prove the placeholder was patched to an
	// indirection instead of an infinite expansion.
	p := newTestParser(t, g)
	if _, err := p.Advance(KindString); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Advance(KindArrayStart); err != nil {
		t.Fatal(err)
	}
	if err := p.SetRepeatCount(1); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Advance(KindString); err != nil {
		t.Fatalf("nested label: %v", err)
	}
}

func TestResolvingPromotion(t *testing.T) {
	g, err := GenerateResolving(mustSchema(t, `"int"`), mustSchema(t, `"double"`))
	if err != nil {
		t.Fatalf("GenerateResolving: %v", err)
	}
	p := newTestParser(t, g)
	k, err := p.Advance(KindDouble)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if k != KindInt {
		t.Fatalf("Advance returned %s, want int (writer kind)", k)
	}
}

func TestResolvingPromotionWrongTarget(t *testing.T) {
	g, err := GenerateResolving(mustSchema(t, `"int"`), mustSchema(t, `"long"`))
	if err != nil {
		t.Fatalf("GenerateResolving: %v", err)
	}
	p := newTestParser(t, g)
	if _, err := p.Advance(KindString); err == nil {
		t.Fatal("resolve symbol should reject a non-target terminal")
	}
}

func TestResolvingIncompatible(t *testing.T) {
	g, err := GenerateResolving(mustSchema(t, `"long"`), mustSchema(t, `"int"`))
	if err != nil {
		t.Fatalf("GenerateResolving: %v", err)
	}
	p := newTestParser(t, g)
	_, err = p.Advance(KindInt)
	var e *averrors.Error
	if !stderrors.As(err, &e) || e.Kind != averrors.KindIncompatibleSchema {
		t.Fatalf("err = %v, want incompatible_schema", err)
	}
}

func TestResolvingEnumAdjust(t *testing.T) {
	w := mustSchema(t, `{"type":"enum","name":"E","symbols":["A","B","C"]}`)
	r := mustSchema(t, `{"type":"enum","name":"E","symbols":["C","A"]}`)
	g, err := GenerateResolving(w, r)
	if err != nil {
		t.Fatalf("GenerateResolving: %v", err)
	}
	p := newTestParser(t, g)
	if _, err := p.Advance(KindEnum); err != nil {
		t.Fatal(err)
	}
	got, err := p.EnumAdjust(0) // writer A -> reader 1
	if err != nil || got != 1 {
		t.Fatalf("EnumAdjust(0) = %d, %v", got, err)
	}

	p = newTestParser(t, g)
	if _, err := p.Advance(KindEnum); err != nil {
		t.Fatal(err)
	}
	if _, err := p.EnumAdjust(1); err == nil { // writer B absent in reader
		t.Fatal("EnumAdjust of absent symbol should fail")
	}
}

func TestResolvingMissingDefault(t *testing.T) {
	w := mustSchema(t, `{"type":"record","name":"R","fields":[]}`)
	r := mustSchema(t, `{"type":"record","name":"R","fields":[{"name":"f","type":"int"}]}`)
	_, err := GenerateResolving(w, r)
	var e *averrors.Error
	if !stderrors.As(err, &e) || e.Kind != averrors.KindIncompatibleSchema {
		t.Fatalf("err = %v, want incompatible_schema at construction", err)
	}
}

func TestResolvingRecursive(t *testing.T) {
	src := `{
		"type": "record",
		"name": "Node",
		"fields": [
			{"name": "label", "type": "string"},
			{"name": "children", "type": {"type": "array", "items": "Node"}}
		]
	}`
	if _, err := GenerateResolving(mustSchema(t, src), mustSchema(t, src)); err != nil {
		t.Fatalf("GenerateResolving on recursive schema: %v", err)
	}
}

func TestJSONGrammarFraming(t *testing.T) {
	g, err := JSONGenerate(mustSchema(t,
		`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`))
	if err != nil {
		t.Fatalf("JSONGenerate: %v", err)
	}

	var seen []Kind
	h := handlerFunc(func(s *Symbol) (int64, error) {
		seen = append(seen, s.Kind())
		return 0, nil
	})
	p := NewParser(g, averrors.PhaseDecode, nil, h)
	if _, err := p.Advance(KindInt); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if len(seen) != 2 || seen[0] != KindRecordStart || seen[1] != KindField {
		t.Fatalf("actions = %v", seen)
	}
	if err := p.ProcessImplicitActions(); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen[2] != KindRecordEnd {
		t.Fatalf("actions = %v", seen)
	}
}

type handlerFunc func(s *Symbol) (int64, error)

func (f handlerFunc) Handle(s *Symbol) (int64, error) { return f(s) }
