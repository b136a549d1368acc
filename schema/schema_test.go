package schema

import (
	"bytes"
	stderrors "errors"
	"testing"

	averrors "github.com/avroforge/avro/errors"
)

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	n, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%s): %v", src, err)
	}
	return n
}

func TestParsePrimitives(t *testing.T) {
	cases := []struct {
		src  string
		kind Type
	}{
		{`"null"`, TypeNull},
		{`"boolean"`, TypeBoolean},
		{`"int"`, TypeInt},
		{`"long"`, TypeLong},
		{`"float"`, TypeFloat},
		{`"double"`, TypeDouble},
		{`"string"`, TypeString},
		{`"bytes"`, TypeBytes},
		{`{"type":"int"}`, TypeInt},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.src).Kind(); got != tc.kind {
			t.Errorf("Parse(%s).Kind() = %s, want %s", tc.src, got, tc.kind)
		}
	}
}

func TestParseRecord(t *testing.T) {
	n := mustParse(t, `{
		"type": "record",
		"name": "Point",
		"namespace": "geo",
		"fields": [
			{"name": "x", "type": "long"},
			{"name": "y", "type": "long"}
		]
	}`)
	if n.Kind() != TypeRecord {
		t.Fatalf("kind = %s", n.Kind())
	}
	if n.Name().Full() != "geo.Point" {
		t.Fatalf("name = %s", n.Name().Full())
	}
	if n.Names() != 2 || n.NameAt(0) != "x" || n.NameAt(1) != "y" {
		t.Fatalf("fields = %d %q %q", n.Names(), n.NameAt(0), n.NameAt(1))
	}
	if i, ok := n.IndexOf("y"); !ok || i != 1 {
		t.Fatalf("IndexOf(y) = %d, %v", i, ok)
	}
}

func TestParseComplex(t *testing.T) {
	n := mustParse(t, `{"type":"array","items":{"type":"map","values":"int"}}`)
	if n.Kind() != TypeArray || n.LeafAt(0).Kind() != TypeMap {
		t.Fatalf("shape = %s/%s", n.Kind(), n.LeafAt(0).Kind())
	}

	n = mustParse(t, `["null","string"]`)
	if n.Kind() != TypeUnion || n.Leaves() != 2 {
		t.Fatalf("union shape = %s/%d", n.Kind(), n.Leaves())
	}

	n = mustParse(t, `{"type":"fixed","name":"MD5","size":16}`)
	if n.Kind() != TypeFixed || n.FixedSize() != 16 {
		t.Fatalf("fixed = %s/%d", n.Kind(), n.FixedSize())
	}

	n = mustParse(t, `{"type":"enum","name":"Suit","symbols":["SPADES","HEARTS"]}`)
	if n.Kind() != TypeEnum || n.Names() != 2 {
		t.Fatalf("enum = %s/%d", n.Kind(), n.Names())
	}
}

func TestParseRecursive(t *testing.T) {
	n := mustParse(t, `{
		"type": "record",
		"name": "Node",
		"fields": [
			{"name": "label", "type": "string"},
			{"name": "children", "type": {"type": "array", "items": "Node"}}
		]
	}`)
	children := n.LeafAt(1)
	if children.Kind() != TypeArray {
		t.Fatalf("children kind = %s", children.Kind())
	}
	item := children.LeafAt(0)
	if item.Kind() != TypeSymbolic {
		t.Fatalf("item kind = %s", item.Kind())
	}
	target, err := item.Target()
	if err != nil {
		t.Fatalf("Target: %v", err)
	}
	if target != n {
		t.Fatal("symbolic target is not the declaring record")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"a","type":"int"}]}`,
		`{"type":"enum","name":"E","symbols":["A","A"]}`,
		`"NoSuchType"`,
		`{"type":"record","name":"R"}`,
		`["int","int"]`,
		`[["int"],"string"]`,
		`{"type":"fixed","name":"F"}`,
	}
	for _, src := range cases {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%s) should fail", src)
		}
	}
}

func TestDuplicateNameKind(t *testing.T) {
	_, err := Parse(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"a","type":"int"}]}`)
	var e *averrors.Error
	if !stderrors.As(err, &e) || e.Kind != averrors.KindDuplicateName {
		t.Fatalf("err = %v, want duplicate_name", err)
	}
}

func TestCanonical(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`"int"`, `"int"`},
		{`{"type":"array","items":"long"}`, `{"type":"array","items":"long"}`},
		{
			`{"type":"record","name":"Point","namespace":"geo","fields":[{"name":"x","type":"long"}]}`,
			`{"name":"geo.Point","type":"record","fields":[{"name":"x","type":"long"}]}`,
		},
		{
			`{"type":"enum","name":"Suit","symbols":["S","H"]}`,
			`{"name":"Suit","type":"enum","symbols":["S","H"]}`,
		},
		{`["null","int"]`, `["null","int"]`},
	}
	for _, tc := range cases {
		if got := Canonical(mustParse(t, tc.src)); got != tc.want {
			t.Errorf("Canonical(%s)\n got %s\nwant %s", tc.src, got, tc.want)
		}
	}
}

func TestCanonicalRecursiveReference(t *testing.T) {
	n := mustParse(t, `{"type":"record","name":"N","fields":[{"name":"next","type":["null","N"]}]}`)
	want := `{"name":"N","type":"record","fields":[{"name":"next","type":["null","N"]}]}`
	if got := Canonical(n); got != want {
		t.Fatalf("Canonical\n got %s\nwant %s", got, want)
	}
}

func TestEqual(t *testing.T) {
	a := mustParse(t, `{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	b := mustParse(t, `{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"b","type":"int"}]}`)
	c := mustParse(t, `{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`)
	if !Equal(a, c) {
		t.Fatal("identical schemas should be equal")
	}
	if Equal(a, b) {
		t.Fatal("different schemas should not be equal")
	}
}

func TestResolvePrimitives(t *testing.T) {
	cases := []struct {
		writer, reader Type
		want           Match
	}{
		{TypeInt, TypeInt, ExactMatch},
		{TypeInt, TypeLong, PromotableToLong},
		{TypeInt, TypeFloat, PromotableToFloat},
		{TypeInt, TypeDouble, PromotableToDouble},
		{TypeLong, TypeFloat, PromotableToFloat},
		{TypeLong, TypeDouble, PromotableToDouble},
		{TypeFloat, TypeDouble, PromotableToDouble},
		{TypeLong, TypeInt, NoMatch},
		{TypeDouble, TypeFloat, NoMatch},
		{TypeFloat, TypeLong, NoMatch},
		{TypeString, TypeBytes, NoMatch},
		{TypeNull, TypeNull, ExactMatch},
	}
	for _, tc := range cases {
		got := Resolve(NewPrimitive(tc.writer), NewPrimitive(tc.reader))
		if got != tc.want {
			t.Errorf("Resolve(%s, %s) = %s, want %s", tc.writer, tc.reader, got, tc.want)
		}
	}
}

func TestResolveNamed(t *testing.T) {
	f1 := mustParse(t, `{"type":"fixed","name":"F","size":4}`)
	f2 := mustParse(t, `{"type":"fixed","name":"F","size":4}`)
	f3 := mustParse(t, `{"type":"fixed","name":"F","size":8}`)
	f4 := mustParse(t, `{"type":"fixed","name":"G","size":4}`)
	if Resolve(f1, f2) != ExactMatch {
		t.Fatal("same name and size should match")
	}
	if Resolve(f1, f3) != NoMatch || Resolve(f1, f4) != NoMatch {
		t.Fatal("size or name mismatch should not match")
	}
}

func TestResolveReaderUnion(t *testing.T) {
	reader := mustParse(t, `["string","long","double"]`)
	if got := Resolve(NewPrimitive(TypeLong), reader); got != ExactMatch {
		t.Fatalf("long vs union = %s, want match", got)
	}
	// int has no exact branch; first promotable branch decides the class.
	if got := Resolve(NewPrimitive(TypeInt), reader); got != PromotableToLong {
		t.Fatalf("int vs union = %s, want promotable_to_long", got)
	}
	if got := Resolve(NewPrimitive(TypeBoolean), reader); got != NoMatch {
		t.Fatalf("boolean vs union = %s, want no_match", got)
	}
}

func TestResolveContainers(t *testing.T) {
	wa := mustParse(t, `{"type":"array","items":"int"}`)
	ra := mustParse(t, `{"type":"array","items":"double"}`)
	if got := Resolve(wa, ra); got != PromotableToDouble {
		t.Fatalf("array<int> vs array<double> = %s", got)
	}
	wm := mustParse(t, `{"type":"map","values":"string"}`)
	rm := mustParse(t, `{"type":"map","values":"int"}`)
	if got := Resolve(wm, rm); got != NoMatch {
		t.Fatalf("map<string> vs map<int> = %s", got)
	}
}

func TestDefaultBytes(t *testing.T) {
	n := mustParse(t, `{
		"type": "record",
		"name": "R",
		"fields": [
			{"name": "f", "type": "int", "default": 100},
			{"name": "s", "type": "string", "default": "hi"},
			{"name": "u", "type": ["null", "int"], "default": null},
			{"name": "nodefault", "type": "int"}
		]
	}`)
	if !n.HasDefaultAt(0) {
		t.Fatal("field f should have a default")
	}
	// zig-zag(100) = 200 -> 0xc8 0x01
	if got := n.DefaultAt(0); !bytes.Equal(got, []byte{0xc8, 0x01}) {
		t.Fatalf("int default bytes = %x", got)
	}
	// length 2 then "hi"
	if got := n.DefaultAt(1); !bytes.Equal(got, []byte{0x04, 'h', 'i'}) {
		t.Fatalf("string default bytes = %x", got)
	}
	// union default selects branch 0 (null): just the branch tag
	if got := n.DefaultAt(2); !bytes.Equal(got, []byte{0x00}) {
		t.Fatalf("union default bytes = %x", got)
	}
	if n.HasDefaultAt(3) {
		t.Fatal("field nodefault should have no default")
	}
}

func TestDefaultMismatch(t *testing.T) {
	cases := []string{
		`{"type":"record","name":"R","fields":[{"name":"f","type":"int","default":"x"}]}`,
		`{"type":"record","name":"R","fields":[{"name":"f","type":"string","default":3}]}`,
		`{"type":"record","name":"R","fields":[{"name":"f","type":{"type":"enum","name":"E","symbols":["A"]},"default":"B"}]}`,
		`{"type":"record","name":"R","fields":[{"name":"f","type":{"type":"fixed","name":"F","size":2},"default":"abc"}]}`,
	}
	for _, src := range cases {
		if _, err := Parse(src); err == nil {
			t.Errorf("Parse(%s) should reject the default", src)
		}
	}
}

func TestParseName(t *testing.T) {
	n, err := ParseName("a.b.C", "ignored")
	if err != nil || n.Full() != "a.b.C" || n.Simple != "C" || n.Namespace != "a.b" {
		t.Fatalf("ParseName = %+v, %v", n, err)
	}
	n, err = ParseName("C", "a.b")
	if err != nil || n.Full() != "a.b.C" {
		t.Fatalf("ParseName = %+v, %v", n, err)
	}
	if _, err := ParseName("9bad", ""); err == nil {
		t.Fatal("invalid name should fail")
	}
}
