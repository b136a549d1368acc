package grammar

// Kind tags a grammar symbol.
type Kind uint8

const (
	// Terminals, matched directly by Parser.Advance.
	KindNull Kind = iota
	KindBool
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindBytes
	KindArrayStart
	KindArrayEnd
	KindMapStart
	KindMapEnd
	KindFixed
	KindEnum
	KindUnion

	// Structural and control symbols.
	KindSizeCheck
	KindRepeater
	KindAlternative
	KindPlaceholder
	KindIndirect
	KindResolve
	KindSkipStart
	KindEnumAdjust
	KindUnionAdjust
	KindEnumLabels

	// Implicit actions, delivered to the handler and popped during
	// Advance when not claimed by a dedicated parser method.
	KindRecordStart
	KindRecordEnd
	KindField
	KindUnionEnd
	KindRecord
	KindSizeList
	KindWriterUnion
	KindDefaultStart
	KindDefaultEnd

	KindError
)

var kindNames = [...]string{
	KindNull:         "null",
	KindBool:         "bool",
	KindInt:          "int",
	KindLong:         "long",
	KindFloat:        "float",
	KindDouble:       "double",
	KindString:       "string",
	KindBytes:        "bytes",
	KindArrayStart:   "array_start",
	KindArrayEnd:     "array_end",
	KindMapStart:     "map_start",
	KindMapEnd:       "map_end",
	KindFixed:        "fixed",
	KindEnum:         "enum",
	KindUnion:        "union",
	KindSizeCheck:    "size_check",
	KindRepeater:     "repeater",
	KindAlternative:  "alternative",
	KindPlaceholder:  "placeholder",
	KindIndirect:     "indirect",
	KindResolve:      "resolve",
	KindSkipStart:    "skip_start",
	KindEnumAdjust:   "enum_adjust",
	KindUnionAdjust:  "union_adjust",
	KindEnumLabels:   "enum_labels",
	KindRecordStart:  "record_start",
	KindRecordEnd:    "record_end",
	KindField:        "field",
	KindUnionEnd:     "union_end",
	KindRecord:       "record",
	KindSizeList:     "size_list",
	KindWriterUnion:  "writer_union",
	KindDefaultStart: "default_start",
	KindDefaultEnd:   "default_end",
	KindError:        "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsTerminal reports whether k is matched directly by Advance.
func (k Kind) IsTerminal() bool {
	return k <= KindUnion
}

// IsImplicitAction reports whether k is handled and popped implicitly.
func (k Kind) IsImplicitAction() bool {
	return k >= KindRecordStart && k <= KindDefaultEnd
}

// Production is an ordered sequence of symbols in reverse execution
// order: pushing elements 0..n-1 onto the parser stack leaves the
// first symbol to execute on top. Productions are shared by pointer
// and immutable after fixup.
type Production []Symbol

// Symbol is one instruction of a parsing program. Payload fields are
// populated per kind; the repeat count of an on-stack repeater lives in
// the stack's copy of the symbol.
type Symbol struct {
	kind    Kind
	n       int64       // size operand, reader branch, or live repeat count
	name    string      // field name
	prod    *Production // indirect target, repeater items, adjusted branch
	skip    *Production // repeater writer-only items
	alts    []*Production
	names   []string // alternative branch names (JSON grammars only)
	table   []int    // enum_adjust writer->reader ordinals (-1 = absent)
	order   []int    // size_list reader field order
	bytes   []byte   // default_start pre-encoded default
	from    Kind     // resolve: writer terminal
	to      Kind     // resolve: reader terminal
	key     any      // placeholder cache key
	isArray bool     // repeater orientation
	detail  string   // error action message
}

// Kind returns the symbol's tag.
func (s *Symbol) Kind() Kind { return s.kind }

// FieldName returns the name carried by a field symbol.
func (s *Symbol) FieldName() string { return s.name }

// DefaultBytes returns the pre-encoded default of a default_start.
func (s *Symbol) DefaultBytes() []byte { return s.bytes }

func terminal(k Kind) Symbol { return Symbol{kind: k} }

func sizeCheck(n int) Symbol { return Symbol{kind: KindSizeCheck, n: int64(n)} }

func repeater(items, skip *Production, isArray bool) Symbol {
	return Symbol{kind: KindRepeater, prod: items, skip: skip, isArray: isArray}
}

func alternative(alts []*Production) Symbol {
	return Symbol{kind: KindAlternative, alts: alts}
}

func namedAlternative(alts []*Production, names []string) Symbol {
	return Symbol{kind: KindAlternative, alts: alts, names: names}
}

func placeholder(key any) Symbol { return Symbol{kind: KindPlaceholder, key: key} }

func indirect(p *Production) Symbol { return Symbol{kind: KindIndirect, prod: p} }

func resolve(from, to Kind) Symbol { return Symbol{kind: KindResolve, from: from, to: to} }

func skipStart() Symbol { return Symbol{kind: KindSkipStart} }

func enumAdjust(table []int) Symbol { return Symbol{kind: KindEnumAdjust, table: table} }

func unionAdjust(branch int, p *Production) Symbol {
	return Symbol{kind: KindUnionAdjust, n: int64(branch), prod: p}
}

func enumLabels(names []string) Symbol { return Symbol{kind: KindEnumLabels, names: names} }

func unionEnd() Symbol { return Symbol{kind: KindUnionEnd} }

func recordStart() Symbol { return Symbol{kind: KindRecordStart} }

func recordEnd() Symbol { return Symbol{kind: KindRecordEnd} }

func field(name string) Symbol { return Symbol{kind: KindField, name: name} }

func recordAction() Symbol { return Symbol{kind: KindRecord} }

func sizeList(order []int) Symbol { return Symbol{kind: KindSizeList, order: order} }

func writerUnion() Symbol { return Symbol{kind: KindWriterUnion} }

func defaultStart(bin []byte) Symbol { return Symbol{kind: KindDefaultStart, bytes: bin} }

func defaultEnd() Symbol { return Symbol{kind: KindDefaultEnd} }

func errorAction(detail string) Symbol { return Symbol{kind: KindError, detail: detail} }

func single(s Symbol) *Production {
	p := Production{s}
	return &p
}
