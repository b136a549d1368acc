package schema

import (
	"weak"

	"github.com/avroforge/avro/errors"
)

// Node is one vertex of a schema tree. The zero Node is the null
// schema; all other shapes are built through the New* constructors and
// are immutable afterwards.
type Node struct {
	kind      Type
	name      Name
	hasName   bool
	leaves    []*Node
	names     []string // record field names or enum symbols, in order
	nameIndex map[string]int
	defaults  [][]byte // per-field pre-encoded Avro binary default
	size      int      // fixed size
	target    weak.Pointer[Node]
	refName   Name // name a symbolic node was declared under
}

// Field describes one record field during construction.
type Field struct {
	Name       string
	Schema     *Node
	Default    []byte // Avro binary encoding of the default value
	HasDefault bool
}

// NewPrimitive returns a node for one of the eight primitive types.
func NewPrimitive(t Type) *Node {
	if !t.IsPrimitive() {
		panic("schema: NewPrimitive on non-primitive type " + t.String())
	}
	return &Node{kind: t}
}

// NewFixed returns a fixed node of the given byte size.
func NewFixed(name Name, size int) (*Node, error) {
	if size < 0 {
		return nil, errors.InvalidData(errors.PhaseSchema, nil, "negative fixed size %d", size)
	}
	return &Node{kind: TypeFixed, name: name, hasName: true, size: size}, nil
}

// NewEnum returns an enum node. Symbols must be unique.
func NewEnum(name Name, symbols []string) (*Node, error) {
	idx := make(map[string]int, len(symbols))
	for i, s := range symbols {
		if !validName(s) {
			return nil, errors.InvalidData(errors.PhaseSchema, nil, "invalid enum symbol %q", s)
		}
		if _, dup := idx[s]; dup {
			return nil, errors.DuplicateName([]string{name.Full()}, s)
		}
		idx[s] = i
	}
	return &Node{
		kind:      TypeEnum,
		name:      name,
		hasName:   true,
		names:     append([]string(nil), symbols...),
		nameIndex: idx,
	}, nil
}

// NewArray returns an array node over items.
func NewArray(items *Node) *Node {
	return &Node{kind: TypeArray, leaves: []*Node{items}}
}

// NewMap returns a map node over values. Keys are always strings.
func NewMap(values *Node) *Node {
	return &Node{kind: TypeMap, leaves: []*Node{values}}
}

// NewRecord returns a record node. Field names must be unique.
func NewRecord(name Name, fields []Field) (*Node, error) {
	n := &Node{
		kind:      TypeRecord,
		name:      name,
		hasName:   true,
		leaves:    make([]*Node, 0, len(fields)),
		names:     make([]string, 0, len(fields)),
		defaults:  make([][]byte, len(fields)),
		nameIndex: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := n.nameIndex[f.Name]; dup {
			return nil, errors.DuplicateName([]string{name.Full()}, f.Name)
		}
		n.nameIndex[f.Name] = i
		n.names = append(n.names, f.Name)
		n.leaves = append(n.leaves, f.Schema)
		if f.HasDefault {
			n.defaults[i] = f.Default
			if n.defaults[i] == nil {
				n.defaults[i] = []byte{}
			}
		}
	}
	return n, nil
}

// NewUnion returns a union node. Unions may not immediately contain
// other unions, may hold at most one branch of each unnamed type, and
// named branches must carry distinct full names.
func NewUnion(branches []*Node) (*Node, error) {
	seenType := make(map[Type]bool)
	seenName := make(map[string]bool)
	for _, b := range branches {
		switch {
		case b.kind == TypeUnion:
			return nil, errors.InvalidData(errors.PhaseSchema, nil, "union may not immediately contain a union")
		case b.kind == TypeSymbolic:
			full := b.refName.Full()
			if seenName[full] {
				return nil, errors.DuplicateName(nil, full)
			}
			seenName[full] = true
		case b.kind.IsNamed():
			full := b.name.Full()
			if seenName[full] {
				return nil, errors.DuplicateName(nil, full)
			}
			seenName[full] = true
		default:
			if seenType[b.kind] {
				return nil, errors.DuplicateName(nil, b.kind.String())
			}
			seenType[b.kind] = true
		}
	}
	return &Node{kind: TypeUnion, leaves: append([]*Node(nil), branches...)}, nil
}

// NewSymbolic returns a non-owning reference to a previously declared
// named node. The target's lifetime is governed by its declaring tree.
func NewSymbolic(name Name, target *Node) *Node {
	return &Node{kind: TypeSymbolic, refName: name, target: weak.Make(target)}
}

// Kind returns the node's type tag.
func (n *Node) Kind() Type { return n.kind }

// HasName reports whether the node carries a qualified name.
func (n *Node) HasName() bool { return n.hasName || n.kind == TypeSymbolic }

// Name returns the node's qualified name. For symbolic nodes it is the
// referenced name.
func (n *Node) Name() Name {
	if n.kind == TypeSymbolic {
		return n.refName
	}
	return n.name
}

// Leaves returns the number of child nodes.
func (n *Node) Leaves() int { return len(n.leaves) }

// LeafAt returns the i-th child node.
func (n *Node) LeafAt(i int) *Node { return n.leaves[i] }

// Names returns the number of named children (record fields or enum
// symbols).
func (n *Node) Names() int { return len(n.names) }

// NameAt returns the i-th field name or enum symbol.
func (n *Node) NameAt(i int) string { return n.names[i] }

// IndexOf looks up a field name or enum symbol.
func (n *Node) IndexOf(name string) (int, bool) {
	i, ok := n.nameIndex[name]
	return i, ok
}

// FixedSize returns the byte size of a fixed node.
func (n *Node) FixedSize() int { return n.size }

// HasDefaultAt reports whether record field i declared a default.
func (n *Node) HasDefaultAt(i int) bool {
	return n.defaults != nil && n.defaults[i] != nil
}

// DefaultAt returns the Avro binary encoding of field i's default.
func (n *Node) DefaultAt(i int) []byte { return n.defaults[i] }

// Target dereferences a symbolic node. It fails with dangling_symbol
// when the referenced node's tree has been dropped.
func (n *Node) Target() (*Node, error) {
	t := n.target.Value()
	if t == nil {
		return nil, errors.DanglingSymbol(n.refName.Full())
	}
	return t, nil
}

// Deref resolves symbolic nodes to their targets; other nodes pass
// through unchanged.
func Deref(n *Node) (*Node, error) {
	for n.kind == TypeSymbolic {
		t, err := n.Target()
		if err != nil {
			return nil, err
		}
		n = t
	}
	return n, nil
}

// Equal reports structural equality via the canonical form.
func Equal(a, b *Node) bool {
	return Canonical(a) == Canonical(b)
}
