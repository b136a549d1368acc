package schema

import (
	"strconv"
	"strings"
)

// Canonical renders the node as Avro canonical schema JSON: full names
// everywhere, normalized attribute order, repeated named types emitted
// as references, no defaults or custom attributes.
func Canonical(n *Node) string {
	var b strings.Builder
	writeCanonical(&b, n, make(map[string]bool))
	return b.String()
}

// String returns the canonical form.
func (n *Node) String() string { return Canonical(n) }

func writeCanonical(b *strings.Builder, n *Node, seen map[string]bool) {
	switch n.kind {
	case TypeSymbolic:
		b.WriteString(strconv.Quote(n.refName.Full()))

	case TypeFixed, TypeEnum, TypeRecord:
		full := n.name.Full()
		if seen[full] {
			b.WriteString(strconv.Quote(full))
			return
		}
		seen[full] = true
		b.WriteString(`{"name":`)
		b.WriteString(strconv.Quote(full))
		b.WriteString(`,"type":`)
		b.WriteString(strconv.Quote(n.kind.String()))
		switch n.kind {
		case TypeFixed:
			b.WriteString(`,"size":`)
			b.WriteString(strconv.Itoa(n.size))
		case TypeEnum:
			b.WriteString(`,"symbols":[`)
			for i, s := range n.names {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.Quote(s))
			}
			b.WriteByte(']')
		case TypeRecord:
			b.WriteString(`,"fields":[`)
			for i, leaf := range n.leaves {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(`{"name":`)
				b.WriteString(strconv.Quote(n.names[i]))
				b.WriteString(`,"type":`)
				writeCanonical(b, leaf, seen)
				b.WriteByte('}')
			}
			b.WriteByte(']')
		}
		b.WriteByte('}')

	case TypeArray:
		b.WriteString(`{"type":"array","items":`)
		writeCanonical(b, n.leaves[0], seen)
		b.WriteByte('}')

	case TypeMap:
		b.WriteString(`{"type":"map","values":`)
		writeCanonical(b, n.leaves[0], seen)
		b.WriteByte('}')

	case TypeUnion:
		b.WriteByte('[')
		for i, leaf := range n.leaves {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, leaf, seen)
		}
		b.WriteByte(']')

	default:
		b.WriteString(strconv.Quote(n.kind.String()))
	}
}
