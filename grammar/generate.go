package grammar

import (
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/schema"
)

// Generate compiles the validating grammar of a schema. The grammar
// accepts exactly the call sequences that are well formed under n.
func Generate(n *schema.Node) (Grammar, error) {
	m := make(map[*schema.Node]*Production)
	p, err := doGenerate(n, m)
	if err != nil {
		return Grammar{}, err
	}
	fixup(p, func(key any) *Production { return m[key.(*schema.Node)] }, make(map[*Production]bool))
	return Grammar{Main: p}, nil
}

// JSONGenerate compiles the validating grammar with the structural
// symbols the JSON codec needs: record start/end markers and field
// names.
func JSONGenerate(n *schema.Node) (Grammar, error) {
	m := make(map[*schema.Node]*Production)
	p, err := doGenerateJSON(n, m)
	if err != nil {
		return Grammar{}, err
	}
	fixup(p, func(key any) *Production { return m[key.(*schema.Node)] }, make(map[*Production]bool))
	return Grammar{Main: p}, nil
}

func doGenerate(n *schema.Node, m map[*schema.Node]*Production) (*Production, error) {
	switch n.Kind() {
	case schema.TypeNull:
		return single(terminal(KindNull)), nil
	case schema.TypeBoolean:
		return single(terminal(KindBool)), nil
	case schema.TypeInt:
		return single(terminal(KindInt)), nil
	case schema.TypeLong:
		return single(terminal(KindLong)), nil
	case schema.TypeFloat:
		return single(terminal(KindFloat)), nil
	case schema.TypeDouble:
		return single(terminal(KindDouble)), nil
	case schema.TypeString:
		return single(terminal(KindString)), nil
	case schema.TypeBytes:
		return single(terminal(KindBytes)), nil

	case schema.TypeFixed:
		result := &Production{sizeCheck(n.FixedSize()), terminal(KindFixed)}
		m[n] = result
		return result, nil

	case schema.TypeEnum:
		result := &Production{sizeCheck(n.Names()), terminal(KindEnum)}
		m[n] = result
		return result, nil

	case schema.TypeRecord:
		result := &Production{}
		delete(m, n)
		for i := 0; i < n.Leaves(); i++ {
			v, err := doGenerate(n.LeafAt(i), m)
			if err != nil {
				return nil, err
			}
			appendReversed(result, v)
		}
		reverse(*result)
		m[n] = result
		return result, nil

	case schema.TypeArray:
		items, err := doGenerate(n.LeafAt(0), m)
		if err != nil {
			return nil, err
		}
		return &Production{
			terminal(KindArrayEnd),
			repeater(items, items, true),
			terminal(KindArrayStart),
		}, nil

	case schema.TypeMap:
		values, err := doGenerate(n.LeafAt(0), m)
		if err != nil {
			return nil, err
		}
		// The key precedes each value; stored order is reversed, so
		// the trailing string symbol executes first.
		kv := append(Production{}, *values...)
		kv = append(kv, terminal(KindString))
		return &Production{
			terminal(KindMapEnd),
			repeater(&kv, &kv, false),
			terminal(KindMapStart),
		}, nil

	case schema.TypeUnion:
		alts := make([]*Production, 0, n.Leaves())
		for i := 0; i < n.Leaves(); i++ {
			v, err := doGenerate(n.LeafAt(i), m)
			if err != nil {
				return nil, err
			}
			alts = append(alts, v)
		}
		return &Production{alternative(alts), terminal(KindUnion)}, nil

	case schema.TypeSymbolic:
		target, err := n.Target()
		if err != nil {
			return nil, err
		}
		if p, ok := m[target]; ok && p != nil {
			return p, nil
		}
		m[target] = nil
		return single(placeholder(target)), nil

	default:
		return nil, errors.Unsupported(errors.PhaseSchema, "unknown node type "+n.Kind().String())
	}
}

// doGenerateJSON is doGenerate with the framing the JSON encoding
// needs: record markers, field names, union wrappers and enum labels.
// All other shapes delegate.
func doGenerateJSON(n *schema.Node, m map[*schema.Node]*Production) (*Production, error) {
	switch n.Kind() {
	case schema.TypeEnum:
		symbols := make([]string, n.Names())
		for i := range symbols {
			symbols[i] = n.NameAt(i)
		}
		result := &Production{enumLabels(symbols), terminal(KindEnum)}
		m[n] = result
		return result, nil

	case schema.TypeRecord:
		result := &Production{}
		delete(m, n)
		*result = append(*result, recordStart())
		for i := 0; i < n.Leaves(); i++ {
			v, err := doGenerateJSON(n.LeafAt(i), m)
			if err != nil {
				return nil, err
			}
			*result = append(*result, field(n.NameAt(i)))
			appendReversed(result, v)
		}
		*result = append(*result, recordEnd())
		reverse(*result)
		m[n] = result
		return result, nil

	case schema.TypeArray:
		items, err := doGenerateJSON(n.LeafAt(0), m)
		if err != nil {
			return nil, err
		}
		return &Production{
			terminal(KindArrayEnd),
			repeater(items, items, true),
			terminal(KindArrayStart),
		}, nil

	case schema.TypeMap:
		values, err := doGenerateJSON(n.LeafAt(0), m)
		if err != nil {
			return nil, err
		}
		kv := append(Production{}, *values...)
		kv = append(kv, terminal(KindString))
		return &Production{
			terminal(KindMapEnd),
			repeater(&kv, &kv, false),
			terminal(KindMapStart),
		}, nil

	case schema.TypeUnion:
		// Branch productions gain a trailing union_end marker so the
		// codec can close the {"<branch>": ...} wrapper; the
		// alternative carries branch names for the wrapper key.
		alts := make([]*Production, 0, n.Leaves())
		names := make([]string, 0, n.Leaves())
		for i := 0; i < n.Leaves(); i++ {
			v, err := doGenerateJSON(n.LeafAt(i), m)
			if err != nil {
				return nil, err
			}
			wrapped := append(Production{unionEnd()}, *v...)
			alts = append(alts, &wrapped)
			names = append(names, branchName(n.LeafAt(i)))
		}
		return &Production{namedAlternative(alts, names), terminal(KindUnion)}, nil

	default:
		return doGenerate(n, m)
	}
}

// branchName is the key a union branch carries in the Avro JSON
// encoding: the full name for named types, the type name otherwise.
func branchName(n *schema.Node) string {
	if n.HasName() {
		return n.Name().Full()
	}
	return n.Kind().String()
}

// appendReversed appends p's symbols in execution order, for builders
// that assemble a production in execution order before reversing.
func appendReversed(dst *Production, p *Production) {
	for i := len(*p) - 1; i >= 0; i-- {
		*dst = append(*dst, (*p)[i])
	}
}

func reverse(p Production) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
