package grammar

import (
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/schema"
)

// nodePair keys resolving productions by writer/reader node identity.
type nodePair struct {
	w, r *schema.Node
}

// GenerateResolving compiles the resolving grammar for a writer/reader
// schema pair, plus the writer-only backup grammar used to skip writer
// fields with no reader counterpart.
func GenerateResolving(writer, reader *schema.Node) (Grammar, error) {
	m2 := make(map[*schema.Node]*Production)
	backup, err := doGenerate(writer, m2)
	if err != nil {
		return Grammar{}, err
	}
	fixup(backup, func(key any) *Production { return m2[key.(*schema.Node)] }, make(map[*Production]bool))

	m := make(map[nodePair]*Production)
	main, err := doGenerate2(writer, reader, m, m2)
	if err != nil {
		return Grammar{}, err
	}
	fixup(main, func(key any) *Production { return m[key.(nodePair)] }, make(map[*Production]bool))
	return Grammar{Main: main, Backup: backup}, nil
}

func doGenerate2(w, r *schema.Node, m map[nodePair]*Production, m2 map[*schema.Node]*Production) (*Production, error) {
	writer, err := schema.Deref(w)
	if err != nil {
		return nil, err
	}
	reader, err := schema.Deref(r)
	if err != nil {
		return nil, err
	}
	writerType := writer.Kind()
	readerType := reader.Kind()

	if writerType == readerType {
		switch writerType {
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
			if writer.Name() == reader.Name() && writer.FixedSize() == reader.FixedSize() {
				result := &Production{sizeCheck(reader.FixedSize()), terminal(KindFixed)}
				m[nodePair{writer, reader}] = result
				return result, nil
			}

		case schema.TypeRecord:
			if writer.Name() == reader.Name() {
				key := nodePair{writer, reader}
				if p, ok := m[key]; ok {
					if p != nil {
						return p, nil
					}
					return single(placeholder(key)), nil
				}
				m[key] = nil
				result, err := resolveRecords(writer, reader, m, m2)
				if err != nil {
					return nil, err
				}
				m[key] = result
				return result, nil
			}

		case schema.TypeEnum:
			if writer.Name() == reader.Name() {
				table := make([]int, writer.Names())
				for i := range table {
					if j, ok := reader.IndexOf(writer.NameAt(i)); ok {
						table[i] = j
					} else {
						table[i] = -1
					}
				}
				result := &Production{enumAdjust(table), terminal(KindEnum)}
				m[nodePair{writer, reader}] = result
				return result, nil
			}

		case schema.TypeArray:
			p, err := getWriterProduction(writer.LeafAt(0), m2)
			if err != nil {
				return nil, err
			}
			p2, err := doGenerate2(writer.LeafAt(0), reader.LeafAt(0), m, m2)
			if err != nil {
				return nil, err
			}
			return &Production{
				terminal(KindArrayEnd),
				repeater(p2, p, true),
				terminal(KindArrayStart),
			}, nil

		case schema.TypeMap:
			pp, err := doGenerate2(writer.LeafAt(0), reader.LeafAt(0), m, m2)
			if err != nil {
				return nil, err
			}
			v := append(Production{}, *pp...)
			v = append(v, terminal(KindString))

			pp2, err := getWriterProduction(writer.LeafAt(0), m2)
			if err != nil {
				return nil, err
			}
			v2 := append(Production{}, *pp2...)
			v2 = append(v2, terminal(KindString))

			return &Production{
				terminal(KindMapEnd),
				repeater(&v, &v2, false),
				terminal(KindMapStart),
			}, nil

		case schema.TypeUnion:
			return resolveUnion(writer, reader, m, m2)
		}
	} else if writerType == schema.TypeUnion {
		return resolveUnion(writer, reader, m, m2)
	} else {
		switch readerType {
		case schema.TypeLong:
			if writerType == schema.TypeInt {
				return single(resolve(KindInt, KindLong)), nil
			}
		case schema.TypeFloat:
			switch writerType {
			case schema.TypeInt:
				return single(resolve(KindInt, KindFloat)), nil
			case schema.TypeLong:
				return single(resolve(KindLong, KindFloat)), nil
			}
		case schema.TypeDouble:
			switch writerType {
			case schema.TypeInt:
				return single(resolve(KindInt, KindDouble)), nil
			case schema.TypeLong:
				return single(resolve(KindLong, KindDouble)), nil
			case schema.TypeFloat:
				return single(resolve(KindFloat, KindDouble)), nil
			}
		case schema.TypeUnion:
			j, err := bestBranch(writer, reader)
			if err != nil {
				return nil, err
			}
			if j >= 0 {
				p, err := doGenerate2(writer, reader.LeafAt(j), m, m2)
				if err != nil {
					return nil, err
				}
				return &Production{unionAdjust(j, p), terminal(KindUnion)}, nil
			}
		}
	}
	return single(errorAction(writer.Kind().String() + " vs " + reader.Kind().String())), nil
}

// bestBranch picks the reader union branch for a non-union writer:
// first an exact type match (named types must also match names), then
// the first branch the writer type promotes to.
func bestBranch(writer, reader *schema.Node) (int, error) {
	t := writer.Kind()
	for j := 0; j < reader.Leaves(); j++ {
		r, err := schema.Deref(reader.LeafAt(j))
		if err != nil {
			return -1, err
		}
		if t == r.Kind() {
			if r.HasName() {
				if r.Name() == writer.Name() {
					return j, nil
				}
			} else {
				return j, nil
			}
		}
	}
	for j := 0; j < reader.Leaves(); j++ {
		r, err := schema.Deref(reader.LeafAt(j))
		if err != nil {
			return -1, err
		}
		switch t {
		case schema.TypeInt:
			switch r.Kind() {
			case schema.TypeLong, schema.TypeFloat, schema.TypeDouble:
				return j, nil
			}
		case schema.TypeLong, schema.TypeFloat:
			if r.Kind() == schema.TypeDouble {
				return j, nil
			}
		}
	}
	return -1, nil
}

// resolveUnion handles a union on the writer side: the parser consumes
// the branch tag, then dispatches to the matching sub-production.
func resolveUnion(writer, reader *schema.Node, m map[nodePair]*Production, m2 map[*schema.Node]*Production) (*Production, error) {
	alts := make([]*Production, 0, writer.Leaves())
	for i := 0; i < writer.Leaves(); i++ {
		p, err := doGenerate2(writer.LeafAt(i), reader, m, m2)
		if err != nil {
			return nil, err
		}
		alts = append(alts, p)
	}
	return &Production{alternative(alts), writerUnion()}, nil
}

func resolveRecords(writer, reader *schema.Node, m map[nodePair]*Production, m2 map[*schema.Node]*Production) (*Production, error) {
	result := &Production{}
	fieldOrder := make([]int, 0, reader.Names())

	// Reader fields not yet claimed by a writer field, in order.
	pending := make([]int, 0, reader.Names())
	for j := 0; j < reader.Names(); j++ {
		pending = append(pending, j)
	}

	// Each writer field either resolves against the same-named reader
	// field or is skipped over the writer-only production.
	for i := 0; i < writer.Names(); i++ {
		j := -1
		for pi, rj := range pending {
			if reader.NameAt(rj) == writer.NameAt(i) {
				j = rj
				pending = append(pending[:pi], pending[pi+1:]...)
				break
			}
		}
		if j >= 0 {
			p, err := doGenerate2(writer.LeafAt(i), reader.LeafAt(j), m, m2)
			if err != nil {
				return nil, err
			}
			appendReversed(result, p)
			fieldOrder = append(fieldOrder, j)
		} else {
			p, err := getWriterProduction(writer.LeafAt(i), m2)
			if err != nil {
				return nil, err
			}
			*result = append(*result, skipStart())
			if len(*p) == 1 {
				*result = append(*result, (*p)[0])
			} else {
				*result = append(*result, indirect(p))
			}
		}
	}

	// Remaining reader fields decode from their pre-encoded defaults.
	for _, j := range pending {
		s, err := schema.Deref(reader.LeafAt(j))
		if err != nil {
			return nil, err
		}
		if !reader.HasDefaultAt(j) {
			return nil, errors.New(errors.PhaseResolve, errors.KindIncompatibleSchema).
				Writer(writer.Name().Full()).
				Reader(reader.Name().Full()).
				Detail("reader field %q has no writer counterpart and no default", reader.NameAt(j)).
				Build()
		}
		fieldOrder = append(fieldOrder, j)

		*result = append(*result, defaultStart(reader.DefaultAt(j)))
		p, ok := m[nodePair{s, s}]
		if !ok || p == nil {
			p, err = doGenerate2(s, s, m, m2)
			if err != nil {
				return nil, err
			}
		}
		appendReversed(result, p)
		*result = append(*result, defaultEnd())
	}

	reverse(*result)
	*result = append(*result, sizeList(fieldOrder), recordAction())
	return result, nil
}

func getWriterProduction(n *schema.Node, m2 map[*schema.Node]*Production) (*Production, error) {
	nn, err := schema.Deref(n)
	if err != nil {
		return nil, err
	}
	if p, ok := m2[nn]; ok && p != nil {
		return p, nil
	}
	result, err := doGenerate(nn, m2)
	if err != nil {
		return nil, err
	}
	fixup(result, func(key any) *Production { return m2[key.(*schema.Node)] }, make(map[*Production]bool))
	return result, nil
}
