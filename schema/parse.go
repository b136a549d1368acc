package schema

import (
	"bytes"
	"encoding/json"

	"github.com/avroforge/avro/errors"
)

// Parse compiles Avro schema JSON into a node tree.
func Parse(src string) (*Node, error) {
	return ParseBytes([]byte(src))
}

// ParseBytes compiles Avro schema JSON into a node tree.
func ParseBytes(src []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	var e any
	if err := dec.Decode(&e); err != nil {
		return nil, errors.New(errors.PhaseSchema, errors.KindInvalidData).
			Cause(err).
			Detail("schema is not valid JSON").
			Build()
	}
	st := make(map[string]*Node)
	return makeNode(e, st, "")
}

func makeNode(e any, st map[string]*Node, ns string) (*Node, error) {
	switch v := e.(type) {
	case string:
		return makeNamedOrPrimitive(v, st, ns)
	case []any:
		return makeUnion(v, st, ns)
	case map[string]any:
		return makeComplex(v, st, ns)
	default:
		return nil, errors.InvalidData(errors.PhaseSchema, nil, "invalid schema element %v", e)
	}
}

func makeNamedOrPrimitive(t string, st map[string]*Node, ns string) (*Node, error) {
	if p, ok := primitivesByName[t]; ok {
		return NewPrimitive(p), nil
	}
	name, err := ParseName(t, ns)
	if err != nil {
		return nil, err
	}
	if target, ok := st[name.Full()]; ok {
		return NewSymbolic(name, target), nil
	}
	return nil, errors.UnknownType(name.Full())
}

func makeUnion(v []any, st map[string]*Node, ns string) (*Node, error) {
	branches := make([]*Node, 0, len(v))
	for _, b := range v {
		n, err := makeNode(b, st, ns)
		if err != nil {
			return nil, err
		}
		branches = append(branches, n)
	}
	return NewUnion(branches)
}

func makeComplex(m map[string]any, st map[string]*Node, ns string) (*Node, error) {
	t, err := stringField(m, "type")
	if err != nil {
		return nil, err
	}
	if p, ok := primitivesByName[t]; ok {
		return NewPrimitive(p), nil
	}

	switch t {
	case "array":
		items, ok := m["items"]
		if !ok {
			return nil, errors.InvalidData(errors.PhaseSchema, nil, "array schema without items")
		}
		n, err := makeNode(items, st, ns)
		if err != nil {
			return nil, err
		}
		return NewArray(n), nil

	case "map":
		values, ok := m["values"]
		if !ok {
			return nil, errors.InvalidData(errors.PhaseSchema, nil, "map schema without values")
		}
		n, err := makeNode(values, st, ns)
		if err != nil {
			return nil, err
		}
		return NewMap(n), nil

	case "record", "error":
		return makeRecord(m, st, ns)

	case "enum":
		name, err := declaredName(m, ns)
		if err != nil {
			return nil, err
		}
		raw, ok := m["symbols"].([]any)
		if !ok {
			return nil, errors.InvalidData(errors.PhaseSchema, []string{name.Full()}, "enum schema without symbols")
		}
		symbols := make([]string, 0, len(raw))
		for _, s := range raw {
			sym, ok := s.(string)
			if !ok {
				return nil, errors.InvalidData(errors.PhaseSchema, []string{name.Full()}, "enum symbol is not a string")
			}
			symbols = append(symbols, sym)
		}
		n, err := NewEnum(name, symbols)
		if err != nil {
			return nil, err
		}
		st[name.Full()] = n
		return n, nil

	case "fixed":
		name, err := declaredName(m, ns)
		if err != nil {
			return nil, err
		}
		num, ok := m["size"].(json.Number)
		if !ok {
			return nil, errors.InvalidData(errors.PhaseSchema, []string{name.Full()}, "fixed schema without size")
		}
		size, err := num.Int64()
		if err != nil {
			return nil, errors.InvalidData(errors.PhaseSchema, []string{name.Full()}, "fixed size is not an integer")
		}
		n, err := NewFixed(name, int(size))
		if err != nil {
			return nil, err
		}
		st[name.Full()] = n
		return n, nil

	default:
		return makeNamedOrPrimitive(t, st, ns)
	}
}

func makeRecord(m map[string]any, st map[string]*Node, ns string) (*Node, error) {
	name, err := declaredName(m, ns)
	if err != nil {
		return nil, err
	}

	// Register before the fields are parsed so self references resolve
	// through a symbolic node; the shell is filled in below.
	n := &Node{kind: TypeRecord, name: name, hasName: true}
	st[name.Full()] = n

	raw, ok := m["fields"].([]any)
	if !ok {
		return nil, errors.InvalidData(errors.PhaseSchema, []string{name.Full()}, "record schema without fields")
	}
	fields := make([]Field, 0, len(raw))
	for _, rf := range raw {
		fm, ok := rf.(map[string]any)
		if !ok {
			return nil, errors.InvalidData(errors.PhaseSchema, []string{name.Full()}, "record field is not an object")
		}
		fname, err := stringField(fm, "name")
		if err != nil {
			return nil, err
		}
		ft, ok := fm["type"]
		if !ok {
			return nil, errors.InvalidData(errors.PhaseSchema, []string{name.Full(), fname}, "field without type")
		}
		fnode, err := makeNode(ft, st, name.Namespace)
		if err != nil {
			return nil, err
		}
		f := Field{Name: fname, Schema: fnode}
		if dv, has := fm["default"]; has {
			bin, err := compileDefault(fnode, dv)
			if err != nil {
				return nil, errors.New(errors.PhaseSchema, errors.KindInvalidData).
					Path(name.Full(), fname).
					Cause(err).
					Detail("invalid default value").
					Build()
			}
			f.Default = bin
			f.HasDefault = true
		}
		fields = append(fields, f)
	}

	filled, err := NewRecord(name, fields)
	if err != nil {
		return nil, err
	}
	// Move the built shape into the registered shell so symbolic nodes
	// created during field parsing see the complete record.
	n.leaves = filled.leaves
	n.names = filled.names
	n.nameIndex = filled.nameIndex
	n.defaults = filled.defaults
	return n, nil
}

func declaredName(m map[string]any, enclosing string) (Name, error) {
	name, err := stringField(m, "name")
	if err != nil {
		return Name{}, err
	}
	if raw, ok := m["namespace"]; ok {
		ns, ok := raw.(string)
		if !ok {
			return Name{}, errors.InvalidData(errors.PhaseSchema, []string{name}, "namespace is not a string")
		}
		return ParseName(name, ns)
	}
	return ParseName(name, enclosing)
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", errors.InvalidData(errors.PhaseSchema, nil, "missing %q attribute", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", errors.InvalidData(errors.PhaseSchema, nil, "%q attribute is not a string", key)
	}
	return s, nil
}
