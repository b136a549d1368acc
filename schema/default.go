package schema

import (
	"encoding/json"
	"math"
	"sort"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/internal/binary"
)

// compileDefault interprets a JSON default value against the field's
// type and returns its Avro binary encoding. The bytes are replayed by
// the resolving decoder when the writer omitted the field.
func compileDefault(n *Node, v any) ([]byte, error) {
	out := avro.NewMemoryOutput(64)
	w := binary.NewWriter(out)
	if err := encodeDefault(n, v, w); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return avro.Snapshot(out), nil
}

func encodeDefault(n *Node, v any, w *binary.Writer) error {
	n, err := Deref(n)
	if err != nil {
		return err
	}
	switch n.kind {
	case TypeNull:
		if v != nil {
			return defaultMismatch(n, v)
		}
		return nil

	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return defaultMismatch(n, v)
		}
		return w.WriteBool(b)

	case TypeInt:
		i, err := defaultInt(v)
		if err != nil {
			return err
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return errors.Range(errors.PhaseSchema, "default %d out of range for int", i)
		}
		return w.WriteLong(i)

	case TypeLong:
		i, err := defaultInt(v)
		if err != nil {
			return err
		}
		return w.WriteLong(i)

	case TypeFloat:
		f, err := defaultFloat(v)
		if err != nil {
			return err
		}
		return w.WriteFloat(float32(f))

	case TypeDouble:
		f, err := defaultFloat(v)
		if err != nil {
			return err
		}
		return w.WriteDouble(f)

	case TypeString:
		s, ok := v.(string)
		if !ok {
			return defaultMismatch(n, v)
		}
		if err := w.WriteLong(int64(len(s))); err != nil {
			return err
		}
		return w.WriteRaw([]byte(s))

	case TypeBytes, TypeFixed:
		s, ok := v.(string)
		if !ok {
			return defaultMismatch(n, v)
		}
		raw, err := codePointBytes(s)
		if err != nil {
			return err
		}
		if n.kind == TypeFixed {
			if len(raw) != n.size {
				return errors.InvalidData(errors.PhaseSchema, nil,
					"fixed default has %d bytes, want %d", len(raw), n.size)
			}
			return w.WriteRaw(raw)
		}
		if err := w.WriteLong(int64(len(raw))); err != nil {
			return err
		}
		return w.WriteRaw(raw)

	case TypeEnum:
		s, ok := v.(string)
		if !ok {
			return defaultMismatch(n, v)
		}
		ord, ok := n.nameIndex[s]
		if !ok {
			return errors.InvalidData(errors.PhaseSchema, nil, "default %q is not an enum symbol", s)
		}
		return w.WriteLong(int64(ord))

	case TypeArray:
		items, ok := v.([]any)
		if !ok {
			return defaultMismatch(n, v)
		}
		if len(items) > 0 {
			if err := w.WriteLong(int64(len(items))); err != nil {
				return err
			}
			for _, item := range items {
				if err := encodeDefault(n.leaves[0], item, w); err != nil {
					return err
				}
			}
		}
		return w.WriteLong(0)

	case TypeMap:
		entries, ok := v.(map[string]any)
		if !ok {
			return defaultMismatch(n, v)
		}
		if len(entries) > 0 {
			if err := w.WriteLong(int64(len(entries))); err != nil {
				return err
			}
			for _, key := range sortedKeys(entries) {
				if err := w.WriteLong(int64(len(key))); err != nil {
					return err
				}
				if err := w.WriteRaw([]byte(key)); err != nil {
					return err
				}
				if err := encodeDefault(n.leaves[0], entries[key], w); err != nil {
					return err
				}
			}
		}
		return w.WriteLong(0)

	case TypeRecord:
		fields, ok := v.(map[string]any)
		if !ok {
			return defaultMismatch(n, v)
		}
		for i, leaf := range n.leaves {
			fv, ok := fields[n.names[i]]
			if !ok {
				return errors.InvalidData(errors.PhaseSchema, []string{n.name.Full()},
					"record default missing value for field %q", n.names[i])
			}
			if err := encodeDefault(leaf, fv, w); err != nil {
				return err
			}
		}
		return nil

	case TypeUnion:
		// A union default always selects the first branch.
		if err := w.WriteLong(0); err != nil {
			return err
		}
		return encodeDefault(n.leaves[0], v, w)

	default:
		return errors.Unsupported(errors.PhaseSchema, "default for "+n.kind.String())
	}
}

func defaultMismatch(n *Node, v any) error {
	return errors.InvalidData(errors.PhaseSchema, nil,
		"default %v does not match type %s", v, n.kind)
}

func defaultInt(v any) (int64, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, errors.InvalidData(errors.PhaseSchema, nil, "default %v is not an integer", v)
	}
	i, err := num.Int64()
	if err != nil {
		return 0, errors.InvalidData(errors.PhaseSchema, nil, "default %v is not an integer", v)
	}
	return i, nil
}

func defaultFloat(v any) (float64, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, errors.InvalidData(errors.PhaseSchema, nil, "default %v is not a number", v)
	}
	return num.Float64()
}

// codePointBytes maps each code point of s to one byte, the Avro JSON
// convention for bytes and fixed defaults.
func codePointBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, errors.InvalidData(errors.PhaseSchema, nil,
				"code point %U too large for a byte", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
