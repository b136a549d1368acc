package generic

import (
	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/schema"
)

// Read decodes one datum of schema s from dec. When dec resolves a
// writer schema against a reader schema, s must be the reader schema
// and record fields are read in the decoder's field order.
func Read(dec avro.Decoder, s *schema.Node) (*Datum, error) {
	d, err := NewDatum(s)
	if err != nil {
		return nil, err
	}
	if err := ReadInto(dec, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadInto decodes into an existing datum.
func ReadInto(dec avro.Decoder, d *Datum) error {
	resolving, _ := dec.(avro.ResolvingDecoder)
	return read(dec, resolving, d)
}

func read(dec avro.Decoder, resolving avro.ResolvingDecoder, d *Datum) error {
	switch d.kind {
	case schema.TypeNull:
		return dec.DecodeNull()

	case schema.TypeBoolean:
		v, err := dec.DecodeBool()
		if err != nil {
			return err
		}
		d.SetBool(v)

	case schema.TypeInt:
		v, err := dec.DecodeInt()
		if err != nil {
			return err
		}
		d.SetInt(v)

	case schema.TypeLong:
		v, err := dec.DecodeLong()
		if err != nil {
			return err
		}
		d.SetLong(v)

	case schema.TypeFloat:
		v, err := dec.DecodeFloat()
		if err != nil {
			return err
		}
		d.SetFloat(v)

	case schema.TypeDouble:
		v, err := dec.DecodeDouble()
		if err != nil {
			return err
		}
		d.SetDouble(v)

	case schema.TypeString:
		v, err := dec.DecodeString()
		if err != nil {
			return err
		}
		d.SetStr(v)

	case schema.TypeBytes:
		v, err := dec.DecodeBytes()
		if err != nil {
			return err
		}
		d.SetBytes(v)

	case schema.TypeFixed:
		v, err := dec.DecodeFixed(d.node.FixedSize())
		if err != nil {
			return err
		}
		d.SetBytes(v)

	case schema.TypeEnum:
		v, err := dec.DecodeEnum()
		if err != nil {
			return err
		}
		d.SetEnum(v)

	case schema.TypeArray:
		a := d.Array()
		n, err := dec.ArrayStart()
		for {
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			for i := int64(0); i < n; i++ {
				item, err := a.Append()
				if err != nil {
					return err
				}
				if err := read(dec, resolving, item); err != nil {
					return err
				}
			}
			n, err = dec.ArrayNext()
		}

	case schema.TypeMap:
		m := d.Map()
		n, err := dec.MapStart()
		for {
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			for i := int64(0); i < n; i++ {
				key, err := dec.DecodeString()
				if err != nil {
					return err
				}
				v, err := m.Put(key)
				if err != nil {
					return err
				}
				if err := read(dec, resolving, v); err != nil {
					return err
				}
			}
			n, err = dec.MapNext()
		}

	case schema.TypeRecord:
		r := d.Record()
		if resolving != nil {
			order, err := resolving.FieldOrder()
			if err != nil {
				return err
			}
			for _, i := range order {
				if err := read(dec, resolving, r.fields[i]); err != nil {
					return err
				}
			}
		} else {
			for _, f := range r.fields {
				if err := read(dec, resolving, f); err != nil {
					return err
				}
			}
		}

	case schema.TypeUnion:
		u := d.Union()
		branch, err := dec.DecodeUnionIndex()
		if err != nil {
			return err
		}
		if err := u.Select(int(branch)); err != nil {
			return err
		}
		return read(dec, resolving, u.datum)
	}
	return nil
}
