package generic

import (
	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/schema"
)

// Write encodes a datum through enc. The encoder's schema must match
// the datum's.
func Write(enc avro.Encoder, d *Datum) error {
	switch d.kind {
	case schema.TypeNull:
		return enc.EncodeNull()
	case schema.TypeBoolean:
		return enc.EncodeBool(d.Bool())
	case schema.TypeInt:
		return enc.EncodeInt(d.Int())
	case schema.TypeLong:
		return enc.EncodeLong(d.Long())
	case schema.TypeFloat:
		return enc.EncodeFloat(d.Float())
	case schema.TypeDouble:
		return enc.EncodeDouble(d.Double())
	case schema.TypeString:
		return enc.EncodeString(d.Str())
	case schema.TypeBytes:
		return enc.EncodeBytes(d.Bytes())
	case schema.TypeFixed:
		return enc.EncodeFixed(d.Bytes())
	case schema.TypeEnum:
		return enc.EncodeEnum(d.Enum())

	case schema.TypeArray:
		a := d.Array()
		if err := enc.ArrayStart(); err != nil {
			return err
		}
		if a.Len() > 0 {
			if err := enc.SetItemCount(int64(a.Len())); err != nil {
				return err
			}
			for i := 0; i < a.Len(); i++ {
				if err := enc.StartItem(); err != nil {
					return err
				}
				if err := Write(enc, a.At(i)); err != nil {
					return err
				}
			}
		}
		return enc.ArrayEnd()

	case schema.TypeMap:
		m := d.Map()
		if err := enc.MapStart(); err != nil {
			return err
		}
		if m.Len() > 0 {
			if err := enc.SetItemCount(int64(m.Len())); err != nil {
				return err
			}
			for _, key := range m.Keys() {
				if err := enc.StartItem(); err != nil {
					return err
				}
				if err := enc.EncodeString(key); err != nil {
					return err
				}
				if err := Write(enc, m.Get(key)); err != nil {
					return err
				}
			}
		}
		return enc.MapEnd()

	case schema.TypeRecord:
		r := d.Record()
		for i := 0; i < r.Fields(); i++ {
			if err := Write(enc, r.FieldAt(i)); err != nil {
				return err
			}
		}
		return nil

	case schema.TypeUnion:
		u := d.Union()
		if err := enc.EncodeUnionIndex(int64(u.Branch())); err != nil {
			return err
		}
		return Write(enc, u.Value())
	}
	return nil
}
