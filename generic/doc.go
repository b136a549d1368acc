// Package generic provides a dynamically typed datum model for Avro
// values, plus a schema-directed reader and writer bridging datums to
// any Decoder or Encoder.
//
// A Datum's type tag is fixed at construction from its schema node;
// only the held value can change. Compound datums hold child datums:
// records one per field, arrays and maps a growing collection, unions
// the currently selected branch.
//
//	d, _ := generic.NewDatum(node)
//	d.Record().FieldByName("x").SetLong(3)
//
// Read and Write walk the schema shape. When the decoder resolves a
// writer schema against a reader schema, Read honors the decoder's
// FieldOrder so record fields land in reader positions regardless of
// writer layout.
//
// Accessors panic when asked for a value of the wrong kind, in the
// manner of reflect.Value; the type tag is checkable with Kind first.
package generic
