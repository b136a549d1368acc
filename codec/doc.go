// Package codec implements the Avro leaf codecs and the grammar-driven
// encoders and decoders built on them.
//
// # Layers
//
// BinaryEncoder and BinaryDecoder move raw Avro binary: zig-zag
// varints, little-endian IEEE-754, length-prefixed strings and bytes,
// block-structured arrays and maps. They perform no schema checking.
//
// ValidatingEncoder and ValidatingDecoder wrap a base codec and drive
// the schema's grammar through a parser: every call is checked against
// the schema and a mismatch fails with grammar_violation before any
// bytes move.
//
// JSONEncoder and JSONDecoder speak the Avro JSON encoding. They are
// validating by construction: the JSON grammar adds record and union
// framing symbols that the codec turns into object braces, field names
// and union branch wrappers.
//
// NewResolvingDecoder reads bytes produced under a writer schema and
// presents them under a reader schema: fields are reordered and
// skipped, missing fields decode from pre-encoded defaults, numbers
// widen, and enum ordinals and union branches are remapped. Record
// fields must be read in FieldOrder order.
//
// # Usage
//
//	enc, err := codec.NewValidatingEncoder(s, codec.NewBinaryEncoder())
//	if err != nil { ... }
//	enc.Init(out)
//	// ... Encode* calls in schema order ...
//	enc.Flush()
//
// Codec instances are single-stream and not safe for concurrent use.
// After any non-IO failure the instance must be discarded.
package codec
