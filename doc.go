// Package avro implements the Apache Avro data serialization format.
//
// The library is schema driven: every encoder and decoder is compiled
// from an Avro schema into a grammar of symbols, and a pushdown parser
// checks each call against that grammar while the leaf codec moves the
// actual bytes. Schema resolution (reading data written under one schema
// as another) compiles a second grammar that aligns the two schemas.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	avro/             Root package with InputStream/OutputStream and the
//	                  Decoder/Encoder contracts
//	├── schema/       Schema node tree, JSON schema compiler, canonical
//	                  form, schema resolution rules
//	├── grammar/      Symbols, productions, grammar generators and the
//	                  pushdown parser that drives codecs
//	├── codec/        Binary and JSON codecs; validating and resolving
//	                  encoders/decoders
//	├── generic/      Dynamically typed datum model with schema-directed
//	                  reader and writer
//	├── ocf/          Object container file reader/writer with deflate,
//	                  snappy and zstd block codecs
//	└── errors/       Structured error types for debugging
//
// # Quick Start
//
// Compile a schema and round-trip a value:
//
//	s, err := schema.Parse(`{"type":"record","name":"Point",
//	    "fields":[{"name":"x","type":"long"},{"name":"y","type":"long"}]}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out := avro.NewMemoryOutput(0)
//	enc, err := codec.NewValidatingEncoder(s, codec.NewBinaryEncoder())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enc.Init(out)
//	enc.EncodeLong(3)
//	enc.EncodeLong(4)
//	enc.Flush()
//
//	in := avro.NewMemoryInput(avro.Snapshot(out), 0)
//	dec, err := codec.NewValidatingDecoder(s, codec.NewBinaryDecoder())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dec.Init(in)
//	x, _ := dec.DecodeLong()
//	y, _ := dec.DecodeLong()
//
// # Schema Resolution
//
// A resolving decoder reads bytes produced under a writer schema and
// presents them under a reader schema, handling field reordering, field
// skipping, default injection and numeric promotion:
//
//	rd, err := codec.NewResolvingDecoder(writer, reader, codec.NewBinaryDecoder())
//
// Callers of a resolving decoder read record fields in the order given
// by FieldOrder, which is expressed in reader field indices.
//
// # Grammar Checking
//
// Every Encode/Decode call is validated against the schema grammar. A
// call sequence that does not match the schema fails with a
// grammar_violation error, and the codec instance must not be used
// afterwards. Codec instances are not safe for concurrent use; schemas
// and compiled grammars are immutable and freely shareable.
//
// # Container Files
//
// The ocf package reads and writes Avro object container files with
// pluggable block compression. See the ocf package documentation.
package avro
