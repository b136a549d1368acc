package avro

// Decoder reads Avro values from an InputStream. Implementations are
// not safe for concurrent use; one decoder serves one stream at a time.
//
// Array and map decoding is block oriented: ArrayStart/MapStart return
// the first block's item count, the caller consumes that many items and
// then calls ArrayNext/MapNext for the following block, until a count
// of zero ends the container.
type Decoder interface {
	// Init binds the decoder to a stream and resets all decoding state.
	Init(in InputStream)

	DecodeNull() error
	DecodeBool() (bool, error)
	DecodeInt() (int32, error)
	DecodeLong() (int64, error)
	DecodeFloat() (float32, error)
	DecodeDouble() (float64, error)
	DecodeString() (string, error)
	SkipString() error
	DecodeBytes() ([]byte, error)
	SkipBytes() error
	DecodeFixed(n int) ([]byte, error)
	SkipFixed(n int) error
	DecodeEnum() (int64, error)

	ArrayStart() (int64, error)
	ArrayNext() (int64, error)
	// SkipArray returns the next block count when the stream carries no
	// byte-size hint; blocks with a hint are skipped wholesale and a
	// count of zero is returned.
	SkipArray() (int64, error)
	MapStart() (int64, error)
	MapNext() (int64, error)
	SkipMap() (int64, error)

	DecodeUnionIndex() (int64, error)
}

// ResolvingDecoder is a Decoder that reads data written under a writer
// schema and presents it under a reader schema. Record fields must be
// read in the order given by FieldOrder, which is expressed in reader
// field indices.
type ResolvingDecoder interface {
	Decoder
	FieldOrder() ([]int, error)
}

// Encoder writes Avro values to an OutputStream. Implementations are
// not safe for concurrent use.
//
// Arrays and maps are written as ArrayStart/MapStart, then one or more
// blocks of SetItemCount followed by that many StartItem+value
// sequences, then ArrayEnd/MapEnd.
type Encoder interface {
	// Init binds the encoder to a stream and resets all encoding state.
	Init(out OutputStream)
	// Flush pushes buffered bytes into the bound OutputStream and
	// flushes it.
	Flush() error

	EncodeNull() error
	EncodeBool(b bool) error
	EncodeInt(v int32) error
	EncodeLong(v int64) error
	EncodeFloat(v float32) error
	EncodeDouble(v float64) error
	EncodeString(s string) error
	EncodeBytes(b []byte) error
	EncodeFixed(b []byte) error
	EncodeEnum(ordinal int64) error

	ArrayStart() error
	ArrayEnd() error
	MapStart() error
	MapEnd() error
	SetItemCount(n int64) error
	StartItem() error

	EncodeUnionIndex(branch int64) error
}
