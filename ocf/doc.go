// Package ocf reads and writes Avro object container files.
//
// A container file is a header followed by data blocks:
//
//	magic "Obj\x01"
//	metadata map {string: bytes}   avro.schema, avro.codec, ...
//	16-byte sync marker
//	blocks: (long count, long byteSize, data, sync)
//
// Block data is compressed with the codec named in the metadata:
// null, deflate, snappy (with a CRC32 suffix) or zstandard.
//
// # Writing
//
//	w, err := ocf.NewWriter(f, schemaNode, ocf.WithCodec(ocf.CodecSnappy))
//	for _, d := range datums {
//	    if err := w.Append(d); err != nil { ... }
//	}
//	if err := w.Close(); err != nil { ... }
//
// Blocks are cut when the encoded size passes the sync interval, so a
// crashed writer loses at most one block. Each block ends with the sync
// marker, which the reader checks; a mismatch is an invalid_data error
// and the reader does not resync.
//
// # Reading
//
//	r, err := ocf.NewReader(f)
//	for {
//	    d, err := r.Next()
//	    if err == io.EOF { break }
//	    ...
//	}
//
// WithReaderSchema resolves the file's writer schema against a reader
// schema; returned datums then follow the reader schema, with fields
// reordered, defaults injected and numbers widened as needed.
//
// Package logging uses zap and defaults to a no-op logger; install one
// with SetLogger to observe block framing decisions.
package ocf
