// Package binary provides the leaf primitives of the Avro binary
// encoding: zig-zag varints for int and long, little-endian IEEE-754
// for float and double, and raw byte movement, all expressed against
// the chunked stream contracts of the root package.
//
// The Reader and Writer here carry the chunk cursor state; the codec
// package layers the Avro value operations (strings, blocks, unions)
// on top, and the schema package uses a Writer to pre-encode field
// default values.
package binary
