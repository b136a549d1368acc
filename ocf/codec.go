package ocf

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/avroforge/avro/errors"
)

// CodecName identifies a block compression codec.
type CodecName string

const (
	CodecNull      CodecName = "null"
	CodecDeflate   CodecName = "deflate"
	CodecSnappy    CodecName = "snappy"
	CodecZstandard CodecName = "zstandard"
)

// Codec compresses and decompresses block data.
type Codec interface {
	Name() CodecName
	Compress(block []byte) ([]byte, error)
	Decompress(block []byte) ([]byte, error)
}

func codecByName(name CodecName) (Codec, error) {
	switch name {
	case CodecNull, "":
		return nullCodec{}, nil
	case CodecDeflate:
		return deflateCodec{}, nil
	case CodecSnappy:
		return snappyCodec{}, nil
	case CodecZstandard:
		return newZstdCodec()
	default:
		return nil, errors.Unsupported(errors.PhaseContainer, "codec "+string(name))
	}
}

type nullCodec struct{}

func (nullCodec) Name() CodecName { return CodecNull }

func (nullCodec) Compress(block []byte) ([]byte, error) { return block, nil }

func (nullCodec) Decompress(block []byte) ([]byte, error) { return block, nil }

type deflateCodec struct{}

func (deflateCodec) Name() CodecName { return CodecDeflate }

func (deflateCodec) Compress(block []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "deflate init")
	}
	if _, err := fw.Write(block); err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "deflate")
	}
	if err := fw.Close(); err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "deflate close")
	}
	return buf.Bytes(), nil
}

func (deflateCodec) Decompress(block []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(block))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "inflate")
	}
	return out, nil
}

// snappyCodec appends the big-endian CRC32 of the uncompressed data,
// as the Avro container spec requires.
type snappyCodec struct{}

func (snappyCodec) Name() CodecName { return CodecSnappy }

func (snappyCodec) Compress(block []byte) ([]byte, error) {
	out := snappy.Encode(nil, block)
	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], crc32.ChecksumIEEE(block))
	return append(out, crc[:]...), nil
}

func (snappyCodec) Decompress(block []byte) ([]byte, error) {
	if len(block) < 4 {
		return nil, errors.InvalidData(errors.PhaseContainer, nil, "snappy block too short")
	}
	want := binary.BigEndian.Uint32(block[len(block)-4:])
	out, err := snappy.Decode(nil, block[:len(block)-4])
	if err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "snappy decode")
	}
	if got := crc32.ChecksumIEEE(out); got != want {
		return nil, errors.InvalidData(errors.PhaseContainer, nil,
			"snappy CRC mismatch: %08x != %08x", got, want)
	}
	return out, nil
}

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec() (*zstdCodec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "zstd init")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "zstd init")
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (c *zstdCodec) Name() CodecName { return CodecZstandard }

func (c *zstdCodec) Compress(block []byte) ([]byte, error) {
	return c.enc.EncodeAll(block, nil), nil
}

func (c *zstdCodec) Decompress(block []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(block, nil)
	if err != nil {
		return nil, errors.IO(errors.PhaseContainer, err, "zstd decode")
	}
	return out, nil
}
