package binary

import (
	"encoding/binary"
	"io"
	"math"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
)

// Reader cursors over an InputStream one chunk at a time.
type Reader struct {
	in    avro.InputStream
	chunk []byte
	pos   int
}

func NewReader(in avro.InputStream) *Reader {
	return &Reader{in: in}
}

// Reset rebinds the reader to a new stream, dropping buffered state.
func (r *Reader) Reset(in avro.InputStream) {
	r.in = in
	r.chunk = nil
	r.pos = 0
}

// errEOF carries io.EOF in its cause chain so callers at a legal
// end-of-data boundary can distinguish exhaustion from corruption.
func errEOF() error {
	return errors.IO(errors.PhaseStream, io.EOF, "unexpected end of stream")
}

func (r *Reader) more() error {
	chunk, ok := r.in.Next()
	if !ok {
		return errEOF()
	}
	r.chunk = chunk
	r.pos = 0
	return nil
}

func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.chunk) {
		if err := r.more(); err != nil {
			return 0, err
		}
	}
	b := r.chunk[r.pos]
	r.pos++
	return b, nil
}

// ReadRaw returns the next n bytes as a freshly allocated slice.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	out := make([]byte, n)
	if err := r.ReadRawInto(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadRawInto fills buf from the stream.
func (r *Reader) ReadRawInto(buf []byte) error {
	for len(buf) > 0 {
		if r.pos >= len(r.chunk) {
			if err := r.more(); err != nil {
				return err
			}
		}
		n := copy(buf, r.chunk[r.pos:])
		r.pos += n
		buf = buf[n:]
	}
	return nil
}

// Skip advances n bytes, preferring the stream's seek over reads once
// the current chunk is exhausted.
func (r *Reader) Skip(n int64) error {
	if buffered := int64(len(r.chunk) - r.pos); n <= buffered {
		r.pos += int(n)
		return nil
	} else if buffered > 0 {
		r.pos = len(r.chunk)
		n -= buffered
	}
	return r.in.Skip(n)
}

// ByteCount reports bytes consumed through this reader.
func (r *Reader) ByteCount() int64 {
	return r.in.ByteCount() - int64(len(r.chunk)-r.pos)
}

// ReadVarint reads an unsigned little-endian base-128 varint of at
// most 10 bytes.
func (r *Reader) ReadVarint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 70 {
			return 0, errors.InvalidData(errors.PhaseDecode, nil, "varint overflows 64 bits")
		}
	}
}

// ReadLong reads a zig-zag encoded long.
func (r *Reader) ReadLong() (int64, error) {
	u, err := r.ReadVarint()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// ReadInt reads a zig-zag encoded int, rejecting values outside the
// 32-bit range.
func (r *Reader) ReadInt() (int32, error) {
	v, err := r.ReadLong()
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, errors.Range(errors.PhaseDecode, "value %d out of range for int", v)
	}
	return int32(v), nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.InvalidData(errors.PhaseDecode, nil, "invalid boolean byte 0x%02x", b)
	}
}

func (r *Reader) ReadFloat() (float32, error) {
	var buf [4]byte
	if err := r.ReadRawInto(buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

func (r *Reader) ReadDouble() (float64, error) {
	var buf [8]byte
	if err := r.ReadRawInto(buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}
