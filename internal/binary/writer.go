package binary

import (
	"encoding/binary"
	"math"

	avro "github.com/avroforge/avro"
)

// Writer cursors over an OutputStream one chunk at a time.
type Writer struct {
	out   avro.OutputStream
	chunk []byte
	pos   int
}

func NewWriter(out avro.OutputStream) *Writer {
	return &Writer{out: out}
}

// Reset rebinds the writer to a new stream, dropping buffered state.
func (w *Writer) Reset(out avro.OutputStream) {
	w.out = out
	w.chunk = nil
	w.pos = 0
}

func (w *Writer) more() error {
	chunk, err := w.out.Next()
	if err != nil {
		return err
	}
	w.chunk = chunk
	w.pos = 0
	return nil
}

func (w *Writer) WriteByte(b byte) error {
	if w.pos >= len(w.chunk) {
		if err := w.more(); err != nil {
			return err
		}
	}
	w.chunk[w.pos] = b
	w.pos++
	return nil
}

func (w *Writer) WriteRaw(p []byte) error {
	for len(p) > 0 {
		if w.pos >= len(w.chunk) {
			if err := w.more(); err != nil {
				return err
			}
		}
		n := copy(w.chunk[w.pos:], p)
		w.pos += n
		p = p[n:]
	}
	return nil
}

// WriteVarint writes an unsigned little-endian base-128 varint.
func (w *Writer) WriteVarint(v uint64) error {
	var buf [10]byte
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			return w.WriteRaw(buf[:n])
		}
	}
}

// WriteLong writes a zig-zag encoded long.
func (w *Writer) WriteLong(v int64) error {
	return w.WriteVarint(uint64(v)<<1 ^ uint64(v>>63))
}

func (w *Writer) WriteBool(b bool) error {
	if b {
		return w.WriteByte(1)
	}
	return w.WriteByte(0)
}

func (w *Writer) WriteFloat(v float32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	return w.WriteRaw(buf[:])
}

func (w *Writer) WriteDouble(v float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return w.WriteRaw(buf[:])
}

// Flush returns the unused chunk suffix to the stream and flushes it.
func (w *Writer) Flush() error {
	if w.chunk != nil {
		w.out.Backup(len(w.chunk) - w.pos)
		w.chunk = nil
		w.pos = 0
	}
	return w.out.Flush()
}
