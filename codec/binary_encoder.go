package codec

import (
	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/internal/binary"
)

// BinaryEncoder writes the Avro binary encoding without schema
// validation.
type BinaryEncoder struct {
	w *binary.Writer
}

// NewBinaryEncoder returns an unbound binary encoder; Init binds it to
// a stream.
func NewBinaryEncoder() *BinaryEncoder {
	return &BinaryEncoder{w: binary.NewWriter(nil)}
}

func (e *BinaryEncoder) Init(out avro.OutputStream) { e.w.Reset(out) }

func (e *BinaryEncoder) Flush() error { return e.w.Flush() }

func (e *BinaryEncoder) EncodeNull() error { return nil }

func (e *BinaryEncoder) EncodeBool(b bool) error { return e.w.WriteBool(b) }

func (e *BinaryEncoder) EncodeInt(v int32) error { return e.w.WriteLong(int64(v)) }

func (e *BinaryEncoder) EncodeLong(v int64) error { return e.w.WriteLong(v) }

func (e *BinaryEncoder) EncodeFloat(v float32) error { return e.w.WriteFloat(v) }

func (e *BinaryEncoder) EncodeDouble(v float64) error { return e.w.WriteDouble(v) }

func (e *BinaryEncoder) EncodeString(s string) error {
	if err := e.w.WriteLong(int64(len(s))); err != nil {
		return err
	}
	return e.w.WriteRaw([]byte(s))
}

func (e *BinaryEncoder) EncodeBytes(b []byte) error {
	if err := e.w.WriteLong(int64(len(b))); err != nil {
		return err
	}
	return e.w.WriteRaw(b)
}

func (e *BinaryEncoder) EncodeFixed(b []byte) error { return e.w.WriteRaw(b) }

func (e *BinaryEncoder) EncodeEnum(ordinal int64) error { return e.w.WriteLong(ordinal) }

func (e *BinaryEncoder) ArrayStart() error { return nil }

// ArrayEnd terminates the container with an empty block.
func (e *BinaryEncoder) ArrayEnd() error { return e.w.WriteLong(0) }

func (e *BinaryEncoder) MapStart() error { return nil }

func (e *BinaryEncoder) MapEnd() error { return e.w.WriteLong(0) }

// SetItemCount opens a block; empty blocks are elided since a zero
// count would terminate the container.
func (e *BinaryEncoder) SetItemCount(n int64) error {
	if n == 0 {
		return nil
	}
	return e.w.WriteLong(n)
}

func (e *BinaryEncoder) StartItem() error { return nil }

func (e *BinaryEncoder) EncodeUnionIndex(branch int64) error { return e.w.WriteLong(branch) }
