package binary

import (
	"bytes"
	"math"
	"testing"

	avro "github.com/avroforge/avro"
)

func encode(t *testing.T, fn func(w *Writer) error) []byte {
	t.Helper()
	out := avro.NewMemoryOutput(8)
	w := NewWriter(out)
	if err := fn(w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return avro.Snapshot(out)
}

func reader(data []byte, chunk int) *Reader {
	return NewReader(avro.NewMemoryInput(data, chunk))
}

func TestLongZigZag(t *testing.T) {
	cases := []struct {
		value int64
		bytes []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x01}},
		{1, []byte{0x02}},
		{-2, []byte{0x03}},
		{2, []byte{0x04}},
		{42, []byte{0x54}},
		{-64, []byte{0x7f}},
		{64, []byte{0x80, 0x01}},
		{8192, []byte{0x80, 0x80, 0x01}},
		{-8193, []byte{0x81, 0x80, 0x01}},
		{math.MaxInt64, []byte{0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
		{math.MinInt64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}},
	}
	for _, tc := range cases {
		got := encode(t, func(w *Writer) error { return w.WriteLong(tc.value) })
		if !bytes.Equal(got, tc.bytes) {
			t.Errorf("WriteLong(%d) = %x, want %x", tc.value, got, tc.bytes)
		}
		v, err := reader(tc.bytes, 1).ReadLong()
		if err != nil {
			t.Errorf("ReadLong(%x): %v", tc.bytes, err)
		} else if v != tc.value {
			t.Errorf("ReadLong(%x) = %d, want %d", tc.bytes, v, tc.value)
		}
	}
}

func TestIntRange(t *testing.T) {
	data := encode(t, func(w *Writer) error { return w.WriteLong(int64(math.MaxInt32) + 1) })
	if _, err := reader(data, 0).ReadInt(); err == nil {
		t.Fatal("ReadInt should reject values past int32")
	}
	data = encode(t, func(w *Writer) error { return w.WriteLong(math.MinInt32) })
	v, err := reader(data, 0).ReadInt()
	if err != nil || v != math.MinInt32 {
		t.Fatalf("ReadInt = %d, %v", v, err)
	}
}

func TestVarintOverflow(t *testing.T) {
	data := bytes.Repeat([]byte{0x80}, 11)
	if _, err := reader(data, 0).ReadVarint(); err == nil {
		t.Fatal("11-byte varint should fail")
	}
}

func TestBool(t *testing.T) {
	data := encode(t, func(w *Writer) error {
		if err := w.WriteBool(true); err != nil {
			return err
		}
		return w.WriteBool(false)
	})
	if !bytes.Equal(data, []byte{0x01, 0x00}) {
		t.Fatalf("bools = %x", data)
	}
	r := reader([]byte{0x02}, 0)
	if _, err := r.ReadBool(); err == nil {
		t.Fatal("invalid boolean byte should fail")
	}
}

func TestFloatLittleEndian(t *testing.T) {
	data := encode(t, func(w *Writer) error { return w.WriteFloat(1.0) })
	if !bytes.Equal(data, []byte{0x00, 0x00, 0x80, 0x3f}) {
		t.Fatalf("float 1.0 = %x", data)
	}
	data = encode(t, func(w *Writer) error { return w.WriteDouble(1.0) })
	if !bytes.Equal(data, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f}) {
		t.Fatalf("double 1.0 = %x", data)
	}

	v, err := reader([]byte{0x00, 0x00, 0x80, 0x3f}, 2).ReadFloat()
	if err != nil || v != 1.0 {
		t.Fatalf("ReadFloat = %v, %v", v, err)
	}
}

func TestRawAcrossChunks(t *testing.T) {
	payload := []byte("spanning multiple tiny chunks")
	r := reader(payload, 3)
	got, err := r.ReadRaw(len(payload))
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("ReadRaw = %q", got)
	}
	if r.ByteCount() != int64(len(payload)) {
		t.Fatalf("ByteCount = %d", r.ByteCount())
	}
}

func TestSkipPrefersStream(t *testing.T) {
	r := reader([]byte("0123456789"), 4)
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if err := r.Skip(7); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	b, err := r.ReadByte()
	if err != nil || b != '8' {
		t.Fatalf("ReadByte = %c, %v", b, err)
	}
}

func TestEOF(t *testing.T) {
	r := reader(nil, 0)
	if _, err := r.ReadByte(); err == nil {
		t.Fatal("ReadByte at EOF should fail")
	}
}
