package codec

import (
	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/internal/binary"
)

// BinaryDecoder reads the Avro binary encoding. It performs no schema
// validation; wrap it in a validating or resolving decoder for that.
type BinaryDecoder struct {
	r *binary.Reader
}

// NewBinaryDecoder returns an unbound binary decoder; Init binds it to
// a stream.
func NewBinaryDecoder() *BinaryDecoder {
	return &BinaryDecoder{r: binary.NewReader(nil)}
}

func (d *BinaryDecoder) Init(in avro.InputStream) { d.r.Reset(in) }

// ByteCount reports bytes consumed from the bound stream.
func (d *BinaryDecoder) ByteCount() int64 { return d.r.ByteCount() }

func (d *BinaryDecoder) DecodeNull() error { return nil }

func (d *BinaryDecoder) DecodeBool() (bool, error) { return d.r.ReadBool() }

func (d *BinaryDecoder) DecodeInt() (int32, error) { return d.r.ReadInt() }

func (d *BinaryDecoder) DecodeLong() (int64, error) { return d.r.ReadLong() }

func (d *BinaryDecoder) DecodeFloat() (float32, error) { return d.r.ReadFloat() }

func (d *BinaryDecoder) DecodeDouble() (float64, error) { return d.r.ReadDouble() }

func (d *BinaryDecoder) decodeLen() (int64, error) {
	n, err := d.r.ReadLong()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.InvalidData(errors.PhaseDecode, nil, "negative length %d", n)
	}
	return n, nil
}

func (d *BinaryDecoder) DecodeString() (string, error) {
	n, err := d.decodeLen()
	if err != nil {
		return "", err
	}
	raw, err := d.r.ReadRaw(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (d *BinaryDecoder) SkipString() error {
	n, err := d.decodeLen()
	if err != nil {
		return err
	}
	return d.r.Skip(n)
}

func (d *BinaryDecoder) DecodeBytes() ([]byte, error) {
	n, err := d.decodeLen()
	if err != nil {
		return nil, err
	}
	return d.r.ReadRaw(int(n))
}

func (d *BinaryDecoder) SkipBytes() error { return d.SkipString() }

func (d *BinaryDecoder) DecodeFixed(n int) ([]byte, error) { return d.r.ReadRaw(n) }

func (d *BinaryDecoder) SkipFixed(n int) error { return d.r.Skip(int64(n)) }

func (d *BinaryDecoder) DecodeEnum() (int64, error) { return d.r.ReadLong() }

// decodeBlockCount normalizes a block header: a negative count means
// its absolute value of items preceded by a byte-size hint, which is
// read and dropped here.
func (d *BinaryDecoder) decodeBlockCount() (int64, error) {
	n, err := d.r.ReadLong()
	if err != nil {
		return 0, err
	}
	if n >= 0 {
		return n, nil
	}
	if _, err := d.r.ReadLong(); err != nil {
		return 0, err
	}
	return -n, nil
}

func (d *BinaryDecoder) ArrayStart() (int64, error) { return d.decodeBlockCount() }

func (d *BinaryDecoder) ArrayNext() (int64, error) { return d.decodeBlockCount() }

// SkipArray fast-forwards over blocks that carry a byte-size hint and
// returns the item count of the first block without one (zero at the
// end of the array).
func (d *BinaryDecoder) SkipArray() (int64, error) {
	for {
		n, err := d.r.ReadLong()
		if err != nil {
			return 0, err
		}
		if n >= 0 {
			return n, nil
		}
		size, err := d.decodeLen()
		if err != nil {
			return 0, err
		}
		if err := d.r.Skip(size); err != nil {
			return 0, err
		}
	}
}

func (d *BinaryDecoder) MapStart() (int64, error) { return d.decodeBlockCount() }

func (d *BinaryDecoder) MapNext() (int64, error) { return d.decodeBlockCount() }

func (d *BinaryDecoder) SkipMap() (int64, error) { return d.SkipArray() }

func (d *BinaryDecoder) DecodeUnionIndex() (int64, error) {
	n, err := d.r.ReadLong()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.Range(errors.PhaseDecode, "negative union branch %d", n)
	}
	return n, nil
}
