package codec

import (
	"math"
	"testing"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/schema"
)

func jsonEncode(t *testing.T, s *schema.Node, fn func(e avro.Encoder) error) string {
	t.Helper()
	enc, err := NewJSONEncoder(s)
	if err != nil {
		t.Fatalf("NewJSONEncoder: %v", err)
	}
	out := avro.NewMemoryOutput(32)
	enc.Init(out)
	if err := fn(enc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return string(avro.Snapshot(out))
}

func jsonDecoder(t *testing.T, s *schema.Node, text string) *JSONDecoder {
	t.Helper()
	dec, err := NewJSONDecoder(s)
	if err != nil {
		t.Fatalf("NewJSONDecoder: %v", err)
	}
	dec.Init(avro.NewMemoryInput([]byte(text), 0))
	return dec
}

func TestJSONRecord(t *testing.T) {
	s := mustSchema(t, `{
		"type": "record", "name": "Point",
		"fields": [{"name": "x", "type": "long"}, {"name": "y", "type": "long"}]
	}`)
	text := jsonEncode(t, s, func(e avro.Encoder) error {
		if err := e.EncodeLong(3); err != nil {
			return err
		}
		return e.EncodeLong(-4)
	})
	if text != `{"x":3,"y":-4}` {
		t.Fatalf("text = %s", text)
	}

	dec := jsonDecoder(t, s, text)
	x, err := dec.DecodeLong()
	if err != nil || x != 3 {
		t.Fatalf("x = %d, %v", x, err)
	}
	y, err := dec.DecodeLong()
	if err != nil || y != -4 {
		t.Fatalf("y = %d, %v", y, err)
	}
}

func TestJSONFieldNameMismatch(t *testing.T) {
	s := mustSchema(t, `{"type":"record","name":"R","fields":[{"name":"a","type":"long"}]}`)
	dec := jsonDecoder(t, s, `{"wrong":1}`)
	if _, err := dec.DecodeLong(); err == nil {
		t.Fatal("mismatched field name should fail")
	}
}

func TestJSONArrayAndMap(t *testing.T) {
	s := mustSchema(t, `{"type":"array","items":"int"}`)
	text := jsonEncode(t, s, func(e avro.Encoder) error {
		if err := e.ArrayStart(); err != nil {
			return err
		}
		if err := e.SetItemCount(3); err != nil {
			return err
		}
		for _, v := range []int32{1, 2, 3} {
			if err := e.StartItem(); err != nil {
				return err
			}
			if err := e.EncodeInt(v); err != nil {
				return err
			}
		}
		return e.ArrayEnd()
	})
	if text != `[1,2,3]` {
		t.Fatalf("array text = %s", text)
	}

	dec := jsonDecoder(t, s, text)
	var got []int32
	n, err := dec.ArrayStart()
	for {
		if err != nil {
			t.Fatalf("array: %v", err)
		}
		if n == 0 {
			break
		}
		v, err := dec.DecodeInt()
		if err != nil {
			t.Fatalf("item: %v", err)
		}
		got = append(got, v)
		n, err = dec.ArrayNext()
	}
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}

	m := mustSchema(t, `{"type":"map","values":"string"}`)
	text = jsonEncode(t, m, func(e avro.Encoder) error {
		if err := e.MapStart(); err != nil {
			return err
		}
		if err := e.SetItemCount(1); err != nil {
			return err
		}
		if err := e.StartItem(); err != nil {
			return err
		}
		if err := e.EncodeString("k"); err != nil {
			return err
		}
		if err := e.EncodeString("v"); err != nil {
			return err
		}
		return e.MapEnd()
	})
	if text != `{"k":"v"}` {
		t.Fatalf("map text = %s", text)
	}

	dec = jsonDecoder(t, m, text)
	n, err = dec.MapStart()
	if err != nil || n != 1 {
		t.Fatalf("MapStart = %d, %v", n, err)
	}
	key, err := dec.DecodeString()
	if err != nil || key != "k" {
		t.Fatalf("key = %q, %v", key, err)
	}
	val, err := dec.DecodeString()
	if err != nil || val != "v" {
		t.Fatalf("val = %q, %v", val, err)
	}
	if n, err = dec.MapNext(); err != nil || n != 0 {
		t.Fatalf("MapNext = %d, %v", n, err)
	}
}

func TestJSONUnionWrapper(t *testing.T) {
	s := mustSchema(t, `["null","string",{"type":"record","name":"geo.Point","fields":[{"name":"x","type":"long"}]}]`)

	text := jsonEncode(t, s, func(e avro.Encoder) error {
		if err := e.EncodeUnionIndex(1); err != nil {
			return err
		}
		return e.EncodeString("x")
	})
	if text != `{"string":"x"}` {
		t.Fatalf("string branch = %s", text)
	}

	text = jsonEncode(t, s, func(e avro.Encoder) error {
		if err := e.EncodeUnionIndex(0); err != nil {
			return err
		}
		return e.EncodeNull()
	})
	if text != `null` {
		t.Fatalf("null branch = %s", text)
	}

	text = jsonEncode(t, s, func(e avro.Encoder) error {
		if err := e.EncodeUnionIndex(2); err != nil {
			return err
		}
		return e.EncodeLong(9)
	})
	if text != `{"geo.Point":{"x":9}}` {
		t.Fatalf("record branch = %s", text)
	}

	// Decode side picks branches from the wrappers.
	d := jsonDecoder(t, s, `{"string":"hello"}`)
	branch, err := d.DecodeUnionIndex()
	if err != nil || branch != 1 {
		t.Fatalf("branch = %d, %v", branch, err)
	}
	v, err := d.DecodeString()
	if err != nil || v != "hello" {
		t.Fatalf("value = %q, %v", v, err)
	}

	d = jsonDecoder(t, s, `null`)
	branch, err = d.DecodeUnionIndex()
	if err != nil || branch != 0 {
		t.Fatalf("null branch = %d, %v", branch, err)
	}
	if err := d.DecodeNull(); err != nil {
		t.Fatalf("DecodeNull: %v", err)
	}
}

func TestJSONEnumSymbols(t *testing.T) {
	s := mustSchema(t, `{"type":"enum","name":"Suit","symbols":["SPADES","HEARTS"]}`)
	text := jsonEncode(t, s, func(e avro.Encoder) error { return e.EncodeEnum(1) })
	if text != `"HEARTS"` {
		t.Fatalf("enum text = %s", text)
	}
	v, err := jsonDecoder(t, s, `"HEARTS"`).DecodeEnum()
	if err != nil || v != 1 {
		t.Fatalf("enum = %d, %v", v, err)
	}
	if _, err := jsonDecoder(t, s, `"CLUBS"`).DecodeEnum(); err == nil {
		t.Fatal("unknown symbol should fail")
	}
}

func TestJSONBytesCodePoints(t *testing.T) {
	s := mustSchema(t, `"bytes"`)
	payload := []byte{0x00, 0x41, 0xff}
	text := jsonEncode(t, s, func(e avro.Encoder) error { return e.EncodeBytes(payload) })
	got, err := jsonDecoder(t, s, text).DecodeBytes()
	if err != nil || len(got) != 3 || got[0] != 0x00 || got[1] != 0x41 || got[2] != 0xff {
		t.Fatalf("bytes = %x, %v", got, err)
	}
}

func TestJSONNonFiniteFloats(t *testing.T) {
	s := mustSchema(t, `"double"`)
	cases := []struct {
		value float64
		text  string
	}{
		{math.NaN(), `"NaN"`},
		{math.Inf(1), `"Infinity"`},
		{math.Inf(-1), `"-Infinity"`},
	}
	for _, tc := range cases {
		text := jsonEncode(t, s, func(e avro.Encoder) error { return e.EncodeDouble(tc.value) })
		if text != tc.text {
			t.Errorf("encode(%v) = %s, want %s", tc.value, text, tc.text)
		}
		got, err := jsonDecoder(t, s, text).DecodeDouble()
		if err != nil {
			t.Errorf("decode(%s): %v", text, err)
			continue
		}
		if math.IsNaN(tc.value) {
			if !math.IsNaN(got) {
				t.Errorf("decode(%s) = %v, want NaN", text, got)
			}
		} else if got != tc.value {
			t.Errorf("decode(%s) = %v, want %v", text, got, tc.value)
		}
	}
}

func TestJSONIntRange(t *testing.T) {
	s := mustSchema(t, `"int"`)
	if _, err := jsonDecoder(t, s, `2147483648`).DecodeInt(); err == nil {
		t.Fatal("int past int32 range should fail")
	}
	v, err := jsonDecoder(t, s, `-2147483648`).DecodeInt()
	if err != nil || v != math.MinInt32 {
		t.Fatalf("DecodeInt = %d, %v", v, err)
	}
}

func TestJSONFixed(t *testing.T) {
	s := mustSchema(t, `{"type":"fixed","name":"F","size":2}`)
	text := jsonEncode(t, s, func(e avro.Encoder) error { return e.EncodeFixed([]byte{0x01, 0x7f}) })
	got, err := jsonDecoder(t, s, text).DecodeFixed(2)
	if err != nil || len(got) != 2 || got[0] != 0x01 || got[1] != 0x7f {
		t.Fatalf("fixed = %x, %v", got, err)
	}
}

func TestJSONRecordWithUnionField(t *testing.T) {
	s := mustSchema(t, `{
		"type": "record", "name": "R",
		"fields": [
			{"name": "u", "type": ["null", "long"]},
			{"name": "tail", "type": "string"}
		]
	}`)
	text := jsonEncode(t, s, func(e avro.Encoder) error {
		if err := e.EncodeUnionIndex(1); err != nil {
			return err
		}
		if err := e.EncodeLong(5); err != nil {
			return err
		}
		return e.EncodeString("end")
	})
	if text != `{"u":{"long":5},"tail":"end"}` {
		t.Fatalf("text = %s", text)
	}

	dec := jsonDecoder(t, s, text)
	branch, err := dec.DecodeUnionIndex()
	if err != nil || branch != 1 {
		t.Fatalf("branch = %d, %v", branch, err)
	}
	v, err := dec.DecodeLong()
	if err != nil || v != 5 {
		t.Fatalf("u = %d, %v", v, err)
	}
	tail, err := dec.DecodeString()
	if err != nil || tail != "end" {
		t.Fatalf("tail = %q, %v", tail, err)
	}
}
