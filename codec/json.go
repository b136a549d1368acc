package codec

import (
	"encoding/json"
	"io"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/internal/binary"
)

// The JSON codec leans on encoding/json for lexing and string
// escaping; this file holds the thin token layer between that and the
// grammar-driven encoder/decoder.

const (
	ctxArray  byte = 'a'
	ctxRecord byte = 'r' // keys supplied by the grammar
	ctxMap    byte = 'm' // keys supplied as string values
)

type jsonContext struct {
	kind      byte
	items     int
	expectKey bool
}

// jsonGen emits JSON text with separator bookkeeping.
type jsonGen struct {
	w     *binary.Writer
	stack []jsonContext
	roots int
}

func newJSONGen() *jsonGen {
	return &jsonGen{w: binary.NewWriter(nil)}
}

func (g *jsonGen) Reset(out avro.OutputStream) {
	g.w.Reset(out)
	g.stack = g.stack[:0]
	g.roots = 0
}

func (g *jsonGen) Flush() error { return g.w.Flush() }

func (g *jsonGen) raw(s string) error { return g.w.WriteRaw([]byte(s)) }

// beforeValue writes the separator a value needs at the current
// nesting level.
func (g *jsonGen) beforeValue() error {
	if len(g.stack) == 0 {
		if g.roots > 0 {
			if err := g.raw("\n"); err != nil {
				return err
			}
		}
		g.roots++
		return nil
	}
	c := &g.stack[len(g.stack)-1]
	if c.kind == ctxArray {
		if c.items > 0 {
			if err := g.raw(","); err != nil {
				return err
			}
		}
		c.items++
	}
	return nil
}

// afterValue re-arms key expectation in map contexts.
func (g *jsonGen) afterValue() {
	if len(g.stack) > 0 {
		c := &g.stack[len(g.stack)-1]
		if c.kind == ctxMap {
			c.expectKey = true
		}
	}
}

// Key writes an object key, with its separator and colon.
func (g *jsonGen) Key(name string) error {
	c := &g.stack[len(g.stack)-1]
	if c.items > 0 {
		if err := g.raw(","); err != nil {
			return err
		}
	}
	c.items++
	quoted, err := json.Marshal(name)
	if err != nil {
		return errors.IO(errors.PhaseEncode, err, "marshal key")
	}
	if err := g.w.WriteRaw(quoted); err != nil {
		return err
	}
	return g.raw(":")
}

func (g *jsonGen) Value(lit string) error {
	if err := g.beforeValue(); err != nil {
		return err
	}
	if err := g.raw(lit); err != nil {
		return err
	}
	g.afterValue()
	return nil
}

func (g *jsonGen) String(s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return errors.IO(errors.PhaseEncode, err, "marshal string")
	}
	if err := g.beforeValue(); err != nil {
		return err
	}
	if err := g.w.WriteRaw(quoted); err != nil {
		return err
	}
	g.afterValue()
	return nil
}

// MapKey writes a map entry's key from a string value.
func (g *jsonGen) MapKey(s string) error {
	return g.Key(s)
}

func (g *jsonGen) Begin(kind byte) error {
	if err := g.beforeValue(); err != nil {
		return err
	}
	g.stack = append(g.stack, jsonContext{kind: kind, expectKey: kind == ctxMap})
	if kind == ctxArray {
		return g.raw("[")
	}
	return g.raw("{")
}

func (g *jsonGen) End() error {
	kind := g.stack[len(g.stack)-1].kind
	g.stack = g.stack[:len(g.stack)-1]
	var err error
	if kind == ctxArray {
		err = g.raw("]")
	} else {
		err = g.raw("}")
	}
	if err != nil {
		return err
	}
	g.afterValue()
	return nil
}

// InMapKeyPosition reports whether the next string written is a map
// entry's key.
func (g *jsonGen) InMapKeyPosition() bool {
	if len(g.stack) == 0 {
		return false
	}
	c := &g.stack[len(g.stack)-1]
	return c.kind == ctxMap && c.expectKey
}

// MapKeyWritten flips the map context from key to value position.
func (g *jsonGen) MapKeyWritten() {
	g.stack[len(g.stack)-1].expectKey = false
}

// streamReader adapts an InputStream to io.Reader for encoding/json.
type streamReader struct {
	in avro.InputStream
}

func (r *streamReader) Read(p []byte) (int, error) {
	chunk, ok := r.in.Next()
	if !ok {
		return 0, io.EOF
	}
	n := copy(p, chunk)
	if n < len(chunk) {
		r.in.Backup(len(chunk) - n)
	}
	return n, nil
}

// jsonLex is a one-token-lookahead JSON tokenizer.
type jsonLex struct {
	dec    *json.Decoder
	peeked json.Token
	hasPk  bool
}

func newJSONLex() *jsonLex { return &jsonLex{} }

func (l *jsonLex) Reset(in avro.InputStream) {
	dec := json.NewDecoder(&streamReader{in: in})
	dec.UseNumber()
	l.dec = dec
	l.peeked = nil
	l.hasPk = false
}

func (l *jsonLex) Token() (json.Token, error) {
	if l.hasPk {
		l.hasPk = false
		return l.peeked, nil
	}
	t, err := l.dec.Token()
	if err != nil {
		return nil, errors.IO(errors.PhaseDecode, err, "read JSON token")
	}
	return t, nil
}

func (l *jsonLex) Peek() (json.Token, error) {
	if !l.hasPk {
		t, err := l.dec.Token()
		if err != nil {
			return nil, errors.IO(errors.PhaseDecode, err, "read JSON token")
		}
		l.peeked = t
		l.hasPk = true
	}
	return l.peeked, nil
}

// expectDelim consumes the next token and requires it to be the given
// structural delimiter.
func (l *jsonLex) expectDelim(d rune) error {
	t, err := l.Token()
	if err != nil {
		return err
	}
	if delim, ok := t.(json.Delim); !ok || rune(delim) != d {
		return errors.InvalidData(errors.PhaseDecode, nil, "expected %q, found %v", string(d), t)
	}
	return nil
}

// isDelim reports whether a peeked token is the given delimiter.
func isDelim(t json.Token, d rune) bool {
	delim, ok := t.(json.Delim)
	return ok && rune(delim) == d
}

// byteString maps bytes one-to-one onto code points, the Avro JSON
// convention for bytes and fixed values.
func byteString(b []byte) string {
	runes := make([]rune, len(b))
	for i, v := range b {
		runes[i] = rune(v)
	}
	return string(runes)
}

// stringBytes is the inverse of byteString.
func stringBytes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, errors.InvalidData(errors.PhaseDecode, nil,
				"code point %U too large for a byte", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
