package generic

import (
	"fmt"

	"github.com/avroforge/avro/schema"
)

// Datum is a dynamically typed Avro value. The kind is fixed at
// construction; only the held value may be mutated.
type Datum struct {
	kind  schema.Type
	node  *schema.Node // the (dereferenced) schema node behind the value
	value any
}

// NewDatum constructs a datum from a schema node, recursively
// initializing every part to the default value of its type.
func NewDatum(n *schema.Node) (*Datum, error) {
	sc, err := schema.Deref(n)
	if err != nil {
		return nil, err
	}
	d := &Datum{kind: sc.Kind(), node: sc}
	switch sc.Kind() {
	case schema.TypeNull:
	case schema.TypeBoolean:
		d.value = false
	case schema.TypeInt:
		d.value = int32(0)
	case schema.TypeLong:
		d.value = int64(0)
	case schema.TypeFloat:
		d.value = float32(0)
	case schema.TypeDouble:
		d.value = float64(0)
	case schema.TypeString:
		d.value = ""
	case schema.TypeBytes:
		d.value = []byte{}
	case schema.TypeFixed:
		d.value = make([]byte, sc.FixedSize())
	case schema.TypeEnum:
		d.value = int64(0)
	case schema.TypeArray:
		d.value = &Array{node: sc}
	case schema.TypeMap:
		d.value = &Map{node: sc, entries: make(map[string]*Datum)}
	case schema.TypeRecord:
		r := &Record{node: sc, fields: make([]*Datum, sc.Leaves())}
		for i := range r.fields {
			f, err := NewDatum(sc.LeafAt(i))
			if err != nil {
				return nil, err
			}
			r.fields[i] = f
		}
		d.value = r
	case schema.TypeUnion:
		u := &Union{node: sc}
		if err := u.Select(0); err != nil {
			return nil, err
		}
		d.value = u
	default:
		return nil, fmt.Errorf("generic: cannot build datum for %s", sc.Kind())
	}
	return d, nil
}

// Kind returns the datum's fixed type tag.
func (d *Datum) Kind() schema.Type { return d.kind }

// Node returns the schema node the datum was built from.
func (d *Datum) Node() *schema.Node { return d.node }

func (d *Datum) check(t schema.Type) {
	if d.kind != t {
		panic(fmt.Sprintf("generic: %s datum accessed as %s", d.kind, t))
	}
}

func (d *Datum) Bool() bool { d.check(schema.TypeBoolean); return d.value.(bool) }

func (d *Datum) SetBool(v bool) { d.check(schema.TypeBoolean); d.value = v }

func (d *Datum) Int() int32 { d.check(schema.TypeInt); return d.value.(int32) }

func (d *Datum) SetInt(v int32) { d.check(schema.TypeInt); d.value = v }

func (d *Datum) Long() int64 { d.check(schema.TypeLong); return d.value.(int64) }

func (d *Datum) SetLong(v int64) { d.check(schema.TypeLong); d.value = v }

func (d *Datum) Float() float32 { d.check(schema.TypeFloat); return d.value.(float32) }

func (d *Datum) SetFloat(v float32) { d.check(schema.TypeFloat); d.value = v }

func (d *Datum) Double() float64 { d.check(schema.TypeDouble); return d.value.(float64) }

func (d *Datum) SetDouble(v float64) { d.check(schema.TypeDouble); d.value = v }

func (d *Datum) String() string {
	if d.kind == schema.TypeString {
		return d.value.(string)
	}
	return fmt.Sprintf("<%s datum>", d.kind)
}

// Str returns the held string value.
func (d *Datum) Str() string { d.check(schema.TypeString); return d.value.(string) }

func (d *Datum) SetStr(v string) { d.check(schema.TypeString); d.value = v }

// Bytes returns the held bytes or fixed value.
func (d *Datum) Bytes() []byte {
	if d.kind != schema.TypeBytes && d.kind != schema.TypeFixed {
		panic(fmt.Sprintf("generic: %s datum accessed as bytes", d.kind))
	}
	return d.value.([]byte)
}

func (d *Datum) SetBytes(v []byte) {
	if d.kind != schema.TypeBytes && d.kind != schema.TypeFixed {
		panic(fmt.Sprintf("generic: %s datum accessed as bytes", d.kind))
	}
	if d.kind == schema.TypeFixed && len(v) != d.node.FixedSize() {
		panic(fmt.Sprintf("generic: fixed value has %d bytes, want %d", len(v), d.node.FixedSize()))
	}
	d.value = v
}

// Enum returns the held enum ordinal.
func (d *Datum) Enum() int64 { d.check(schema.TypeEnum); return d.value.(int64) }

// EnumSymbol returns the symbol name of the held ordinal.
func (d *Datum) EnumSymbol() string {
	d.check(schema.TypeEnum)
	return d.node.NameAt(int(d.value.(int64)))
}

func (d *Datum) SetEnum(ordinal int64) {
	d.check(schema.TypeEnum)
	if ordinal < 0 || int(ordinal) >= d.node.Names() {
		panic(fmt.Sprintf("generic: enum ordinal %d out of range", ordinal))
	}
	d.value = ordinal
}

func (d *Datum) Array() *Array { d.check(schema.TypeArray); return d.value.(*Array) }

func (d *Datum) Map() *Map { d.check(schema.TypeMap); return d.value.(*Map) }

func (d *Datum) Record() *Record { d.check(schema.TypeRecord); return d.value.(*Record) }

func (d *Datum) Union() *Union { d.check(schema.TypeUnion); return d.value.(*Union) }

// Array is a growing sequence of item datums.
type Array struct {
	node  *schema.Node
	items []*Datum
}

func (a *Array) Len() int { return len(a.items) }

func (a *Array) At(i int) *Datum { return a.items[i] }

// Append adds a fresh item datum and returns it for filling.
func (a *Array) Append() (*Datum, error) {
	item, err := NewDatum(a.node.LeafAt(0))
	if err != nil {
		return nil, err
	}
	a.items = append(a.items, item)
	return item, nil
}

// Map is a string-keyed collection of value datums.
type Map struct {
	node    *schema.Node
	keys    []string // insertion order
	entries map[string]*Datum
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Keys() []string { return m.keys }

func (m *Map) Get(key string) *Datum { return m.entries[key] }

// Put adds a fresh value datum under key and returns it for filling.
func (m *Map) Put(key string) (*Datum, error) {
	v, err := NewDatum(m.node.LeafAt(0))
	if err != nil {
		return nil, err
	}
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = v
	return v, nil
}

// Record holds one datum per field, in schema order.
type Record struct {
	node   *schema.Node
	fields []*Datum
}

func (r *Record) Schema() *schema.Node { return r.node }

func (r *Record) Fields() int { return len(r.fields) }

func (r *Record) FieldAt(i int) *Datum { return r.fields[i] }

// FieldByName returns the field datum, or nil when the record has no
// such field.
func (r *Record) FieldByName(name string) *Datum {
	if i, ok := r.node.IndexOf(name); ok {
		return r.fields[i]
	}
	return nil
}

// Union holds the selected branch and its value.
type Union struct {
	node   *schema.Node
	branch int
	datum  *Datum
}

func (u *Union) Branch() int { return u.branch }

func (u *Union) Value() *Datum { return u.datum }

// Select switches the union to branch i, resetting the held value to
// that branch's default-constructed datum.
func (u *Union) Select(i int) error {
	if i < 0 || i >= u.node.Leaves() {
		return fmt.Errorf("generic: union branch %d out of range [0, %d)", i, u.node.Leaves())
	}
	d, err := NewDatum(u.node.LeafAt(i))
	if err != nil {
		return err
	}
	u.branch = i
	u.datum = d
	return nil
}
