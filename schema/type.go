package schema

// Type tags a schema node.
type Type uint8

const (
	TypeNull Type = iota
	TypeBoolean
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeString
	TypeBytes
	TypeFixed
	TypeEnum
	TypeArray
	TypeMap
	TypeRecord
	TypeUnion

	// TypeSymbolic is a pseudo-type used to break schema recursion: a
	// symbolic node stands for a previously declared named node.
	TypeSymbolic
)

var typeNames = [...]string{
	TypeNull:     "null",
	TypeBoolean:  "boolean",
	TypeInt:      "int",
	TypeLong:     "long",
	TypeFloat:    "float",
	TypeDouble:   "double",
	TypeString:   "string",
	TypeBytes:    "bytes",
	TypeFixed:    "fixed",
	TypeEnum:     "enum",
	TypeArray:    "array",
	TypeMap:      "map",
	TypeRecord:   "record",
	TypeUnion:    "union",
	TypeSymbolic: "symbolic",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsPrimitive reports whether t is one of the eight Avro primitives.
func (t Type) IsPrimitive() bool {
	return t <= TypeBytes
}

// IsNamed reports whether values of t carry a full name (record, enum,
// fixed).
func (t Type) IsNamed() bool {
	return t == TypeFixed || t == TypeEnum || t == TypeRecord
}

var primitivesByName = map[string]Type{
	"null":    TypeNull,
	"boolean": TypeBoolean,
	"int":     TypeInt,
	"long":    TypeLong,
	"float":   TypeFloat,
	"double":  TypeDouble,
	"string":  TypeString,
	"bytes":   TypeBytes,
}
