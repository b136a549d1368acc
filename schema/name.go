package schema

import (
	"strings"

	"github.com/avroforge/avro/errors"
)

// Name is the qualified name of a record, enum or fixed type.
type Name struct {
	Simple    string
	Namespace string
}

// ParseName splits name into simple name and namespace. A dotted name
// carries its own namespace; otherwise enclosing is used.
func ParseName(name, enclosing string) (Name, error) {
	ns := enclosing
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		ns = name[:i]
		name = name[i+1:]
	}
	if !validName(name) {
		return Name{}, errors.InvalidData(errors.PhaseSchema, nil, "invalid name %q", name)
	}
	for _, part := range strings.Split(ns, ".") {
		if ns != "" && !validName(part) {
			return Name{}, errors.InvalidData(errors.PhaseSchema, nil, "invalid namespace %q", ns)
		}
	}
	return Name{Simple: name, Namespace: ns}, nil
}

// Full returns the dotted full name.
func (n Name) Full() string {
	if n.Namespace == "" {
		return n.Simple
	}
	return n.Namespace + "." + n.Simple
}

func (n Name) String() string { return n.Full() }

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		alpha := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 && !alpha {
			return false
		}
		if !alpha && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
