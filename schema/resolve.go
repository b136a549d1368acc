package schema

// Match classifies how a writer node resolves to a reader node.
type Match uint8

const (
	NoMatch Match = iota
	ExactMatch
	PromotableToLong
	PromotableToFloat
	PromotableToDouble
)

var matchNames = [...]string{
	NoMatch:            "no_match",
	ExactMatch:         "match",
	PromotableToLong:   "promotable_to_long",
	PromotableToFloat:  "promotable_to_float",
	PromotableToDouble: "promotable_to_double",
}

func (m Match) String() string {
	if int(m) < len(matchNames) {
		return matchNames[m]
	}
	return "unknown"
}

// Resolve decides whether data written under writer can be read under
// reader, and whether a numeric promotion is required. Symbolic nodes
// on either side are dereferenced transparently; a dangling reference
// yields NoMatch.
func Resolve(writer, reader *Node) Match {
	w, err := Deref(writer)
	if err != nil {
		return NoMatch
	}
	r, err := Deref(reader)
	if err != nil {
		return NoMatch
	}

	if r.kind == TypeUnion && w.kind != TypeUnion {
		// Any branch may accept the writer; an exact match beats a
		// promotion, ties go to the first branch encountered.
		best := NoMatch
		for _, b := range r.leaves {
			switch m := Resolve(w, b); {
			case m == ExactMatch:
				return ExactMatch
			case m != NoMatch && best == NoMatch:
				best = m
			}
		}
		return best
	}

	switch w.kind {
	case TypeNull, TypeBoolean, TypeString, TypeBytes:
		if r.kind == w.kind {
			return ExactMatch
		}
	case TypeInt:
		switch r.kind {
		case TypeInt:
			return ExactMatch
		case TypeLong:
			return PromotableToLong
		case TypeFloat:
			return PromotableToFloat
		case TypeDouble:
			return PromotableToDouble
		}
	case TypeLong:
		switch r.kind {
		case TypeLong:
			return ExactMatch
		case TypeFloat:
			return PromotableToFloat
		case TypeDouble:
			return PromotableToDouble
		}
	case TypeFloat:
		switch r.kind {
		case TypeFloat:
			return ExactMatch
		case TypeDouble:
			return PromotableToDouble
		}
	case TypeDouble:
		if r.kind == TypeDouble {
			return ExactMatch
		}
	case TypeFixed:
		if r.kind == TypeFixed && w.name == r.name && w.size == r.size {
			return ExactMatch
		}
	case TypeEnum:
		if r.kind == TypeEnum && w.name == r.name {
			return ExactMatch
		}
	case TypeRecord:
		if r.kind == TypeRecord && w.name == r.name {
			return ExactMatch
		}
	case TypeArray:
		if r.kind == TypeArray {
			return Resolve(w.leaves[0], r.leaves[0])
		}
	case TypeMap:
		if r.kind == TypeMap {
			return Resolve(w.leaves[0], r.leaves[0])
		}
	case TypeUnion:
		// A writer union resolves whenever resolution of the selected
		// branch could; statically this is a match, branch errors
		// surface at decode time.
		return ExactMatch
	}
	return NoMatch
}
