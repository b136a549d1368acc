// Package schema models Avro schemas as an immutable tree of typed
// nodes and compiles the Avro JSON schema language into that tree.
//
// # Node Tree
//
// A schema is a *Node tagged with a Type. Compound nodes carry leaves
// (array items, map values, record fields, union branches) and named
// children (record field names, enum symbols). Recursive schemas are
// expressed with symbolic nodes: a symbolic node is a non-owning
// reference to a previously declared named node, so the tree itself
// stays acyclic.
//
// Nodes are immutable once construction completes and may be shared
// freely across goroutines.
//
// # Compilation
//
// Parse compiles Avro schema JSON:
//
//	n, err := schema.Parse(`{"type":"array","items":"long"}`)
//
// Record field defaults are interpreted against the field type at
// compile time and stored as their Avro binary encoding, ready for
// default injection during schema resolution.
//
// # Resolution
//
// Resolve classifies a writer/reader node pair as an exact match, a
// numeric promotion, or no match. It is the static relation underlying
// the resolving decoder; the grammar package turns it into an
// executable program.
//
// # Canonical Form
//
// Canonical renders a node as the Avro canonical schema JSON: full
// names, normalized attribute order, no defaults or custom attributes.
// Node.String returns the same form.
package schema
