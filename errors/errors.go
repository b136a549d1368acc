package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema    Phase = "schema"    // schema compilation
	PhaseResolve   Phase = "resolve"   // writer/reader schema resolution
	PhaseEncode    Phase = "encode"    // value encoding
	PhaseDecode    Phase = "decode"    // value decoding
	PhaseStream    Phase = "stream"    // byte source/sink operations
	PhaseContainer Phase = "container" // object container file framing
)

// Kind categorizes the error
type Kind string

const (
	KindGrammarViolation   Kind = "grammar_violation"
	KindIncompatibleSchema Kind = "incompatible_schema"
	KindRange              Kind = "range"
	KindIO                 Kind = "io"
	KindDuplicateName      Kind = "duplicate_name"
	KindDanglingSymbol     Kind = "dangling_symbol"
	KindInvalidData        Kind = "invalid_data"
	KindUnknownType        Kind = "unknown_type"
	KindUnsupported        Kind = "unsupported"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Writer string // writer schema name, when resolution is involved
	Reader string // reader schema name, when resolution is involved
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Writer != "" || e.Reader != "" {
		b.WriteString(": ")
		if e.Writer != "" && e.Reader != "" {
			b.WriteString("writer ")
			b.WriteString(e.Writer)
			b.WriteString(", reader ")
			b.WriteString(e.Reader)
		} else if e.Writer != "" {
			b.WriteString("writer ")
			b.WriteString(e.Writer)
		} else {
			b.WriteString("reader ")
			b.WriteString(e.Reader)
		}
	}

	if e.Detail != "" {
		if e.Writer != "" || e.Reader != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Writer sets the writer schema name
func (b *Builder) Writer(name string) *Builder {
	b.err.Writer = name
	return b
}

// Reader sets the reader schema name
func (b *Builder) Reader(name string) *Builder {
	b.err.Reader = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// GrammarViolation reports a call sequence that does not match the schema
// grammar: the caller asked for expected where the grammar holds actual.
func GrammarViolation(phase Phase, expected, actual string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindGrammarViolation,
		Detail: fmt.Sprintf("expected %s, found %s", expected, actual),
	}
}

// Incompatible reports that a writer schema cannot be resolved against a
// reader schema.
func Incompatible(writer, reader string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindIncompatibleSchema,
		Writer: writer,
		Reader: reader,
	}
}

// Range reports a numeric value out of range for its target type.
func Range(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRange,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// IO wraps a byte source/sink failure.
func IO(phase Phase, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// DuplicateName reports a repeated field or symbol name during schema
// construction.
func DuplicateName(path []string, name string) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindDuplicateName,
		Path:   path,
		Detail: fmt.Sprintf("duplicate name %q", name),
	}
}

// DanglingSymbol reports dereferencing a symbolic schema node whose
// target has been dropped.
func DanglingSymbol(name string) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindDanglingSymbol,
		Detail: fmt.Sprintf("symbolic reference %q has no live target", name),
	}
}

// InvalidData reports malformed input data or schema text.
func InvalidData(phase Phase, path []string, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// UnknownType reports a reference to an undeclared type name.
func UnknownType(name string) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindUnknownType,
		Detail: fmt.Sprintf("unknown type %q", name),
	}
}

// Unsupported reports an unsupported operation or construct.
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}
