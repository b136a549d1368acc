// Package errors provides structured error types for the avro library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type includes rich context: field path,
// writer/reader schema names, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindGrammarViolation).
//		Path("point", "x").
//		Detail("expected long, called DecodeString").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.GrammarViolation(errors.PhaseEncode, "string", "long")
//	err := errors.DuplicateName(nil, "x")
//
// All errors implement the standard error interface and support
// errors.Is/As. Two *Error values match under Is when their Phase and
// Kind are equal, so callers can classify failures:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhaseDecode,
//		Kind: errors.KindGrammarViolation}) { ... }
package errors
