package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{
			New(PhaseDecode, KindGrammarViolation).Detail("expected long, found string").Build(),
			"[decode] grammar_violation: expected long, found string",
		},
		{
			New(PhaseSchema, KindDuplicateName).Path("R", "f").Detail(`duplicate name "f"`).Build(),
			`[schema] duplicate_name at R.f: duplicate name "f"`,
		},
		{
			Incompatible("W", "R"),
			"[resolve] incompatible_schema: writer W, reader R",
		},
		{
			New(PhaseResolve, KindIncompatibleSchema).Writer("W").Detail("no branch").Build(),
			"[resolve] incompatible_schema: writer W - no branch",
		},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestErrorCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := IO(PhaseStream, cause, "read")
	if !stderrors.Is(err, cause) {
		t.Fatal("cause should be reachable through Unwrap")
	}
	if got := err.Error(); got != "[stream] io: read (caused by: disk on fire)" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestIsMatchesPhaseAndKind(t *testing.T) {
	err := GrammarViolation(PhaseEncode, "string", "long")
	if !stderrors.Is(err, &Error{Phase: PhaseEncode, Kind: KindGrammarViolation}) {
		t.Fatal("same phase and kind should match")
	}
	if stderrors.Is(err, &Error{Phase: PhaseDecode, Kind: KindGrammarViolation}) {
		t.Fatal("different phase should not match")
	}
}

func TestEOFCausePassesThrough(t *testing.T) {
	err := IO(PhaseStream, io.EOF, "unexpected end of stream")
	if !stderrors.Is(err, io.EOF) {
		t.Fatal("io.EOF should be reachable")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := DuplicateName([]string{"R"}, "x"); e.Kind != KindDuplicateName || e.Phase != PhaseSchema {
		t.Fatalf("DuplicateName = %+v", e)
	}
	if e := DanglingSymbol("a.B"); e.Kind != KindDanglingSymbol {
		t.Fatalf("DanglingSymbol = %+v", e)
	}
	if e := Range(PhaseDecode, "value %d", 5); e.Detail != "value 5" {
		t.Fatalf("Range detail = %q", e.Detail)
	}
	if e := UnknownType("X"); e.Kind != KindUnknownType {
		t.Fatalf("UnknownType = %+v", e)
	}
}
