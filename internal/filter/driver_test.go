package filter

import (
	"strings"
	"testing"
)

func TestRunEmitsMatchingLinesVerbatim(t *testing.T) {
	in := strings.NewReader("1970-07-31 ok\n1900-01-01 no\n1970-07-31 also-ok\n")
	var out strings.Builder

	err := Run(in, &out, `date(0) == 1970-07-31`, ` `, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "1970-07-31 ok\n1970-07-31 also-ok\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunTrimsFieldsAfterSplit(t *testing.T) {
	in := strings.NewReader("1970-07-31 ,  test  \n")
	var out strings.Builder

	err := Run(in, &out, `string(1) == test`, `,`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() == "" {
		t.Error("expected the line to match once fields are trimmed")
	}
}

func TestRunStopsOnFirstEvaluatorError(t *testing.T) {
	in := strings.NewReader("42\nfoo\n")
	var out strings.Builder

	err := Run(in, &out, `integer(0) match ^4`, ` `, nil)
	if err == nil {
		t.Fatal("expected an error because match is invalid against integer")
	}
}

func TestRunReturnsParseErrorBeforeReadingInput(t *testing.T) {
	in := strings.NewReader("irrelevant\n")
	var out strings.Builder

	err := Run(in, &out, `date(0) ===`, ` `, nil)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if out.String() != "" {
		t.Error("expected no output when the query fails to parse")
	}
}

func TestRunZeroMatchesIsNotAnError(t *testing.T) {
	in := strings.NewReader("1900-01-01\n")
	var out strings.Builder

	err := Run(in, &out, `date(0) == 1970-07-31`, ` `, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "" {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestRunInvalidSeparatorPatternErrors(t *testing.T) {
	in := strings.NewReader("a\n")
	var out strings.Builder

	err := Run(in, &out, `string(0) == a`, `(`, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid separator regex")
	}
}
