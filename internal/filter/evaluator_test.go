package filter

import (
	"testing"

	"github.com/chis/semfilter/internal/query"
)

func mustParse(t *testing.T, q string) *query.Query {
	t.Helper()
	tree, err := query.Parse(q)
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", q, err)
	}
	return tree
}

// Scenario 1: date equality, true.
func TestScenarioDateEqualityTrue(t *testing.T) {
	tree := mustParse(t, `date(0) == 1970-07-31`)
	got, err := Evaluate(tree, []string{"1970-07-31"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true")
	}
}

// Scenario 2: date equality, false.
func TestScenarioDateEqualityFalse(t *testing.T) {
	tree := mustParse(t, `date(0) == 1900-01-01`)
	got, err := Evaluate(tree, []string{"1970-07-31"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected false")
	}
}

// Scenario 3: out-of-range index is false, not an error.
func TestScenarioOutOfRangeIndex(t *testing.T) {
	tree := mustParse(t, `date(9) == 1900-01-01`)
	fields := []string{"1970-07-31", "1900-01-01", "42", "test"}
	got, err := Evaluate(tree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected false for out-of-range index")
	}
}

// Scenario 4: wildcard is exists, not for-all.
func TestScenarioWildcardExists(t *testing.T) {
	tree := mustParse(t, `date(*) == 1970-07-31`)
	fields := []string{"1970-07-31", "1970-07-31", "test"}
	got, err := Evaluate(tree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true: at least one field matches")
	}
}

// Scenario 5: string list membership, both directions.
func TestScenarioStringMembership(t *testing.T) {
	fields := []string{"test"}

	inTree := mustParse(t, `string(*) in [this, is, a, test]`)
	got, err := Evaluate(inTree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true for `in`")
	}

	notInTree := mustParse(t, `string(*) !in [this, is, a, test]`)
	got, err = Evaluate(notInTree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected false for `!in`")
	}
}

// Scenario 6: custom date format succeeds, and a field that fails an
// explicit %Y-%m-%d format is an error.
func TestScenarioCustomDateFormat(t *testing.T) {
	fields := []string{"1970/07/31"}

	ok := mustParse(t, `date(0, %Y/%m/%d) == 1970/07/31`)
	got, err := Evaluate(ok, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true with matching format")
	}

	bad := mustParse(t, `date(0, %Y-%m-%d) == 1970/07/31`)
	if _, err := Evaluate(bad, fields, nil); err == nil {
		t.Fatal("expected an error when the field fails the explicit format")
	}
}

// The explicit-format error above applies only to the numeric-index
// path: a wildcard scan must keep skipping non-conforming fields rather
// than abort the line.
func TestScenarioWildcardExplicitFormatSkipsNonConformingFields(t *testing.T) {
	tree := mustParse(t, `date(*, %Y-%m-%d) == 2020-01-01`)
	fields := []string{"ERROR", "foo", "2020-01-01"}
	got, err := Evaluate(tree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true: the later matching field is reached despite earlier fields failing the explicit format")
	}
}

// Scenario 7: now() inside a list membership.
func TestScenarioNowInList(t *testing.T) {
	tree := mustParse(t, `date(0) in [1970-07-31, now()]`)
	got, err := Evaluate(tree, []string{"1970-07-31"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true: the first list element matches regardless of now()")
	}
}

// Scenario 8: left-associative, single-precedence boolean fold.
func TestScenarioLeftAssociativeFold(t *testing.T) {
	tree := mustParse(t, `date(0)==1970-07-31 && date(0)==1970-07-30 || date(0)==1970-07-30`)
	got, err := Evaluate(tree, []string{"1970-07-31"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected false under left-associative evaluation")
	}
}

func TestMatchRestrictedToString(t *testing.T) {
	tree := mustParse(t, `integer(0) match ^4`)
	if _, err := Evaluate(tree, []string{"42"}, nil); err == nil {
		t.Fatal("expected an error for match against a non-string field")
	}
}

func TestMatchOnString(t *testing.T) {
	tree := mustParse(t, `string(0) match ^foo`)
	got, err := Evaluate(tree, []string{"foobar"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true")
	}
}

func TestListMembershipEquivalentToOrChain(t *testing.T) {
	fields := []string{"b"}
	membership := mustParse(t, `string(0) in [a, b, c]`)
	orChain := mustParse(t, `string(0)==a || string(0)==b || string(0)==c`)

	m, err := Evaluate(membership, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o, err := Evaluate(orChain, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != o {
		t.Errorf("membership = %v, or-chain = %v, want equal", m, o)
	}
}

func TestNonValidatingConstructionFailureIsMissNotError(t *testing.T) {
	tree := mustParse(t, `ipv4(0) == 10.0.0.1`)
	got, err := Evaluate(tree, []string{"not-an-ip"}, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got {
		t.Error("expected false")
	}
}

func TestWildcardExistsRestrictsToParseableFields(t *testing.T) {
	tree := mustParse(t, `integer(*) == 42`)
	fields := []string{"not-a-number", "42", "also-not"}
	got, err := Evaluate(tree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected true: the one parseable field equals 42")
	}
}

func TestEvaluatorPurityWithoutNow(t *testing.T) {
	tree := mustParse(t, `number(0) >= 3.0 && number(0) <= 4.0`)
	fields := []string{"3.14"}
	a, err := Evaluate(tree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Evaluate(tree, fields, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Error("expected repeated evaluation of the same tree/fields to agree")
	}
}
