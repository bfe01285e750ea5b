package query

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// defaultParser compiles the grammar once at package init; Parse reuses it
// for every query, matching spec.md §4.2's "parse tree is immutable and
// reusable" contract at the parser level too.
var defaultParser = participle.MustBuild[Query](
	participle.Lexer(lexerRules),
	participle.Elide("Whitespace"),
	// now() needs 3 tokens of lookahead to distinguish from a bare value
	// that merely starts with the text "now"; parenthesized sub-expressions
	// need a little more to resolve Leaf vs Sub inside nested grouping.
	participle.UseLookahead(5),
)

// Parse compiles a query string into a reusable parse tree. The returned
// *Query is read-only from the evaluator's perspective: it is safe to
// reuse across every line of input without re-parsing or cloning.
func Parse(q string) (*Query, error) {
	tree, err := defaultParser.ParseString("", q)
	if err != nil {
		return nil, fmt.Errorf("query parse error: %w", err)
	}
	return tree, nil
}
