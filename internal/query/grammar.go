// Package query implements the grammar of spec.md §4.2/§6.2: a small
// language over typed field-accessors, comparison and membership
// operators, list literals, and single-precedence left-associative
// boolean composition. It is grounded on the jaqx0r-filterexpression
// reference parser — a participle grammar expressed as a tree of tagged
// structs over a simple lexer, with enum fields populated by Capture
// methods rather than hand-rolled recursive descent.
package query

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Query is the root of a parsed expression. It is built once per process
// run and never mutated afterward; evaluation re-walks it per line.
type Query struct {
	Pos lexer.Position

	Expr *Expr `@@`
}

// Expr is a left-associative, single-precedence fold of Terms under "&&"
// and "||" (spec.md §4.2: "an implementation must not silently
// reintroduce C-style &&-binds-tighter precedence").
type Expr struct {
	Pos lexer.Position

	Left *Term     `@@`
	Ops  []*OpTerm `@@*`
}

// OpTerm is one ("&&"|"||") Term pair folded onto the running result.
type OpTerm struct {
	Pos lexer.Position

	Op   BoolOp `@("&&" | "||")`
	Term *Term  `@@`
}

// BoolOp distinguishes "&&" from "||" within an Expr's fold.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
)

func (b *BoolOp) Capture(s []string) error {
	if s[0] == "||" {
		*b = BoolOr
	} else {
		*b = BoolAnd
	}
	return nil
}

// Term is either a leaf (simple_expr or contains_expr) or a parenthesized
// sub-expression.
type Term struct {
	Pos lexer.Position

	Leaf *Leaf `  @@`
	Sub  *Expr `| "(" @@ ")"`
}

// Leaf is a type_expr followed by either a simple comparison or a
// membership test against a list.
type Leaf struct {
	Pos lexer.Position

	Type     TypeExpr      `@@`
	Simple   *SimpleTail   `(  @@`
	Contains *ContainsTail ` | @@ )`
}

// SimpleTail is the "op value" half of a simple_expr.
type SimpleTail struct {
	Pos lexer.Position

	Op    Comparator `@("==" | "!=" | "<=" | ">=" | "<" | ">" | "match")`
	Value Value      `@@`
}

// ContainsTail is the "(in|!in) [list]" half of a contains_expr.
type ContainsTail struct {
	Pos lexer.Position

	Op   MembershipOp `@("!in" | "in")`
	List []Value      `"[" @@ ("," @@)* "]"`
}

// TypeExpr is a field accessor: type_name(index_or_star[, format]).
type TypeExpr struct {
	Pos lexer.Position

	TypeName string   `@("date" | "string" | "integer" | "number" | "email" | "ipv4" | "ipv6" | "semver")`
	Index    IndexArg `"(" @@`
	Format   *string  `("," @Bare)? ")"`
}

// IndexArg is either a numeric index or the "*" wildcard.
type IndexArg struct {
	Pos lexer.Position

	Star bool `@"*"`
	N    int  `| @Bare`
}

// Value is a bare RHS literal, e.g. 1970-07-31, foo, 3.14, or the
// reserved "now()" literal. now() is recognized as three tokens ("now"
// "(" ")") rather than given its own lexer rule, so it falls out of the
// same Bare-token machinery as every other literal.
type Value struct {
	Pos lexer.Position

	Now  bool   `(  @"now" "(" ")"`
	Text string `  | @Bare )`
}

// Literal renders the value's source text, as it would have appeared in
// the query string (used by the evaluator when coercing the literal to a
// field's type).
func (v Value) Literal() string {
	if v.Now {
		return "now()"
	}
	return v.Text
}

// Comparator is a simple_expr's operator.
type Comparator int

const (
	CompEquals Comparator = iota
	CompNotEquals
	CompLessEquals
	CompGreaterEquals
	CompLessThan
	CompGreaterThan
	CompMatch
)

var comparatorByToken = map[string]Comparator{
	"==":    CompEquals,
	"!=":    CompNotEquals,
	"<=":    CompLessEquals,
	">=":    CompGreaterEquals,
	"<":     CompLessThan,
	">":     CompGreaterThan,
	"match": CompMatch,
}

func (c *Comparator) Capture(s []string) error {
	*c = comparatorByToken[s[0]]
	return nil
}

// MembershipOp is a contains_expr's operator.
type MembershipOp int

const (
	MembershipIn MembershipOp = iota
	MembershipNotIn
)

func (m *MembershipOp) Capture(s []string) error {
	if s[0] == "!in" {
		*m = MembershipNotIn
	} else {
		*m = MembershipIn
	}
	return nil
}

// lexerRules tokenizes a query string. Operators is tried before Bare so
// that operator characters are recognized at their correct boundary
// instead of being swallowed into an adjacent bare literal; Bare's
// character class excludes the operator-leading runes for the same
// reason (a greedy Bare match that started before an operator would
// otherwise run straight through it).
var lexerRules = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Operators", Pattern: `==|!=|<=|>=|!in|&&|\|\||<|>`},
	{Name: "Punct", Pattern: `[()\[\],]`},
	{Name: "Bare", Pattern: `[^\s()\[\],=!<>&|]+`},
})
