// Package filter implements the per-line evaluator and line driver of
// spec.md §4.3/§4.4: binding positional field references in a parsed
// query to typed tokens within one line's raw fields, and the thin
// line-by-line driver that calls it. It is grounded on the Rust
// grammar.rs evaluator (the stack-climbing fold over &&/|| and the
// per-leaf index/wildcard/coercion rules) and on the teacher's own
// check.go command for the plumbing shape of "parse once, evaluate per
// input unit, log along the way".
package filter

import (
	"fmt"

	"github.com/chis/semfilter/internal/logging"
	"github.com/chis/semfilter/internal/query"
	"github.com/chis/semfilter/internal/token"
)

// Evaluate walks tree against the ordered raw string tokens of one line,
// returning the boolean verdict or the first error encountered. It is
// pure and deterministic except for any `now()` literal it coerces,
// which resolves to the moment of evaluation (spec.md §4.3, §9).
func Evaluate(tree *query.Query, fields []string, log *logging.Logger) (bool, error) {
	if log == nil {
		log = logging.Default()
	}
	return evalExpr(tree.Expr, fields, log)
}

// evalExpr folds Term results left to right under a single precedence
// level for && and ||, per spec.md §4.2: no short-circuit preference
// between the two operators, and an error on either side errors the
// whole fold.
func evalExpr(e *query.Expr, fields []string, log *logging.Logger) (bool, error) {
	result, err := evalTerm(e.Left, fields, log)
	if err != nil {
		return false, err
	}
	for _, rhs := range e.Ops {
		next, err := evalTerm(rhs.Term, fields, log)
		if err != nil {
			return false, err
		}
		switch rhs.Op {
		case query.BoolAnd:
			result = result && next
		case query.BoolOr:
			result = result || next
		}
		log.Trace("fold step: op=%v rhs=%v running=%v", rhs.Op, next, result)
	}
	return result, nil
}

func evalTerm(t *query.Term, fields []string, log *logging.Logger) (bool, error) {
	if t.Sub != nil {
		return evalExpr(t.Sub, fields, log)
	}
	return evalLeaf(t.Leaf, fields, log)
}

// evalLeaf implements the index/wildcard rule of spec.md §4.3 step 2.
func evalLeaf(leaf *query.Leaf, fields []string, log *logging.Logger) (bool, error) {
	typeName := leaf.Type.TypeName
	format := leaf.Type.Format

	if leaf.Type.Index.Star {
		// Wildcard is "exists": true as soon as one parseable field satisfies the leaf.
		for i, raw := range fields {
			fieldTok, ok := coerceFieldLenient(typeName, raw, format)
			if !ok {
				continue
			}
			matched, err := applyTail(leaf, fieldTok, log)
			if err != nil {
				return false, err
			}
			if matched {
				log.Trace("wildcard leaf satisfied by field %d", i)
				return true, nil
			}
		}
		return false, nil
	}

	n := leaf.Type.Index.N
	if n < 0 || n >= len(fields) {
		log.Trace("index %d out of range (have %d fields)", n, len(fields))
		return false, nil
	}
	fieldTok, ok, err := coerceField(typeName, fields[n], format)
	if err != nil {
		return false, err
	}
	if !ok {
		log.Trace("field %d does not parse as %s, leaf misses", n, typeName)
		return false, nil
	}
	return applyTail(leaf, fieldTok, log)
}

// coerceField attempts a non-validating construction of a field token for
// the numeric-index path. spec.md §4.3: construction failure is
// ordinarily a silent leaf miss (ok=false, err=nil) — but when the query
// supplies an explicit date format and the field fails to parse under it,
// that is reported as an error instead, per the "Leaf outcomes
// summarized" note in §4.3. Every other variant's shape check lives
// entirely in its acceptance regex, so there is no separate "explicit
// contract" to violate.
func coerceField(typeName, raw string, format *string) (token.Token, bool, error) {
	tok, err := token.New(typeName, raw, format, false)
	if err != nil {
		if typeName == "date" && format != nil {
			return token.Token{}, false, fmt.Errorf("field %q does not match explicit date format %q: %w", raw, *format, err)
		}
		return token.Token{}, false, nil
	}
	return tok, true, nil
}

// coerceFieldLenient is coerceField's wildcard-scan counterpart: every
// construction failure is a silent skip, including the date-with-
// explicit-format case. §8's exists property restricts the scan to
// fields that parse as the requested type; an explicit format narrows
// which fields qualify, it does not turn non-qualifying fields into scan
// errors.
func coerceFieldLenient(typeName, raw string, format *string) (token.Token, bool) {
	tok, err := token.New(typeName, raw, format, false)
	if err != nil {
		return token.Token{}, false
	}
	return tok, true
}

func applyTail(leaf *query.Leaf, fieldTok token.Token, log *logging.Logger) (bool, error) {
	switch {
	case leaf.Simple != nil:
		return applySimple(leaf.Simple, fieldTok, log)
	case leaf.Contains != nil:
		return applyContains(leaf.Contains, fieldTok, log)
	default:
		return false, fmt.Errorf("leaf has neither a comparison nor a membership test")
	}
}

func applySimple(tail *query.SimpleTail, fieldTok token.Token, log *logging.Logger) (bool, error) {
	if tail.Op == query.CompMatch {
		if fieldTok.Kind() != token.KindString {
			return false, fmt.Errorf("only string type is allowed for match expressions")
		}
		matched, err := fieldTok.IsMatch(tail.Value.Literal())
		if err != nil {
			return false, err
		}
		log.Trace("match %q against /%s/ => %v", fieldTok.GetValue(), tail.Value.Literal(), matched)
		return matched, nil
	}

	rhsTok, err := fieldTok.Copy(tail.Value.Literal(), nil)
	if err != nil {
		return false, fmt.Errorf("coercing %q to %s: %w", tail.Value.Literal(), fieldTok.GetType(), err)
	}
	cmp, ok := token.Compare(fieldTok, rhsTok)
	if !ok {
		return false, fmt.Errorf("cannot compare %s to %s", fieldTok.GetType(), rhsTok.GetType())
	}

	var result bool
	switch tail.Op {
	case query.CompEquals:
		result = cmp == 0
	case query.CompNotEquals:
		result = cmp != 0
	case query.CompLessThan:
		result = cmp < 0
	case query.CompLessEquals:
		result = cmp <= 0
	case query.CompGreaterThan:
		result = cmp > 0
	case query.CompGreaterEquals:
		result = cmp >= 0
	default:
		return false, fmt.Errorf("unknown comparator")
	}
	log.Trace("compare %s %v %s => %v", fieldTok.GetValue(), tail.Op, rhsTok.GetValue(), result)
	return result, nil
}

// applyContains implements list-membership (spec.md §4.3 step 3, §8's
// "list membership equivalence" property): coerce each element to the
// field's variant and test equality.
func applyContains(tail *query.ContainsTail, fieldTok token.Token, log *logging.Logger) (bool, error) {
	member := false
	for _, v := range tail.List {
		rhsTok, err := fieldTok.Copy(v.Literal(), nil)
		if err != nil {
			return false, fmt.Errorf("coercing list element %q to %s: %w", v.Literal(), fieldTok.GetType(), err)
		}
		if token.Equal(fieldTok, rhsTok) {
			member = true
			break
		}
	}

	switch tail.Op {
	case query.MembershipIn:
		log.Trace("membership %s in list => %v", fieldTok.GetValue(), member)
		return member, nil
	case query.MembershipNotIn:
		log.Trace("membership %s !in list => %v", fieldTok.GetValue(), !member)
		return !member, nil
	default:
		return false, fmt.Errorf("unknown membership operator")
	}
}
