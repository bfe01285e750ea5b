// Package token implements the typed token model of spec.md §3.1/§4.1: a
// tagged value representing one field of one line, interpreted as one of a
// fixed set of semantic types, with construction, accessors, regex
// matching, and total ordering within a variant.
package token

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"time"
)

// Token is a tagged value. The zero Token is not meaningful; always obtain
// one from New or Copy.
type Token struct {
	kind   Kind
	str    string    // String/Email variant payload, and the raw display text
	i      uint64    // Integer variant payload
	f      float64   // Number variant payload
	t      time.Time // Date variant payload
	format string    // Date variant format (strftime-style)
	ip     net.IP    // Ipv4/Ipv6 variant payload
	sem    semVer     // SemVer variant payload
}

// New constructs a Token of the given type_term, parsing value (and, for
// dates, format — nil means the default "%Y-%m-%d"). For every variant
// except date, validate=true rejects strings that do not match the
// type's acceptance regex, and validate=false still requires the string
// to be interpretable as the type (spec.md §4.1: the regex is their only
// parse mechanism, so it gates both modes). date ignores validate
// entirely: its gate is always the format-parse step against the
// supplied or default format, never dateRegex.
func New(typeName, value string, format *string, validate bool) (Token, error) {
	kind, ok := ParseKind(typeName)
	if !ok {
		return Token{}, fmt.Errorf("type %q not supported", typeName)
	}

	switch kind {
	case KindDate:
		f := defaultDateFormat
		if format != nil && *format != "" {
			f = *format
		}
		return newDateToken(value, f)

	case KindString:
		return Token{kind: KindString, str: value}, nil

	case KindEmail:
		if err := requireMatch(kind, value, validate); err != nil {
			return Token{}, err
		}
		return Token{kind: KindEmail, str: value}, nil

	case KindIpv4, KindIpv6:
		if err := requireMatch(kind, value, validate); err != nil {
			return Token{}, err
		}
		ip := net.ParseIP(value)
		if ip == nil {
			return Token{}, fmt.Errorf("value %q is not a valid %s address", value, kind)
		}
		return Token{kind: kind, str: value, ip: ip}, nil

	case KindNumber:
		if err := requireMatch(kind, value, validate); err != nil {
			return Token{}, err
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Token{}, fmt.Errorf("value %q is not a valid number: %w", value, err)
		}
		return Token{kind: KindNumber, str: value, f: f}, nil

	case KindInteger:
		if err := requireMatch(kind, value, validate); err != nil {
			return Token{}, err
		}
		i, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return Token{}, fmt.Errorf("value %q is not a valid integer: %w", value, err)
		}
		return Token{kind: KindInteger, str: value, i: i}, nil

	case KindSemVer:
		if err := requireMatch(kind, value, validate); err != nil {
			return Token{}, err
		}
		sv, err := parseSemVer(value)
		if err != nil {
			return Token{}, err
		}
		return Token{kind: KindSemVer, str: value, sem: sv}, nil

	default:
		return Token{}, fmt.Errorf("type %q not supported", typeName)
	}
}

// requireMatch enforces the acceptance regex for kind against value. It is
// applied regardless of validate for the six non-date, non-string variants
// (see New's doc comment); validate is accepted for API symmetry with
// spec.md's signature and to make call sites self-documenting.
func requireMatch(kind Kind, value string, _ bool) error {
	re := acceptanceRegex(kind)
	if re == nil {
		return nil
	}
	if !re.MatchString(value) {
		return fmt.Errorf("value %q does not match the %s format", value, kind)
	}
	return nil
}

// newDateToken implements spec.md §3.1/§4.1's date construction, including
// the "now()" literal resolving to today's UTC date at construction time.
func newDateToken(value, format string) (Token, error) {
	if value == "now()" {
		return Token{kind: KindDate, t: time.Now().UTC().Truncate(24 * time.Hour), format: format}, nil
	}
	t, err := parseDateWithFormat(value, format)
	if err != nil {
		return Token{}, err
	}
	return Token{kind: KindDate, t: t, format: format}, nil
}

// Copy produces a token of the same variant as the receiver, reparsing
// newValue with validate=false. If the receiver has a format and no
// override is supplied, the receiver's format is preserved (spec.md
// §4.1). This is how the evaluator coerces an RHS query literal to the
// type of a matched field.
func (tok Token) Copy(newValue string, overrideFormat *string) (Token, error) {
	format := overrideFormat
	if format == nil {
		if f, ok := tok.GetFormat(); ok {
			format = &f
		}
	}
	return New(tok.GetType(), newValue, format, false)
}

// GetType returns the canonical type name used in queries (e.g. "date").
func (tok Token) GetType() string {
	return tok.kind.String()
}

// Kind returns the token's variant.
func (tok Token) Kind() Kind {
	return tok.kind
}

// GetFormat returns the date format string and true, for Date tokens; for
// every other variant it returns ("", false).
func (tok Token) GetFormat() (string, bool) {
	if tok.kind != KindDate {
		return "", false
	}
	return tok.format, true
}

// GetValue renders the token's parsed value as a string. For dates this is
// the value displayed under the token's stored format (the round-trip
// invariant of spec.md §3.1: New(t.GetType(), t.GetValue(), ...) recovers
// an equal token). Number is a latent exception: trailing fractional
// zeros are not preserved (3.00 renders as "3"), and numberRegex, which
// gates construction in both modes, rejects "3", so neither New nor Copy
// can rebuild such a token from its GetValue(). Evaluation itself is
// unaffected, since the RHS is always coerced from the query literal,
// never from GetValue().
func (tok Token) GetValue() string {
	switch tok.kind {
	case KindDate:
		return formatDate(tok.t, tok.format)
	case KindInteger:
		return strconv.FormatUint(tok.i, 10)
	case KindNumber:
		return strconv.FormatFloat(tok.f, 'f', -1, 64)
	case KindSemVer:
		return tok.sem.String()
	default:
		return tok.str
	}
}

// IsMatch reports whether the token's string rendering matches regexVal.
// spec.md §4.1: only meaningful for String tokens; the evaluator is the
// component that restricts `match` to string-typed fields (see
// internal/filter), not this method, which will happily match any
// variant's rendering if asked.
func (tok Token) IsMatch(regexVal string) (bool, error) {
	re, err := regexp.Compile(regexVal)
	if err != nil {
		return false, fmt.Errorf("invalid match pattern %q: %w", regexVal, err)
	}
	return re.MatchString(tok.GetValue()), nil
}

// Compare orders two tokens of the same Kind: -1, 0, 1. ok is false if the
// tokens' kinds differ — spec.md §3.1: "comparison across variants is
// undefined and must not occur at the evaluator level", so callers must
// check ok rather than relying on a cross-variant result.
func Compare(a, b Token) (result int, ok bool) {
	if a.kind != b.kind {
		return 0, false
	}
	switch a.kind {
	case KindString, KindEmail, KindIpv4, KindIpv6:
		// Ipv4/Ipv6 order by address bytes: net.IP's byte slice already
		// sorts correctly for fixed-width families once normalized to the
		// same length via To4()/To16(), which GetValue()'s string form does
		// not capture as precisely as comparing the parsed bytes directly.
		if a.kind == KindIpv4 || a.kind == KindIpv6 {
			return compareIP(a.ip, b.ip), true
		}
		return compareStrings(a.str, b.str), true
	case KindInteger:
		return cmpUint64(a.i, b.i), true
	case KindNumber:
		return cmpFloat64(a.f, b.f), true
	case KindDate:
		switch {
		case a.t.Before(b.t):
			return -1, true
		case a.t.After(b.t):
			return 1, true
		default:
			return 0, true
		}
	case KindSemVer:
		return compareSemVer(a.sem, b.sem), true
	default:
		return 0, false
	}
}

// Equal reports whether a and b are equal. It returns false (not an error)
// for cross-variant comparisons, mirroring the "undefined, must not occur"
// invariant — callers that need to detect the mismatch should use Compare.
func Equal(a, b Token) bool {
	r, ok := Compare(a, b)
	return ok && r == 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareIP(a, b net.IP) int {
	ab, bb := normalizeIP(a), normalizeIP(b)
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	for i := 0; i < n; i++ {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1
			}
			return 1
		}
	}
	return cmpInt(len(ab), len(bb))
}

func normalizeIP(ip net.IP) net.IP {
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return ip.To16()
}
