package token

import "regexp"

// Kind identifies which typed variant a Token holds. The zero value is not
// a valid kind; always construct a Token through New or Copy.
type Kind int

const (
	// KindUnknown marks a Token that failed to parse as anything useful.
	KindUnknown Kind = iota
	KindString
	KindInteger
	KindNumber
	KindEmail
	KindDate
	KindIpv4
	KindIpv6
	KindSemVer
)

// String returns the canonical type name used in queries (e.g. "date").
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindEmail:
		return "email"
	case KindDate:
		return "date"
	case KindIpv4:
		return "ipv4"
	case KindIpv6:
		return "ipv6"
	case KindSemVer:
		return "semver"
	default:
		return "unknown"
	}
}

// kindByName maps a query's type_term text to a Kind.
var kindByName = map[string]Kind{
	"string":  KindString,
	"integer": KindInteger,
	"number":  KindNumber,
	"email":   KindEmail,
	"date":    KindDate,
	"ipv4":    KindIpv4,
	"ipv6":    KindIpv6,
	"semver":  KindSemVer,
}

// ParseKind resolves a query type_term to a Kind. ok is false for any name
// outside the built-in set (spec.md Non-goals: no user-defined types).
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Acceptance regexes, exact per spec.md §4.1. Validating construction
// (New(..., validate=true)) rejects any string that does not match its
// variant's regex.
var (
	dateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailRegex   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	ipv4Regex    = regexp.MustCompile(`^(?:[0-9]{1,3}\.){3}[0-9]{1,3}$`)
	ipv6Regex    = regexp.MustCompile(`^(([0-9a-fA-F]{0,4}:){1,7}[0-9a-fA-F]{0,4})$`)
	numberRegex  = regexp.MustCompile(`^\d+\.(\d{1,2})+$`)
	integerRegex = regexp.MustCompile(`^\d+$`)
	semverRegex  = regexp.MustCompile(`^(0|\d*)\.(0|\d*)\.(0|\d*)(\-\w+(\.\w+)*)?(\+\w+(\.\w+)*)?$`)
)

// acceptanceRegex returns the regex that validates raw strings for kind k,
// or nil if the variant has no acceptance regex (string accepts anything).
func acceptanceRegex(k Kind) *regexp.Regexp {
	switch k {
	case KindDate:
		return dateRegex
	case KindEmail:
		return emailRegex
	case KindIpv4:
		return ipv4Regex
	case KindIpv6:
		return ipv6Regex
	case KindNumber:
		return numberRegex
	case KindInteger:
		return integerRegex
	case KindSemVer:
		return semverRegex
	default:
		return nil
	}
}
