package token

import (
	"fmt"
	"strconv"
	"strings"
)

// semVer is a parsed semver token value. It is adapted from the teacher
// repo's internal/version package (Version + Comparator): the same
// Major/Minor/Patch/Prerelease/Build shape and the same major→minor→
// patch→prerelease comparison cascade, repurposed from "compare two Docker
// image tags" to "compare two query-literal semver tokens". Unlike the
// teacher's extractor, which tolerates free-form Docker tags, parsing here
// is anchored to spec.md's acceptance regex, which — unlike a strict
// semver library — allows empty numeric components (e.g. "1..0").
type semVer struct {
	Major, Minor, Patch int
	Prerelease          string
	Build               string
}

// parseSemVer parses a string against semverRegex; a string that does not
// match is an error in either construction mode. Numeric components that
// are empty (the regex's "(0|\d*)" leniency) or too large for an int
// become 0.
func parseSemVer(value string) (semVer, error) {
	m := semverRegex.FindStringSubmatch(value)
	if m == nil {
		return semVer{}, fmt.Errorf("value %q is not a valid semver", value)
	}

	major := atoiOrZero(m[1])
	minor := atoiOrZero(m[2])
	patch := atoiOrZero(m[3])

	prerelease := strings.TrimPrefix(m[4], "-")
	build := strings.TrimPrefix(m[6], "+")

	return semVer{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: prerelease,
		Build:      build,
	}, nil
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (v semVer) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// compareSemVer mirrors the teacher's Comparator.Compare: major, then
// minor, then patch, then prerelease (a release outranks any prerelease;
// two prereleases compare lexically — build metadata is never significant
// for ordering, per semver precedence rules the teacher already followed).
func compareSemVer(a, b semVer) int {
	if a.Major != b.Major {
		return cmpInt(a.Major, b.Major)
	}
	if a.Minor != b.Minor {
		return cmpInt(a.Minor, b.Minor)
	}
	if a.Patch != b.Patch {
		return cmpInt(a.Patch, b.Patch)
	}
	if a.Prerelease != b.Prerelease {
		if a.Prerelease == "" {
			return 1
		}
		if b.Prerelease == "" {
			return -1
		}
		return strings.Compare(a.Prerelease, b.Prerelease)
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
