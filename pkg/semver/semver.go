// Package semver matches installed versions against npm-style ranges.
//
// It is a thin wrapper around github.com/Masterminds/semver/v3, which
// understands the range syntax found in package.json and yarn.lock
// descriptors (^, ~, x-ranges, hyphen ranges, || unions).
//
// Descriptors that are not semver ranges at all (dist-tags such as
// "latest", git URLs, file: paths) never satisfy anything here; callers
// fall back to exact version comparison for those.
package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
type Version struct {
	v *mm.Version
}

// Constraint is a semantic version range.
//
// Examples:
// - ">=1.2.0 <2.0.0"
// - "^1.0.0"
// - "~1.4"
// - "1.x || 2.x"
type Constraint struct {
	c *mm.Constraints
}

// ParseVersion parses an exact version such as "4.17.21" or "v1.0.0-beta.1".
func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// ParseConstraint parses an npm range. An empty range and "latest" mean
// any version, matching how npm treats a bare dependency name.
func ParseConstraint(raw string) (Constraint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "latest" {
		raw = "*"
	}
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w", raw, err)
	}
	return Constraint{c: c}, nil
}

// Satisfies reports whether v lies inside c.
func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// SatisfiesRange parses both sides and reports whether version satisfies
// rng. Unparseable input on either side reports false.
func SatisfiesRange(version, rng string) bool {
	v, err := ParseVersion(version)
	if err != nil {
		return false
	}
	c, err := ParseConstraint(rng)
	if err != nil {
		return false
	}
	return Satisfies(v, c)
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// CompareStrings orders two version strings. Valid versions sort before
// invalid ones; two invalid versions sort lexically.
func CompareStrings(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	switch {
	case errA == nil && errB == nil:
		return Compare(va, vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
