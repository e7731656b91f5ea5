package lockfile

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/semver"
)

// Identity uniquely identifies one resolved package instance.
type Identity struct {
	Name    string
	Version string
}

// String renders the identity as "name@version".
func (id Identity) String() string {
	return id.Name + "@" + id.Version
}

// compareIdentities orders by name, then by semantic version.
func compareIdentities(a, b Identity) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return semver.CompareStrings(a.Version, b.Version)
}

// Descriptor is one "name@range" alias of a flat lock entry.
type Descriptor struct {
	Name  string
	Range string
}

// ParseDescriptor splits "name@range". Scoped names keep their leading
// "@" ("@babel/core@^7.0.0" has name "@babel/core").
func ParseDescriptor(raw string) (Descriptor, error) {
	raw = strings.TrimSpace(raw)
	at := strings.LastIndex(raw, "@")
	if at <= 0 {
		return Descriptor{}, errs.New(errs.ErrCodeInvalidLockfile, "invalid descriptor %q: missing @range", raw)
	}
	// "name@npm:other@^1" aliases keep everything after the first
	// separator as the range.
	if first := strings.Index(raw[1:], "@") + 1; first > 0 && first < at {
		at = first
	}
	d := Descriptor{Name: raw[:at], Range: raw[at+1:]}
	if d.Name == "" || d.Name == "@" {
		return Descriptor{}, errs.New(errs.ErrCodeInvalidLockfile, "invalid descriptor %q: empty name", raw)
	}
	return d, nil
}

// String renders the descriptor as "name@range".
func (d Descriptor) String() string {
	return d.Name + "@" + d.Range
}

// nonEmpty returns a copy of m, or nil when m has no entries.
func nonEmpty(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
