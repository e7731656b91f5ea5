package lockfile

import (
	"github.com/matzehuels/lockbridge/pkg/semver"
)

// FindInFlat locates the flat entry for an installed name@version.
//
// An entry whose record version equals version wins. Failing that, the
// first entry (in table order) with a descriptor for name whose range
// version satisfies is returned. When several entries qualify the first
// one wins; no semver precedence is applied.
//
// A miss is not an error: the package is bundled inside its parent and
// has no entry of its own.
func FindInFlat(name, version string, table *FlatTable) (*FlatEntry, bool) {
	for _, e := range table.entries {
		if e.Record.Version == version && e.hasName(name) {
			return e, true
		}
	}

	v, err := semver.ParseVersion(version)
	if err != nil {
		return nil, false
	}
	for _, e := range table.entries {
		for _, d := range e.Descriptors {
			if d.Name != name {
				continue
			}
			c, err := semver.ParseConstraint(d.Range)
			if err != nil {
				continue
			}
			if semver.Satisfies(v, c) {
				return e, true
			}
		}
	}
	return nil, false
}

// FindInNested locates the nested-lock package for id. It is the
// counterpart of [FindInFlat] for the opposite direction.
func FindInNested(id Identity, index *NestedIndex) (*LockedPackage, bool) {
	return index.Find(id)
}
