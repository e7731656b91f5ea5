package lockfile

// LockedPackage is one install path of a nested lockfile, flattened.
type LockedPackage struct {
	Path      string
	Name      string
	Version   string // exact version, or a "github:owner/repo#ref" spec
	Resolved  string
	Integrity string
	Dev       bool
	Optional  bool
}

// Identity returns the package's name and version.
func (p *LockedPackage) Identity() Identity {
	return Identity{Name: p.Name, Version: p.Version}
}

// NestedIndex is a flattened nested lockfile: every install path, looked
// up by identity. It is built once per conversion by the lockfile reader.
type NestedIndex struct {
	packages []*LockedPackage
	byID     map[Identity]*LockedPackage
	byName   map[string][]*LockedPackage
}

// NewNestedIndex creates an empty index.
func NewNestedIndex() *NestedIndex {
	return &NestedIndex{
		byID:   make(map[Identity]*LockedPackage),
		byName: make(map[string][]*LockedPackage),
	}
}

// Add records p. The first package added for an identity is the one
// [NestedIndex.Find] returns.
func (x *NestedIndex) Add(p *LockedPackage) {
	x.packages = append(x.packages, p)
	if _, ok := x.byID[p.Identity()]; !ok {
		x.byID[p.Identity()] = p
	}
	x.byName[p.Name] = append(x.byName[p.Name], p)
}

// Packages returns every indexed install path in insertion order.
func (x *NestedIndex) Packages() []*LockedPackage {
	return x.packages
}

// Len returns the number of indexed install paths.
func (x *NestedIndex) Len() int {
	return len(x.packages)
}

// Find returns the locked package for id. Git-hosted packages are locked
// under a "github:" version while their installed package.json carries a
// semantic version, so when no exact match exists the first same-name
// package locked by VCS spec is returned.
func (x *NestedIndex) Find(id Identity) (*LockedPackage, bool) {
	if p, ok := x.byID[id]; ok {
		return p, true
	}
	for _, p := range x.byName[id.Name] {
		if IsVCSVersion(p.Version) {
			return p, true
		}
	}
	return nil, false
}
