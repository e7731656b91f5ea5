package lockfile

import (
	"maps"
	"strings"

	"github.com/matzehuels/lockbridge/pkg/semver"
)

// FlatRecord is the body of one flat lock entry.
type FlatRecord struct {
	Version              string
	Resolved             string
	Integrity            string
	Dependencies         map[string]string // name -> declared range
	OptionalDependencies map[string]string // name -> declared range
}

// clone returns a deep copy of r.
func (r FlatRecord) clone() FlatRecord {
	r.Dependencies = maps.Clone(r.Dependencies)
	r.OptionalDependencies = maps.Clone(r.OptionalDependencies)
	return r
}

// FlatEntry is one physical flat lock entry and the descriptors aliasing it.
type FlatEntry struct {
	Descriptors []Descriptor
	Record      *FlatRecord
}

// Key renders the comma-joined lock key ("a@^1.0.0, a@^1.1.0").
func (e *FlatEntry) Key() string {
	parts := make([]string, len(e.Descriptors))
	for i, d := range e.Descriptors {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

// Name returns the package name shared by the entry's descriptors.
func (e *FlatEntry) Name() string {
	if len(e.Descriptors) == 0 {
		return ""
	}
	return e.Descriptors[0].Name
}

// Identity returns the entry's resolved identity.
func (e *FlatEntry) Identity() Identity {
	return Identity{Name: e.Name(), Version: e.Record.Version}
}

func (e *FlatEntry) hasName(name string) bool {
	for _, d := range e.Descriptors {
		if d.Name == name {
			return true
		}
	}
	return false
}

// FlatTable is an ordered flat lock: entries keep the order in which they
// were added, which is the iteration order every lookup uses.
//
// The zero value is not usable; use [NewFlatTable].
type FlatTable struct {
	entries      []*FlatEntry
	byDescriptor map[string]*FlatEntry
}

// NewFlatTable creates an empty table.
func NewFlatTable() *FlatTable {
	return &FlatTable{byDescriptor: make(map[string]*FlatEntry)}
}

// Add appends an entry aliased by descs. A descriptor already owned by an
// earlier entry keeps pointing at that entry.
func (t *FlatTable) Add(descs []Descriptor, rec FlatRecord) *FlatEntry {
	r := rec.clone()
	e := &FlatEntry{Descriptors: append([]Descriptor(nil), descs...), Record: &r}
	t.entries = append(t.entries, e)
	for _, d := range descs {
		if _, ok := t.byDescriptor[d.String()]; !ok {
			t.byDescriptor[d.String()] = e
		}
	}
	return e
}

// Entries returns the entries in table order.
func (t *FlatTable) Entries() []*FlatEntry {
	return t.entries
}

// Len returns the number of physical entries.
func (t *FlatTable) Len() int {
	return len(t.entries)
}

// Lookup returns the entry aliased by the exact descriptor string.
func (t *FlatTable) Lookup(descriptor string) (*FlatEntry, bool) {
	e, ok := t.byDescriptor[descriptor]
	return e, ok
}

// LookupDescriptor finds the entry a dependency declared as name@rng
// resolves to. The exact alias wins; otherwise the first entry for name
// whose version satisfies rng, or whose version equals rng verbatim.
func (t *FlatTable) LookupDescriptor(name, rng string) (*FlatEntry, bool) {
	if e, ok := t.byDescriptor[Descriptor{Name: name, Range: rng}.String()]; ok {
		return e, true
	}
	for _, e := range t.entries {
		if !e.hasName(name) {
			continue
		}
		if e.Record.Version == rng || semver.SatisfiesRange(e.Record.Version, rng) {
			return e, true
		}
	}
	return nil, false
}
