package lockfile

import (
	"maps"
	"slices"
)

// Accumulator collects flat records across a tree walk. A package can be
// installed at several paths and versions; each identity owns its own
// bucket and merging into one never touches another.
//
// The zero value is not usable; use [NewAccumulator].
type Accumulator struct {
	records     map[Identity]*FlatRecord
	descriptors map[Identity]map[string]struct{}
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		records:     make(map[Identity]*FlatRecord),
		descriptors: make(map[Identity]map[string]struct{}),
	}
}

// Merge folds rec into the bucket for id. Non-empty scalar fields of rec
// override the stored ones; dependency maps merge key by key with rec's
// ranges winning. Empty fields of rec never erase stored data.
func (a *Accumulator) Merge(id Identity, rec FlatRecord) {
	cur, ok := a.records[id]
	if !ok {
		r := rec.clone()
		r.Dependencies = nonEmpty(r.Dependencies)
		r.OptionalDependencies = nonEmpty(r.OptionalDependencies)
		a.records[id] = &r
		return
	}
	if rec.Version != "" {
		cur.Version = rec.Version
	}
	if rec.Resolved != "" {
		cur.Resolved = rec.Resolved
	}
	if rec.Integrity != "" {
		cur.Integrity = rec.Integrity
	}
	cur.Dependencies = mergeRanges(cur.Dependencies, rec.Dependencies)
	cur.OptionalDependencies = mergeRanges(cur.OptionalDependencies, rec.OptionalDependencies)
}

func mergeRanges(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// AddDescriptor records that a dependent asked for id through rng.
// Descriptors for identities that are never merged are dropped.
func (a *Accumulator) AddDescriptor(id Identity, rng string) {
	set, ok := a.descriptors[id]
	if !ok {
		set = make(map[string]struct{})
		a.descriptors[id] = set
	}
	set[rng] = struct{}{}
}

// Get returns a copy of the record merged for id.
func (a *Accumulator) Get(id Identity) (FlatRecord, bool) {
	r, ok := a.records[id]
	if !ok {
		return FlatRecord{}, false
	}
	return r.clone(), true
}

// Len returns the number of identities merged so far.
func (a *Accumulator) Len() int {
	return len(a.records)
}

// Identities returns the merged identities ordered by name and version.
func (a *Accumulator) Identities() []Identity {
	return slices.SortedFunc(maps.Keys(a.records), compareIdentities)
}

// Table renders the accumulated records as a flat table ordered by
// identity. A descriptor already claimed by a lower identity is not
// reused, since a flat key can alias only one entry. Identities left
// without descriptors are keyed by their exact version.
func (a *Accumulator) Table() *FlatTable {
	t := NewFlatTable()
	claimed := make(map[Descriptor]bool)
	for _, id := range a.Identities() {
		var descs []Descriptor
		for _, rng := range slices.Sorted(maps.Keys(a.descriptors[id])) {
			d := Descriptor{Name: id.Name, Range: rng}
			if claimed[d] {
				continue
			}
			claimed[d] = true
			descs = append(descs, d)
		}
		if len(descs) == 0 {
			d := Descriptor{Name: id.Name, Range: id.Version}
			claimed[d] = true
			descs = append(descs, d)
		}
		t.Add(descs, *a.records[id])
	}
	return t
}
