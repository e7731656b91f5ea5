package lockfile

// NestedEntry is one install path of a nested lock.
type NestedEntry struct {
	Path         string
	Name         string
	Version      string
	Resolved     string
	Integrity    string
	Requires     map[string]string       // name -> exact version
	Dependencies map[string]*NestedEntry // packages installed beneath this one
}

// NestedLock is the result of [BuildNested].
type NestedLock struct {
	Dependencies map[string]*NestedEntry // top-level node_modules
	Bundled      []Identity              // nodes skipped for lack of a flat counterpart
}

// Len returns the number of entries in the lock, nested ones included.
func (l *NestedLock) Len() int {
	return countEntries(l.Dependencies)
}

func countEntries(m map[string]*NestedEntry) int {
	n := len(m)
	for _, e := range m {
		n += countEntries(e.Dependencies)
	}
	return n
}

// BuildNested assembles a nested lock from an installed tree and the flat
// lock it was installed from, one entry per install path.
//
// Every installed node is looked up in flat. Nodes without a counterpart
// are bundled and skipped along with their subtree. For the others the
// flat resolved URL is re-encoded with codec, and the node's declared
// dependencies are pinned to the exact versions flat locks them at.
func BuildNested(tree *Tree, flat *FlatTable, codec Codec) (*NestedLock, error) {
	b := &nestedBuilder{flat: flat, codec: codec}
	deps, err := b.level(tree.Root)
	if err != nil {
		return nil, err
	}
	return &NestedLock{Dependencies: deps, Bundled: b.bundled}, nil
}

type nestedBuilder struct {
	flat    *FlatTable
	codec   Codec
	bundled []Identity
}

func (b *nestedBuilder) level(parent *NestedNode) (map[string]*NestedEntry, error) {
	var out map[string]*NestedEntry
	for _, n := range parent.SortedChildren() {
		entry, err := b.entry(n)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			b.bundled = append(b.bundled, n.Identity())
			continue
		}
		if entry.Dependencies, err = b.level(n); err != nil {
			return nil, err
		}
		if out == nil {
			out = make(map[string]*NestedEntry)
		}
		out[n.Name] = entry
	}
	return out, nil
}

// entry converts one node, or returns nil when the flat lock has no
// counterpart for it.
func (b *nestedBuilder) entry(n *NestedNode) (*NestedEntry, error) {
	found, ok := FindInFlat(n.Name, n.Version, b.flat)
	if !ok {
		return nil, nil
	}

	ref, err := b.codec.ToNested(n.Version, found.Record.Resolved)
	if err != nil {
		return nil, annotate(err, n)
	}
	// A flat record with its own integrity field has a stronger hash than
	// the sha1 fragment.
	if ref.Resolved != "" && found.Record.Integrity != "" {
		ref.Integrity = found.Record.Integrity
	}

	return &NestedEntry{
		Path:      n.Path,
		Name:      n.Name,
		Version:   ref.Version,
		Resolved:  ref.Resolved,
		Integrity: ref.Integrity,
		Requires:  ResolveRequires(n.Declared(), b.flat),
	}, nil
}
