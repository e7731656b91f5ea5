package lockfile

// node builds a tree node; deps alternate name, range.
func node(name, version string, deps ...string) *NestedNode {
	n := &NestedNode{Name: name, Version: version}
	if len(deps) > 0 {
		n.Dependencies = make(map[string]string)
		for i := 0; i+1 < len(deps); i += 2 {
			n.Dependencies[deps[i]] = deps[i+1]
		}
	}
	return n
}

// install adds children under parent and returns parent.
func install(parent *NestedNode, children ...*NestedNode) *NestedNode {
	for _, c := range children {
		parent.AddChild(c)
	}
	return parent
}

// flatTable builds a table from key/record pairs; keys are comma-joined
// descriptors as in a yarn.lock.
func flatTable(entries ...any) *FlatTable {
	t := NewFlatTable()
	for i := 0; i+1 < len(entries); i += 2 {
		var descs []Descriptor
		for _, raw := range splitKey(entries[i].(string)) {
			d, err := ParseDescriptor(raw)
			if err != nil {
				panic(err)
			}
			descs = append(descs, d)
		}
		t.Add(descs, entries[i+1].(FlatRecord))
	}
	return t
}

func splitKey(key string) []string {
	var out []string
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] == ',' {
			out = append(out, key[start:i])
			start = i + 1
		}
	}
	return append(out, key[start:])
}
