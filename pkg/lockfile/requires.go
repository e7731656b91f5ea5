package lockfile

// ResolveRequires maps each declared dependency to the exact version the
// flat table locks it at. Names with no matching entry are bundled and
// omitted. The result is nil when nothing resolves, so callers can attach
// it only when non-empty.
func ResolveRequires(declared map[string]string, table *FlatTable) map[string]string {
	var out map[string]string
	for _, name := range sortedKeys(declared) {
		e, ok := table.LookupDescriptor(name, declared[name])
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(declared))
		}
		out[name] = e.Record.Version
	}
	return out
}
