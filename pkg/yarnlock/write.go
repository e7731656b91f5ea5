package yarnlock

import (
	"bufio"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

// Header is the comment block yarn writes at the top of every lockfile.
const Header = "# THIS IS AN AUTOGENERATED FILE. DO NOT EDIT THIS FILE DIRECTLY.\n# yarn lockfile v1\n\n\n"

// Write renders t as a yarn.lock v1 file. Entries are ordered by their
// sorted descriptor list, and fields follow yarn's own order: version,
// resolved, integrity, dependencies, optionalDependencies.
func Write(w io.Writer, t *lockfile.FlatTable) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(Header)

	type keyed struct {
		descs []string
		entry *lockfile.FlatEntry
	}
	entries := make([]keyed, 0, t.Len())
	for _, e := range t.Entries() {
		descs := make([]string, len(e.Descriptors))
		for i, d := range e.Descriptors {
			descs[i] = d.String()
		}
		slices.Sort(descs)
		entries = append(entries, keyed{descs: slices.Compact(descs), entry: e})
	}
	slices.SortStableFunc(entries, func(a, b keyed) int {
		return slices.Compare(a.descs, b.descs)
	})

	for i, k := range entries {
		if i > 0 {
			bw.WriteString("\n")
		}
		writeEntry(bw, k.descs, k.entry.Record)
	}
	return bw.Flush()
}

// WriteFile is [Write] to the file at path, replacing it.
func WriteFile(path string, t *lockfile.FlatTable) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", path)
	}
	return f.Close()
}

func writeEntry(w *bufio.Writer, descs []string, rec *lockfile.FlatRecord) {
	for i, d := range descs {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(maybeQuote(d))
	}
	w.WriteString(":\n")

	writeField(w, "version", rec.Version)
	writeField(w, "resolved", rec.Resolved)
	writeField(w, "integrity", rec.Integrity)
	writeMap(w, "dependencies", rec.Dependencies)
	writeMap(w, "optionalDependencies", rec.OptionalDependencies)
}

func writeField(w *bufio.Writer, key, value string) {
	if value == "" {
		return
	}
	w.WriteString("  " + key + " " + maybeQuote(value) + "\n")
}

func writeMap(w *bufio.Writer, key string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	w.WriteString("  " + key + ":\n")
	for _, name := range slices.Sorted(maps.Keys(m)) {
		w.WriteString("    " + maybeQuote(name) + " " + maybeQuote(m[name]) + "\n")
	}
}

// maybeQuote quotes s the way yarn does: anything that could be misread
// as a boolean, a number, or a separator gets quoted.
func maybeQuote(s string) string {
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "true") || strings.HasPrefix(s, "false") {
		return true
	}
	if strings.ContainsAny(s, ":\",[]\\ \t\r\n\f\v") {
		return true
	}
	c := s[0]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}
