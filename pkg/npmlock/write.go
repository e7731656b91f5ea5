package npmlock

import (
	"encoding/json"
	"io"
	"os"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

// Manifest identifies the project a lockfile belongs to.
type Manifest struct {
	Name    string
	Version string
}

type fileV1 struct {
	Name            string             `json:"name,omitempty"`
	Version         string             `json:"version,omitempty"`
	LockfileVersion int                `json:"lockfileVersion"`
	Requires        bool               `json:"requires"`
	Dependencies    map[string]*rawDep `json:"dependencies,omitempty"`
}

// Write renders lock as a lockfileVersion 1 package-lock.json.
func Write(w io.Writer, root Manifest, lock *lockfile.NestedLock) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(fileV1{
		Name:            root.Name,
		Version:         root.Version,
		LockfileVersion: 1,
		Requires:        true,
		Dependencies:    toRaw(lock.Dependencies),
	})
}

// WriteFile is [Write] to the file at path, replacing it.
func WriteFile(path string, root Manifest, lock *lockfile.NestedLock) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := Write(f, root, lock); err != nil {
		f.Close()
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", path)
	}
	return f.Close()
}

func toRaw(entries map[string]*lockfile.NestedEntry) map[string]*rawDep {
	if len(entries) == 0 {
		return nil
	}
	out := make(map[string]*rawDep, len(entries))
	for name, e := range entries {
		out[name] = &rawDep{
			Version:      e.Version,
			Resolved:     e.Resolved,
			Integrity:    e.Integrity,
			Requires:     e.Requires,
			Dependencies: toRaw(e.Dependencies),
		}
	}
	return out
}
