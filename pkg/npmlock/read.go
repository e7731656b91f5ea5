package npmlock

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

const modulesDir = "node_modules/"

// File is a parsed package-lock.json.
type File struct {
	Name            string
	Version         string
	LockfileVersion int
	Packages        []*lockfile.LockedPackage // one per install path, ordered by path
}

// Index returns the packages keyed by identity. When the same identity is
// installed at several paths the shallowest path wins.
func (f *File) Index() *lockfile.NestedIndex {
	x := lockfile.NewNestedIndex()
	for _, p := range f.Packages {
		x.Add(p)
	}
	return x
}

type rawFile struct {
	Name            string                `json:"name"`
	Version         string                `json:"version"`
	LockfileVersion int                   `json:"lockfileVersion"`
	Packages        map[string]rawPackage `json:"packages"`
	Dependencies    map[string]*rawDep    `json:"dependencies"`
}

// rawPackage is an entry of the v2/v3 "packages" map.
type rawPackage struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Resolved  string `json:"resolved"`
	Integrity string `json:"integrity"`
	Dev       bool   `json:"dev"`
	Optional  bool   `json:"optional"`
	Link      bool   `json:"link"`
}

// rawDep is an entry of the v1 "dependencies" tree.
type rawDep struct {
	Version      string             `json:"version"`
	Resolved     string             `json:"resolved,omitempty"`
	Integrity    string             `json:"integrity,omitempty"`
	Dev          bool               `json:"dev,omitempty"`
	Optional     bool               `json:"optional,omitempty"`
	Requires     map[string]string  `json:"requires,omitempty"`
	Dependencies map[string]*rawDep `json:"dependencies,omitempty"`
}

// Read parses a package-lock.json.
func Read(r io.Reader) (*File, error) {
	var raw rawFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidLockfile, err, "decode package-lock.json")
	}

	f := &File{Name: raw.Name, Version: raw.Version, LockfileVersion: raw.LockfileVersion}
	switch {
	case raw.LockfileVersion >= 2 && raw.LockfileVersion <= 3 && raw.Packages != nil:
		f.Packages = fromPackages(raw.Packages)
	case raw.LockfileVersion >= 1 && raw.LockfileVersion <= 3:
		f.Packages = fromDependencies("", raw.Dependencies, nil)
	default:
		return nil, errs.New(errs.ErrCodeInvalidLockfile, "unsupported lockfileVersion %d", raw.LockfileVersion)
	}

	slices.SortFunc(f.Packages, func(a, b *lockfile.LockedPackage) int {
		return comparePaths(a.Path, b.Path)
	})
	return f, nil
}

// ReadFile is [Read] on the file at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer fh.Close()

	f, err := Read(fh)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return f, nil
}

func fromPackages(pkgs map[string]rawPackage) []*lockfile.LockedPackage {
	var out []*lockfile.LockedPackage
	for path, p := range pkgs {
		if path == "" || p.Link || p.Version == "" {
			continue
		}
		// Workspace members live outside node_modules.
		i := strings.LastIndex(path, modulesDir)
		if i < 0 {
			continue
		}
		name := p.Name
		if name == "" {
			name = path[i+len(modulesDir):]
		}
		out = append(out, &lockfile.LockedPackage{
			Path:      path,
			Name:      name,
			Version:   p.Version,
			Resolved:  p.Resolved,
			Integrity: p.Integrity,
			Dev:       p.Dev,
			Optional:  p.Optional,
		})
	}
	return out
}

func fromDependencies(parent string, deps map[string]*rawDep, out []*lockfile.LockedPackage) []*lockfile.LockedPackage {
	for name, d := range deps {
		if d == nil {
			continue
		}
		path := modulesDir + name
		if parent != "" {
			path = parent + "/" + path
		}
		out = append(out, &lockfile.LockedPackage{
			Path:      path,
			Name:      name,
			Version:   d.Version,
			Resolved:  d.Resolved,
			Integrity: d.Integrity,
			Dev:       d.Dev,
			Optional:  d.Optional,
		})
		out = fromDependencies(path, d.Dependencies, out)
	}
	return out
}

// comparePaths orders install paths by depth, then lexically.
func comparePaths(a, b string) int {
	da, db := strings.Count(a, modulesDir), strings.Count(b, modulesDir)
	if da != db {
		return da - db
	}
	return strings.Compare(a, b)
}
