package nodemodules

import (
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

const (
	modulesDir   = "node_modules"
	manifestFile = "package.json"
)

// Walk reads the project at dir and everything installed under its
// node_modules. The root node declares dependencies, devDependencies and
// optionalDependencies; installed packages only their dependencies and
// optionalDependencies.
func Walk(dir string) (*lockfile.Tree, error) {
	m, err := ReadManifest(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, err
	}
	root := &lockfile.NestedNode{
		Name:                 m.Name,
		Version:              m.Version,
		Dependencies:         m.Dependencies,
		DevDependencies:      m.DevDependencies,
		OptionalDependencies: m.OptionalDependencies,
	}

	w := &walker{seen: make(map[string]bool)}
	if err := w.installed(root, dir); err != nil {
		return nil, err
	}
	return lockfile.NewTree(root), nil
}

type walker struct {
	seen map[string]bool // real paths of symlinked packages already read
}

// installed attaches every package under dir/node_modules to parent.
func (w *walker) installed(parent *lockfile.NestedNode, dir string) error {
	modules := filepath.Join(dir, modulesDir)
	entries, err := os.ReadDir(modules)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", modules)
	}

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if strings.HasPrefix(name, "@") {
			if st, err := os.Stat(filepath.Join(modules, name)); err != nil || !st.IsDir() {
				continue
			}
			scoped, err := os.ReadDir(filepath.Join(modules, name))
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", filepath.Join(modules, name))
			}
			for _, s := range scoped {
				if strings.HasPrefix(s.Name(), ".") {
					continue
				}
				if err := w.pkg(parent, modules, name+"/"+s.Name()); err != nil {
					return err
				}
			}
			continue
		}
		if err := w.pkg(parent, modules, name); err != nil {
			return err
		}
	}
	return nil
}

// pkg reads the package installed at modules/name.
func (w *walker) pkg(parent *lockfile.NestedNode, modules, name string) error {
	dir := filepath.Join(modules, filepath.FromSlash(name))
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		// Stray files and dangling links.
		return nil
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "stat %s", dir)
	}
	recurse := true
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := filepath.EvalSymlinks(dir)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "resolve %s", dir)
		}
		recurse = !w.seen[target]
		w.seen[target] = true
	}

	m, err := ReadManifest(filepath.Join(dir, manifestFile))
	if errs.Is(err, errs.ErrCodeFileNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := errs.ValidatePackageName(name); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPackage, err, "%s", dir)
	}

	n := &lockfile.NestedNode{
		Name:                 name,
		Version:              m.Version,
		Dependencies:         m.Dependencies,
		OptionalDependencies: m.OptionalDependencies,
	}
	parent.AddChild(n)
	if !recurse {
		return nil
	}
	return w.installed(n, dir)
}
