package nodemodules

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
)

// Manifest is the part of a package.json the converter reads.
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

// ReadManifest parses the package.json at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPackage, err, "parse %s", path)
	}
	return &m, nil
}
