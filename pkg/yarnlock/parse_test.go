package yarnlock

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
)

const sample = `# THIS IS AN AUTOGENERATED FILE. DO NOT EDIT THIS FILE DIRECTLY.
# yarn lockfile v1


"@babel/code-frame@^7.0.0", "@babel/code-frame@^7.10.4":
  version "7.10.4"
  resolved "https://registry.yarnpkg.com/@babel/code-frame/-/code-frame-7.10.4.tgz#168da1a36e90da68ae8d49c0f1b48c7c6249213a"
  integrity sha512-vG6SvB6oYEhvgisZNFRmRCUkLz11c7rp+tbNTynGqc6mS1d5ATd/sGyV6W0KZZnXRKMTzZDRgQT3Ou9jhpAfUg==
  dependencies:
    "@babel/highlight" "^7.10.4"

lodash@^4.17.0, lodash@^4.17.21:
  version "4.17.21"
  resolved "https://registry.yarnpkg.com/lodash/-/lodash-4.17.21.tgz#679591c564c3bffaae8454cf0b3df370c3d6911c"
  optionalDependencies:
    fsevents "~2.3.1"

"widget@github:acme/widget#deadbeef":
  version "1.0.0"
  resolved "https://codeload.github.com/acme/widget/tar.gz/deadbeef"
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", table.Len())
	}

	entries := table.Entries()
	tests := []struct {
		key  string
		want lockfile.FlatRecord
	}{
		{
			key: "@babel/code-frame@^7.0.0, @babel/code-frame@^7.10.4",
			want: lockfile.FlatRecord{
				Version:      "7.10.4",
				Resolved:     "https://registry.yarnpkg.com/@babel/code-frame/-/code-frame-7.10.4.tgz#168da1a36e90da68ae8d49c0f1b48c7c6249213a",
				Integrity:    "sha512-vG6SvB6oYEhvgisZNFRmRCUkLz11c7rp+tbNTynGqc6mS1d5ATd/sGyV6W0KZZnXRKMTzZDRgQT3Ou9jhpAfUg==",
				Dependencies: map[string]string{"@babel/highlight": "^7.10.4"},
			},
		},
		{
			key: "lodash@^4.17.0, lodash@^4.17.21",
			want: lockfile.FlatRecord{
				Version:              "4.17.21",
				Resolved:             "https://registry.yarnpkg.com/lodash/-/lodash-4.17.21.tgz#679591c564c3bffaae8454cf0b3df370c3d6911c",
				OptionalDependencies: map[string]string{"fsevents": "~2.3.1"},
			},
		},
		{
			key: "widget@github:acme/widget#deadbeef",
			want: lockfile.FlatRecord{
				Version:  "1.0.0",
				Resolved: "https://codeload.github.com/acme/widget/tar.gz/deadbeef",
			},
		},
	}
	for i, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			e := entries[i]
			if got := e.Key(); got != tt.key {
				t.Errorf("Key() = %q, want %q", got, tt.key)
			}
			if !reflect.DeepEqual(*e.Record, tt.want) {
				t.Errorf("Record = %+v, want %+v", *e.Record, tt.want)
			}
		})
	}

	if e, ok := table.Lookup("lodash@^4.17.21"); !ok || e.Record.Version != "4.17.21" {
		t.Errorf("Lookup(lodash@^4.17.21) = %v, %v", e, ok)
	}
}

func TestParse_IgnoresUnknownFields(t *testing.T) {
	input := `left-pad@^1.0.0:
  version "1.3.0"
  uid ""
  resolved "https://registry.yarnpkg.com/left-pad/-/left-pad-1.3.0.tgz"
  dependenciesMeta:
    fsevents:
      optional true
`
	table, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rec := table.Entries()[0].Record
	if rec.Version != "1.3.0" || rec.Resolved != "https://registry.yarnpkg.com/left-pad/-/left-pad-1.3.0.tgz" {
		t.Errorf("Record = %+v", *rec)
	}
	if rec.Dependencies != nil {
		t.Errorf("Dependencies = %v, want nil", rec.Dependencies)
	}
}

func TestParse_Empty(t *testing.T) {
	table, err := Parse(strings.NewReader(Header))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"odd indentation", "a@^1.0.0:\n  version \"1.0.0\"\n   resolved \"x\"\n", "line 3"},
		{"field outside entry", "  version \"1.0.0\"\n", "line 1"},
		{"missing colon", "a@^1.0.0\n", "line 1"},
		{"missing version", "# c\na@^1.0.0:\n  resolved \"x\"\n", "line 2"},
		{"berry lockfile", "__metadata:\n  version: 6\n", "line 1"},
		{"unterminated key", "\"a@^1.0.0:\n", "line 1"},
		{"stray nesting", "a@^1.0.0:\n  version \"1.0.0\"\n    b \"^1\"\n", "line 3"},
		{"key without range", "a:\n  version \"1.0.0\"\n", "line 1"},
		{"missing value", "a@^1.0.0:\n  version\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errs.Is(err, errs.ErrCodeInvalidLockfile) {
				t.Errorf("error %v is not INVALID_LOCKFILE", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("error %q does not mention %q", err, tt.line)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yarn.lock")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}

	_, err = ParseFile(filepath.Join(dir, "missing.lock"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("ParseFile(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
