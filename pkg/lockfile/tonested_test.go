package lockfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
)

func TestBuildNested_RegistryScenario(t *testing.T) {
	tree := NewTree(install(node("app", "1.0.0", "lodash", "^4.0.0"), node("lodash", "4.17.21")))
	flat := flatTable("lodash@^4.0.0", FlatRecord{
		Version:  "4.17.21",
		Resolved: "https://registry/lodash/-/lodash-4.17.21.tgz#abc123",
	})

	lock, err := BuildNested(tree, flat, Codec{})
	require.NoError(t, err)

	assert.Equal(t, &NestedEntry{
		Path:      "node_modules/lodash",
		Name:      "lodash",
		Version:   "4.17.21",
		Resolved:  "https://registry/lodash/-/lodash-4.17.21.tgz",
		Integrity: "sha1-q8Ej",
	}, lock.Dependencies["lodash"])
	assert.Empty(t, lock.Bundled)
}

func TestBuildNested_NoRequiresWhenNoDependencies(t *testing.T) {
	leftPad := &NestedNode{Name: "left-pad", Version: "1.0.0", Dependencies: map[string]string{}}
	tree := NewTree(install(node("app", "1.0.0"), leftPad))
	flat := flatTable("left-pad@^1.0.0", FlatRecord{Version: "1.0.0", Resolved: lodashURL})

	lock, err := BuildNested(tree, flat, Codec{})
	require.NoError(t, err)

	entry := lock.Dependencies["left-pad"]
	require.NotNil(t, entry)
	assert.Nil(t, entry.Requires)
	assert.Nil(t, entry.Dependencies)
}

func TestBuildNested_BundledBranchSkipped(t *testing.T) {
	bundled := install(node("has-bundled", "1.0.0"), node("inner", "1.0.0"))
	tree := NewTree(install(node("app", "1.0.0"),
		install(node("a", "1.0.0"), bundled),
		node("b", "1.0.0"),
	))
	flat := flatTable(
		"a@^1.0.0", FlatRecord{Version: "1.0.0", Resolved: lodashURL},
		"b@^1.0.0", FlatRecord{Version: "1.0.0", Resolved: lodashURL},
	)

	lock, err := BuildNested(tree, flat, Codec{})
	require.NoError(t, err)

	assert.Equal(t, 2, lock.Len())
	assert.Nil(t, lock.Dependencies["a"].Dependencies)
	assert.Equal(t, []Identity{{Name: "has-bundled", Version: "1.0.0"}}, lock.Bundled)
}

func TestBuildNested_NestedVersionsAndRequires(t *testing.T) {
	a := install(node("a", "1.0.0", "b", "^2.0.0"), node("b", "2.0.0"))
	tree := NewTree(install(node("app", "1.0.0", "a", "^1.0.0", "b", "^1.0.0"), a, node("b", "1.0.0")))
	flat := flatTable(
		"a@^1.0.0", FlatRecord{Version: "1.0.0", Resolved: "https://r/a-1.0.0.tgz#aa", Dependencies: map[string]string{"b": "^2.0.0"}},
		"b@^1.0.0", FlatRecord{Version: "1.0.0", Resolved: "https://r/b-1.0.0.tgz#b1"},
		"b@^2.0.0", FlatRecord{Version: "2.0.0", Resolved: "https://r/b-2.0.0.tgz#b2"},
	)

	lock, err := BuildNested(tree, flat, Codec{})
	require.NoError(t, err)
	require.Equal(t, 3, lock.Len())

	top := lock.Dependencies["a"]
	assert.Equal(t, map[string]string{"b": "2.0.0"}, top.Requires)

	nested := top.Dependencies["b"]
	require.NotNil(t, nested)
	assert.Equal(t, "2.0.0", nested.Version)
	assert.Equal(t, "https://r/b-2.0.0.tgz", nested.Resolved)
	assert.Equal(t, "node_modules/a/node_modules/b", nested.Path)

	assert.Equal(t, "1.0.0", lock.Dependencies["b"].Version)
	assert.Equal(t, "https://r/b-1.0.0.tgz", lock.Dependencies["b"].Resolved)
}

func TestBuildNested_RecordIntegrityPreferred(t *testing.T) {
	tree := NewTree(install(node("app", "1.0.0"), node("lodash", "4.17.21")))
	flat := flatTable("lodash@^4.0.0", FlatRecord{
		Version:   "4.17.21",
		Resolved:  lodashURL + "#" + lodashSHA1,
		Integrity: "sha512-" + sha512B64,
	})

	lock, err := BuildNested(tree, flat, Codec{})
	require.NoError(t, err)
	assert.Equal(t, "sha512-"+sha512B64, lock.Dependencies["lodash"].Integrity)
}

func TestBuildNested_VCS(t *testing.T) {
	tree := NewTree(install(node("app", "1.0.0"), node("widget", "1.0.0")))
	flat := flatTable("widget@acme/widget#deadbeef", FlatRecord{Version: "1.0.0", Resolved: widgetFlat})

	lock, err := BuildNested(tree, flat, Codec{})
	require.NoError(t, err)

	entry := lock.Dependencies["widget"]
	assert.Equal(t, widgetVCS, entry.Version)
	assert.Empty(t, entry.Resolved)
	assert.Empty(t, entry.Integrity)
}

func TestBuildNested_ErrorNamesPackage(t *testing.T) {
	tree := NewTree(install(node("app", "1.0.0"), node("bad", "1.0.0")))
	flat := flatTable("bad@^1.0.0", FlatRecord{Version: "1.0.0", Resolved: "http://[::1"})

	_, err := BuildNested(tree, flat, Codec{})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidURL))
	assert.True(t, strings.Contains(err.Error(), "bad@1.0.0"), "error %q should name the package", err)
}

func TestBuildNested_EmptyTree(t *testing.T) {
	lock, err := BuildNested(NewTree(node("app", "1.0.0")), NewFlatTable(), Codec{})
	require.NoError(t, err)
	assert.Zero(t, lock.Len())
	assert.Nil(t, lock.Dependencies)
}
