package lockfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
)

const (
	lodashURL   = "https://registry.yarnpkg.com/lodash/-/lodash-4.17.21.tgz"
	lodashSHA1  = "679591c564c3bffaae8454cf0b3df370c3d6911c"
	lodashSRI1  = "sha1-Z5WRxWTDv/quhFTPCz3zcMPWkRw="
	sha512B64   = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8gISIjJCUmJygpKissLS4vMDEyMzQ1Njc4OTo7PD0+Pw=="
	sha512Hex   = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f"
	widgetFlat  = "https://codeload.github.com/acme/widget/tar.gz/deadbeef"
	widgetVCS   = "github:acme/widget#deadbeef"
)

func TestCodec_Classify(t *testing.T) {
	var c Codec

	tests := []struct {
		name string
		raw  string
		want Source
	}{
		{
			name: "registry with checksum",
			raw:  lodashURL + "#" + lodashSHA1,
			want: Source{Kind: SourceRegistry, URL: lodashURL, Checksum: lodashSHA1},
		},
		{
			name: "registry without checksum",
			raw:  lodashURL,
			want: Source{Kind: SourceRegistry, URL: lodashURL},
		},
		{
			name: "bare version",
			raw:  "1.0.0",
			want: Source{Kind: SourceRegistry, URL: "1.0.0"},
		},
		{
			name: "git tarball",
			raw:  widgetFlat,
			want: Source{Kind: SourceVCSTarball, Owner: "acme", Repo: "widget", Commit: "deadbeef"},
		},
		{
			name: "tarball host with other path",
			raw:  "https://codeload.github.com/acme/widget/zip/deadbeef",
			want: Source{Kind: SourceRegistry, URL: "https://codeload.github.com/acme/widget/zip/deadbeef"},
		},
		{
			name: "vcs version",
			raw:  widgetVCS,
			want: Source{Kind: SourceVCSTarball, Owner: "acme", Repo: "widget", Commit: "deadbeef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_ClassifyErrors(t *testing.T) {
	var c Codec

	for _, raw := range []string{
		"http://[::1",
		"github:acme",
		"github:acme/widget",
		"github:/widget#abc",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := c.Classify(raw)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrCodeInvalidURL), "got %v", err)
		})
	}
}

func TestCodec_ClassifyCustomHost(t *testing.T) {
	c := NewCodec("tarballs.example.com")

	src, err := c.Classify("https://tarballs.example.com/acme/widget/tar.gz/abc")
	require.NoError(t, err)
	assert.Equal(t, SourceVCSTarball, src.Kind)

	src, err = c.Classify(widgetFlat)
	require.NoError(t, err)
	assert.Equal(t, SourceRegistry, src.Kind)
}

func TestCodec_ToNested(t *testing.T) {
	var c Codec

	t.Run("registry scenario", func(t *testing.T) {
		ref, err := c.ToNested("4.17.21", "https://registry/lodash/-/lodash-4.17.21.tgz#abc123")
		require.NoError(t, err)
		assert.Equal(t, Reference{
			Version:   "4.17.21",
			Resolved:  "https://registry/lodash/-/lodash-4.17.21.tgz",
			Integrity: "sha1-q8Ej",
		}, ref)
	})

	t.Run("vcs tarball", func(t *testing.T) {
		ref, err := c.ToNested("1.0.0", widgetFlat)
		require.NoError(t, err)
		assert.Equal(t, Reference{Version: widgetVCS}, ref)
	})

	t.Run("no fragment", func(t *testing.T) {
		ref, err := c.ToNested("4.17.21", lodashURL)
		require.NoError(t, err)
		assert.Equal(t, Reference{Version: "4.17.21", Resolved: lodashURL}, ref)
	})

	t.Run("no resolved", func(t *testing.T) {
		ref, err := c.ToNested("0.0.1", "")
		require.NoError(t, err)
		assert.Equal(t, Reference{Version: "0.0.1"}, ref)
	})

	t.Run("non-hex fragment", func(t *testing.T) {
		_, err := c.ToNested("1.0.0", lodashURL+"#nothex")
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidIntegrity))
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := c.ToNested("1.0.0", "http://[::1")
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidURL))
	})
}

func TestCodec_ToFlat(t *testing.T) {
	var c Codec

	tests := []struct {
		name      string
		resolved  string
		integrity string
		want      string
	}{
		{"legacy integrity", lodashURL, lodashSRI1, lodashURL + "#" + lodashSHA1},
		{"modern integrity", lodashURL, "sha512-" + sha512B64, lodashURL + "#" + sha512Hex},
		{"legacy preferred over modern", lodashURL, "sha512-" + sha512B64 + " " + lodashSRI1, lodashURL + "#" + lodashSHA1},
		{"no integrity", lodashURL, "", lodashURL},
		{"bare version", "1.0.0", lodashSRI1, "1.0.0#" + lodashSHA1},
		{"vcs version", widgetVCS, "", widgetFlat},
		{"vcs version ignores integrity", widgetVCS, lodashSRI1, widgetFlat},
		{"sri options", lodashURL, lodashSRI1 + "?foo", lodashURL + "#" + lodashSHA1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ToFlat(tt.resolved, tt.integrity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodec_ToFlatErrors(t *testing.T) {
	var c Codec

	tests := []struct {
		name      string
		resolved  string
		integrity string
		code      errs.Code
	}{
		{"unsupported algorithm", lodashURL, "sha256-" + sha512B64, errs.ErrCodeUnsupportedIntegrity},
		{"malformed token", lodashURL, "sha1", errs.ErrCodeInvalidIntegrity},
		{"bad base64", lodashURL, "sha1-***", errs.ErrCodeInvalidIntegrity},
		{"malformed url", "http://[::1", lodashSRI1, errs.ErrCodeInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ToFlat(tt.resolved, tt.integrity)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestCodec_RoundTripLegacy(t *testing.T) {
	var c Codec

	for _, flat := range []string{
		lodashURL + "#" + lodashSHA1,
		"https://registry/lodash/-/lodash-4.17.21.tgz#abc123",
		"https://registry.npmjs.org/@babel/core/-/core-7.0.0.tgz#00ff",
	} {
		t.Run(flat, func(t *testing.T) {
			ref, err := c.ToNested("1.0.0", flat)
			require.NoError(t, err)
			back, err := c.ToFlat(ref.Resolved, ref.Integrity)
			require.NoError(t, err)
			assert.Equal(t, flat, back)
		})
	}
}

func TestCodec_RoundTripVCS(t *testing.T) {
	var c Codec

	ref, err := c.ToNested("1.0.0", widgetFlat)
	require.NoError(t, err)
	assert.Empty(t, ref.Resolved)
	assert.Empty(t, ref.Integrity)

	back, err := c.ToFlat(ref.Version, "")
	require.NoError(t, err)
	assert.Equal(t, widgetFlat, back)
	assert.NotContains(t, back, "#")
}

func TestModernIntegrity(t *testing.T) {
	assert.Empty(t, ModernIntegrity(""))
	assert.Empty(t, ModernIntegrity(lodashSRI1))
	assert.Equal(t, "sha512-"+sha512B64, ModernIntegrity("sha512-"+sha512B64))
	assert.Equal(t, lodashSRI1+" sha512-x", ModernIntegrity(lodashSRI1+" sha512-x"))
}

func TestSourceKind_String(t *testing.T) {
	assert.Equal(t, "registry", SourceRegistry.String())
	assert.Equal(t, "vcs-tarball", SourceVCSTarball.String())
	assert.Equal(t, "unknown", SourceKind(42).String())
}

func TestIsVCSVersion(t *testing.T) {
	assert.True(t, IsVCSVersion("github:acme/widget#deadbeef"))
	assert.False(t, IsVCSVersion("1.0.0"))
	assert.False(t, IsVCSVersion("https://codeload.github.com/acme/widget/tar.gz/deadbeef"))
}
