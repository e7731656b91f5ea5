package lockfile

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
)

// DefaultTarballHost serves git commits as tarballs in the flat format.
const DefaultTarballHost = "codeload.github.com"

// vcsPrefix starts the self-describing VCS version of the nested format.
const vcsPrefix = "github:"

// Integrity algorithm prefixes the codec understands.
const (
	algoLegacy = "sha1"
	algoModern = "sha512"
)

var tarballPath = regexp.MustCompile(`^/([^/]+)/([^/]+)/tar\.gz/([0-9a-f]+)$`)

// SourceKind tags where a package's contents come from.
type SourceKind int

const (
	// SourceRegistry is a plain URL (or bare version for local packages),
	// verified by a checksum.
	SourceRegistry SourceKind = iota
	// SourceVCSTarball is a git commit of a hosted repository. It carries
	// no separate verification data in either format.
	SourceVCSTarball
)

// String returns the kind's name.
func (k SourceKind) String() string {
	switch k {
	case SourceRegistry:
		return "registry"
	case SourceVCSTarball:
		return "vcs-tarball"
	default:
		return "unknown"
	}
}

// Source is a classified source reference.
type Source struct {
	Kind SourceKind

	// Registry fields.
	URL      string // reference without its #fragment
	Checksum string // hex fragment, if any

	// VCS fields.
	Owner  string
	Repo   string
	Commit string
}

// VCSVersion renders the nested-format version "github:owner/repo#commit".
func (s Source) VCSVersion() string {
	return vcsPrefix + s.Owner + "/" + s.Repo + "#" + s.Commit
}

// Reference is the format-neutral resolved reference of one package.
type Reference struct {
	Version   string
	Resolved  string
	Integrity string
}

// Codec converts source references between the two lock formats.
// The zero value uses [DefaultTarballHost].
type Codec struct {
	TarballHost string
}

// NewCodec returns a codec for host, or the default host when empty.
func NewCodec(host string) Codec {
	return Codec{TarballHost: host}
}

func (c Codec) host() string {
	if c.TarballHost == "" {
		return DefaultTarballHost
	}
	return c.TarballHost
}

// TarballURL renders the flat-format URL of a VCS source.
func (c Codec) TarballURL(s Source) string {
	return "https://" + c.host() + "/" + s.Owner + "/" + s.Repo + "/tar.gz/" + s.Commit
}

// Classify decides which kind of source raw refers to. It accepts flat
// resolved URLs, nested resolved URLs, "github:" versions and bare
// versions. A reference that is not a valid URL is an error.
func (c Codec) Classify(raw string) (Source, error) {
	if spec, ok := strings.CutPrefix(raw, vcsPrefix); ok {
		return parseVCSSpec(raw, spec)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, errs.Wrap(errs.ErrCodeInvalidURL, err, "cannot parse source %q", raw)
	}
	if u.Host == c.host() {
		if m := tarballPath.FindStringSubmatch(u.Path); m != nil {
			return Source{Kind: SourceVCSTarball, Owner: m[1], Repo: m[2], Commit: m[3]}, nil
		}
	}

	base, fragment, _ := strings.Cut(raw, "#")
	return Source{Kind: SourceRegistry, URL: base, Checksum: fragment}, nil
}

func parseVCSSpec(raw, spec string) (Source, error) {
	repo, commit, ok := strings.Cut(spec, "#")
	owner, name, okRepo := strings.Cut(repo, "/")
	if !ok || !okRepo || owner == "" || name == "" || commit == "" || strings.Contains(name, "/") {
		return Source{}, errs.New(errs.ErrCodeInvalidURL, "invalid vcs reference %q: want github:owner/repo#commit", raw)
	}
	return Source{Kind: SourceVCSTarball, Owner: owner, Repo: name, Commit: commit}, nil
}

// ToNested converts a flat-format resolved URL into the nested-format
// reference for a package installed at version.
//
// A git tarball becomes a self-describing "github:" version with no
// resolved or integrity. Otherwise the #fragment is stripped from the URL
// and its hex checksum is re-encoded as a "sha1-" integrity string.
func (c Codec) ToNested(version, flatResolved string) (Reference, error) {
	if flatResolved == "" {
		return Reference{Version: version}, nil
	}
	src, err := c.Classify(flatResolved)
	if err != nil {
		return Reference{}, err
	}

	switch src.Kind {
	case SourceVCSTarball:
		return Reference{Version: src.VCSVersion()}, nil
	default:
		ref := Reference{Version: version, Resolved: src.URL}
		if src.Checksum != "" {
			sum, err := hex.DecodeString(src.Checksum)
			if err != nil {
				return Reference{}, errs.Wrap(errs.ErrCodeInvalidIntegrity, err, "checksum fragment %q is not hex", src.Checksum)
			}
			ref.Integrity = algoLegacy + "-" + base64.StdEncoding.EncodeToString(sum)
		}
		return ref, nil
	}
}

// ToFlat converts a nested-format reference into a flat-format resolved
// string. resolved may be a URL or, for packages without a remote source,
// the bare version.
//
// "github:" versions become git tarball URLs with no fragment. Any other
// reference gets the integrity's hex digest appended as a #fragment.
func (c Codec) ToFlat(resolved, integrity string) (string, error) {
	src, err := c.Classify(resolved)
	if err != nil {
		return "", err
	}

	switch src.Kind {
	case SourceVCSTarball:
		return c.TarballURL(src), nil
	default:
		if integrity == "" {
			return resolved, nil
		}
		sum, err := HexChecksum(integrity)
		if err != nil {
			return "", err
		}
		return src.URL + "#" + sum, nil
	}
}

// HexChecksum decodes an SRI integrity string into the hex digest used as
// a flat-format fragment. A legacy sha1 hash is preferred because the flat
// format's fragment is sha1; failing that a sha512 hash is used as-is.
// Any other algorithm is rejected rather than guessed at.
func HexChecksum(integrity string) (string, error) {
	hashes := make(map[string]string)
	var algos []string
	for _, token := range strings.Fields(integrity) {
		algo, digest, ok := strings.Cut(token, "-")
		if !ok || digest == "" {
			return "", errs.New(errs.ErrCodeInvalidIntegrity, "malformed integrity %q", token)
		}
		// SRI allows "?opts" after the digest.
		digest, _, _ = strings.Cut(digest, "?")
		if _, seen := hashes[algo]; !seen {
			hashes[algo] = digest
			algos = append(algos, algo)
		}
	}

	for _, algo := range []string{algoLegacy, algoModern} {
		digest, ok := hashes[algo]
		if !ok {
			continue
		}
		sum, err := base64.StdEncoding.DecodeString(digest)
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidIntegrity, err, "%s digest is not base64", algo)
		}
		return hex.EncodeToString(sum), nil
	}

	if len(algos) == 0 {
		return "", errs.New(errs.ErrCodeInvalidIntegrity, "empty integrity")
	}
	return "", errs.New(errs.ErrCodeUnsupportedIntegrity, "integrity algorithm %q has no flat-format encoding (want %s or %s)", algos[0], algoLegacy, algoModern)
}

// ModernIntegrity returns integrity when it carries a hash stronger than
// the legacy sha1 fragment can hold, so the flat format can keep it in its
// own integrity field. Otherwise it returns "".
func ModernIntegrity(integrity string) string {
	for _, token := range strings.Fields(integrity) {
		if algo, _, _ := strings.Cut(token, "-"); algo != algoLegacy {
			return integrity
		}
	}
	return ""
}

// IsVCSVersion reports whether version is a self-describing VCS version.
func IsVCSVersion(version string) bool {
	return strings.HasPrefix(version, vcsPrefix)
}
