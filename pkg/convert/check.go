package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
	"github.com/matzehuels/lockbridge/pkg/npmlock"
	"github.com/matzehuels/lockbridge/pkg/observability"
	"github.com/matzehuels/lockbridge/pkg/yarnlock"
)

// Report compares the two lockfiles of one project. Each side is reduced
// to its set of "name@version (source kind)" tuples, with VCS packages
// spelled as "github:" versions on both sides.
type Report struct {
	Dir             string
	YarnFingerprint string
	NpmFingerprint  string
	OnlyInYarn      []string
	OnlyInNpm       []string
}

// Agree reports whether both lockfiles lock the same packages.
func (r *Report) Agree() bool {
	return r.YarnFingerprint == r.NpmFingerprint
}

// Check loads dir/yarn.lock and dir/package-lock.json and compares them.
func Check(ctx context.Context, dir string, opts Options) (*Report, error) {
	yarnPath := filepath.Join(dir, YarnLock)
	npmPath := filepath.Join(dir, PackageLock)

	start := time.Now()
	flat, err := yarnlock.ParseFile(yarnPath)
	if err != nil {
		return nil, err
	}
	observability.File().OnRead(ctx, yarnPath, flat.Len(), time.Since(start))

	start = time.Now()
	nested, err := npmlock.ReadFile(npmPath)
	if err != nil {
		return nil, err
	}
	observability.File().OnRead(ctx, npmPath, len(nested.Packages), time.Since(start))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	yarnSet, err := flatTuples(flat, opts.Codec)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", yarnPath)
	}
	npmSet, err := nestedTuples(nested, opts.Codec)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", npmPath)
	}

	return &Report{
		Dir:             dir,
		YarnFingerprint: fingerprint(yarnSet),
		NpmFingerprint:  fingerprint(npmSet),
		OnlyInYarn:      difference(yarnSet, npmSet),
		OnlyInNpm:       difference(npmSet, yarnSet),
	}, nil
}

func flatTuples(t *lockfile.FlatTable, codec lockfile.Codec) ([]string, error) {
	var out []string
	for _, e := range t.Entries() {
		ref, err := codec.ToNested(e.Record.Version, e.Record.Resolved)
		if err != nil {
			return nil, errs.Wrap(errs.GetCode(err), err, "%s", e.Key())
		}
		kind, err := sourceKind(codec, e.Record.Resolved)
		if err != nil {
			return nil, err
		}
		out = append(out, tuple(e.Name(), ref.Version, kind))
	}
	return unique(out), nil
}

func nestedTuples(f *npmlock.File, codec lockfile.Codec) ([]string, error) {
	var out []string
	for _, p := range f.Packages {
		src := p.Resolved
		if src == "" {
			src = p.Version
		}
		kind, err := sourceKind(codec, src)
		if err != nil {
			return nil, errs.Wrap(errs.GetCode(err), err, "%s", p.Identity())
		}
		out = append(out, tuple(p.Name, p.Version, kind))
	}
	return unique(out), nil
}

func sourceKind(codec lockfile.Codec, raw string) (lockfile.SourceKind, error) {
	if raw == "" {
		return lockfile.SourceRegistry, nil
	}
	src, err := codec.Classify(raw)
	return src.Kind, err
}

func tuple(name, version string, kind lockfile.SourceKind) string {
	return fmt.Sprintf("%s@%s (%s)", name, version, kind)
}

func unique(s []string) []string {
	slices.Sort(s)
	return slices.Compact(s)
}

// fingerprint hashes a sorted tuple set.
func fingerprint(tuples []string) string {
	h := xxhash.New()
	for _, t := range tuples {
		_, _ = h.WriteString(t)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// difference returns the elements of a missing from b; both are sorted.
func difference(a, b []string) []string {
	var out []string
	for _, s := range a {
		if _, found := slices.BinarySearch(b, s); !found {
			out = append(out, s)
		}
	}
	return out
}
