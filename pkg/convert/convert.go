package convert

import (
	"context"
	"os"
	"path/filepath"
	"time"

	errs "github.com/matzehuels/lockbridge/pkg/errors"
	"github.com/matzehuels/lockbridge/pkg/lockfile"
	"github.com/matzehuels/lockbridge/pkg/nodemodules"
	"github.com/matzehuels/lockbridge/pkg/npmlock"
	"github.com/matzehuels/lockbridge/pkg/observability"
	"github.com/matzehuels/lockbridge/pkg/yarnlock"
)

// Lockfile names.
const (
	YarnLock    = "yarn.lock"
	PackageLock = "package-lock.json"
	modulesDir  = "node_modules"
)

// Direction is the way a conversion goes.
type Direction int

const (
	YarnToNpmDirection Direction = iota + 1 // yarn.lock -> package-lock.json
	NpmToYarnDirection                      // package-lock.json -> yarn.lock
)

// Source returns the lockfile name the direction reads.
func (d Direction) Source() string {
	if d == NpmToYarnDirection {
		return PackageLock
	}
	return YarnLock
}

// Destination returns the lockfile name the direction writes.
func (d Direction) Destination() string {
	if d == NpmToYarnDirection {
		return YarnLock
	}
	return PackageLock
}

func (d Direction) String() string {
	return d.Source() + " -> " + d.Destination()
}

// Options configure a conversion.
type Options struct {
	Force  bool           // overwrite an existing destination lockfile
	Jobs   int            // parallel projects in RunAll; <= 0 means one per job
	DryRun bool           // convert but do not write
	Codec  lockfile.Codec // source reference encoding
}

// Job is one project to convert, named by its source lockfile.
type Job struct {
	Source string
}

// Result describes a finished conversion.
type Result struct {
	Direction   Direction
	Source      string
	Destination string
	Entries     int                 // records in the written lockfile
	Bundled     []lockfile.Identity // installed packages the source lockfile does not know
	Written     bool                // false on a dry run
}

// Detect infers the direction from the base name of a source lockfile and
// returns the project directory it lives in.
func Detect(source string) (Direction, string, error) {
	base := filepath.Base(source)
	if err := errs.ValidateLockfileName(base); err != nil {
		return 0, "", errs.Wrap(errs.ErrCodeInvalidInput, err, "%s", source)
	}
	dir := filepath.Dir(source)
	if base == PackageLock {
		return NpmToYarnDirection, dir, nil
	}
	return YarnToNpmDirection, dir, nil
}

// Run converts the project owning job.Source in the direction its name
// implies.
func Run(ctx context.Context, job Job, opts Options) (*Result, error) {
	d, dir, err := Detect(job.Source)
	if err != nil {
		return nil, err
	}
	if d == NpmToYarnDirection {
		return NpmToYarn(ctx, dir, opts)
	}
	return YarnToNpm(ctx, dir, opts)
}

// YarnToNpm writes dir/package-lock.json from dir/yarn.lock and the
// installed tree.
func YarnToNpm(ctx context.Context, dir string, opts Options) (res *Result, err error) {
	res, done := begin(ctx, YarnToNpmDirection, dir)
	defer func() { done(err) }()

	if err := validate(res, dir, opts); err != nil {
		return nil, err
	}

	start := time.Now()
	flat, err := yarnlock.ParseFile(res.Source)
	if err != nil {
		return nil, err
	}
	observability.File().OnRead(ctx, res.Source, flat.Len(), time.Since(start))

	tree, err := walk(ctx, dir)
	if err != nil {
		return nil, err
	}

	lock, err := lockfile.BuildNested(tree, flat, opts.Codec)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "convert %s", res.Source)
	}
	res.Entries = lock.Len()
	res.Bundled = lock.Bundled
	report(ctx, dir, res.Bundled)

	if opts.DryRun {
		return res, nil
	}
	manifest := npmlock.Manifest{Name: tree.Root.Name, Version: tree.Root.Version}
	if err := npmlock.WriteFile(res.Destination, manifest, lock); err != nil {
		return nil, err
	}
	res.Written = true
	observability.File().OnWrite(ctx, res.Destination, res.Entries)
	return res, nil
}

// NpmToYarn writes dir/yarn.lock from dir/package-lock.json and the
// installed tree.
func NpmToYarn(ctx context.Context, dir string, opts Options) (res *Result, err error) {
	res, done := begin(ctx, NpmToYarnDirection, dir)
	defer func() { done(err) }()

	if err := validate(res, dir, opts); err != nil {
		return nil, err
	}

	start := time.Now()
	file, err := npmlock.ReadFile(res.Source)
	if err != nil {
		return nil, err
	}
	observability.File().OnRead(ctx, res.Source, len(file.Packages), time.Since(start))

	tree, err := walk(ctx, dir)
	if err != nil {
		return nil, err
	}

	flat, err := lockfile.BuildFlat(tree, file.Index(), opts.Codec)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "convert %s", res.Source)
	}
	res.Entries = flat.Table.Len()
	res.Bundled = flat.Bundled
	report(ctx, dir, res.Bundled)

	if opts.DryRun {
		return res, nil
	}
	if err := yarnlock.WriteFile(res.Destination, flat.Table); err != nil {
		return nil, err
	}
	res.Written = true
	observability.File().OnWrite(ctx, res.Destination, res.Entries)
	return res, nil
}

// begin fires the start hook and returns the result skeleton plus the
// matching completion callback.
func begin(ctx context.Context, d Direction, dir string) (*Result, func(error)) {
	res := &Result{
		Direction:   d,
		Source:      filepath.Join(dir, d.Source()),
		Destination: filepath.Join(dir, d.Destination()),
	}
	start := time.Now()
	hooks := observability.Convert()
	hooks.OnConvertStart(ctx, d.Source(), d.Destination(), dir)
	return res, func(err error) {
		hooks.OnConvertComplete(ctx, dir, res.Entries, time.Since(start), err)
	}
}

// validate checks the project layout before anything is read.
func validate(res *Result, dir string, opts Options) error {
	info, err := os.Stat(res.Source)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "source lockfile %s", res.Source)
	}
	if !info.Mode().IsRegular() {
		return errs.New(errs.ErrCodeInvalidInput, "source lockfile %s is not a file", res.Source)
	}

	if !opts.Force && !opts.DryRun {
		if _, err := os.Stat(res.Destination); err == nil {
			return errs.New(errs.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", res.Destination)
		}
	}

	modules := filepath.Join(dir, modulesDir)
	info, err = os.Stat(modules)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "%s not found: run an install first", modules)
	}
	if !info.IsDir() {
		return errs.New(errs.ErrCodeInvalidInput, "%s is not a directory", modules)
	}
	return nil
}

func walk(ctx context.Context, dir string) (*lockfile.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	tree, err := nodemodules.Walk(dir)
	if err != nil {
		return nil, err
	}
	observability.File().OnRead(ctx, filepath.Join(dir, modulesDir), tree.Len(), time.Since(start))
	return tree, ctx.Err()
}

func report(ctx context.Context, dir string, bundled []lockfile.Identity) {
	hooks := observability.Convert()
	for _, id := range bundled {
		hooks.OnBundledSkip(ctx, dir, id.String())
	}
}
