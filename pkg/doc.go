// Package pkg provides the libraries behind lockbridge, a converter between
// npm's package-lock.json and yarn's yarn.lock.
//
// # Overview
//
// The two lockfiles lock the same thing from opposite ends. package-lock.json
// mirrors the node_modules tree, one record per install path. yarn.lock is
// flat, one record per name and version, keyed by the ranges that asked for
// it. Converting between them needs a third input, the installed tree, to
// learn which version lives at which path.
//
// # Architecture
//
// The data flow of a conversion:
//
//	yarn.lock / package-lock.json      node_modules
//	         ↓                              ↓
//	[yarnlock] / [npmlock] readers     [nodemodules] walker
//	         ↓                              ↓
//	         └──────→ [lockfile] core ←─────┘
//	                      ↓
//	[npmlock] / [yarnlock] writers
//
// [convert] wires these together per project directory and runs several
// projects in parallel.
//
// # Main Packages
//
// [lockfile] - The format-neutral core: source reference encoding, entry
// lookup in both formats, requires resolution and the two assemblers.
//
// [yarnlock] - yarn.lock v1 parser and writer.
//
// [npmlock] - package-lock.json reader (lockfileVersion 1 to 3) and writer
// (lockfileVersion 1).
//
// [nodemodules] - Installed tree walker.
//
// [convert] - Per-project conversion, parallel runs and lockfile agreement
// checks.
//
// [semver] - npm range satisfaction on top of Masterminds/semver.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks through which conversions report progress.
//
// [buildinfo] - Version information injected at build time.
//
// # Quick Start
//
// Convert a project's yarn.lock:
//
//	res, err := convert.YarnToNpm(ctx, "path/to/project", convert.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("wrote %s (%d entries)\n", res.Destination, res.Entries)
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/lockfile/...           # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [lockfile]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/lockfile
// [yarnlock]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/yarnlock
// [npmlock]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/npmlock
// [nodemodules]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/nodemodules
// [convert]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/convert
// [semver]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/semver
// [errors]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/lockbridge/pkg/buildinfo
package pkg
