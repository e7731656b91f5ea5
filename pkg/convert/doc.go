// Package convert runs lockfile conversions for whole projects.
//
// A project is a directory holding a package.json, an installed
// node_modules tree and one of the two lockfiles. [YarnToNpm] writes a
// package-lock.json from the yarn.lock; [NpmToYarn] does the reverse. Both
// read the installed tree to learn which version lives at which path, and
// the source lockfile to learn where each version came from.
//
// [Run] picks the direction from the source file name, and [RunAll]
// converts several independent projects in parallel. [Check] compares the
// two lockfiles of a project without writing anything.
//
// Progress is reported through [observability.Convert] and
// [observability.File] hooks.
package convert
