// Package npmlock reads and writes package-lock.json files.
//
// [Read] understands lockfileVersion 1 (a nested "dependencies" tree) and
// lockfileVersion 2 and 3 (a flat "packages" map keyed by install path).
// Either way the result is a [File] listing one [lockfile.LockedPackage]
// per install path, which [File.Index] turns into the lookup structure the
// conversion core needs.
//
// [Write] emits lockfileVersion 1, the format every npm release since 5
// can install from, with two-space indentation and a trailing newline.
package npmlock
