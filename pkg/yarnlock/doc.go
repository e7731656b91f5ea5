// Package yarnlock reads and writes yarn.lock (lockfile v1) files.
//
// # Format
//
// A yarn.lock is a flat list of entries. Each entry is keyed by every
// "name@range" descriptor that resolved to it and records one exact
// version:
//
//	"@babel/core@^7.0.0", "@babel/core@^7.1.0":
//	  version "7.1.2"
//	  resolved "https://registry.yarnpkg.com/@babel/core/-/core-7.1.2.tgz#4e8a..."
//	  integrity sha512-...
//	  dependencies:
//	    "@babel/generator" "^7.1.2"
//
// [Parse] turns such a file into a [lockfile.FlatTable] in file order;
// [Write] renders a table the way yarn itself does (sorted keys, yarn's
// quoting rules and field order) so that a converted lockfile produces no
// diff on the next "yarn install".
//
// Fields other than version, resolved, integrity, dependencies and
// optionalDependencies are accepted and ignored. Lockfiles written by
// yarn 2+ ("__metadata:") use a different grammar and are rejected.
package yarnlock
