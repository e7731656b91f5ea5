// Package nodemodules reads an installed node_modules tree.
//
// [Walk] starts at a project directory, reads its package.json and then
// every package.json under node_modules, recursively, producing a
// [lockfile.Tree] whose paths mirror the install layout:
//
//	node_modules/a
//	node_modules/a/node_modules/b
//	node_modules/@scope/c
//
// Each node is named after the directory it is installed in, which is
// what dependents resolve by, and versioned from its package.json.
// Dot directories (.bin, .cache) and directories without a package.json
// are skipped. Symlinked packages are followed once.
package nodemodules
