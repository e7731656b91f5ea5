// Package lockfile translates resolved dependency graphs between the
// nested installation-tree lock format (package-lock.json) and the flat
// registry lock format (yarn.lock).
//
// # Overview
//
// The two formats describe the same thing differently:
//
//   - The nested format has one record per install path
//     (node_modules/a/node_modules/b). Sub-dependencies are expressed by
//     nesting and each record carries a resolved URL plus an SRI integrity
//     string ("sha512-...").
//   - The flat format has one record per unique name+version, keyed by
//     every "name@range" descriptor that resolved to it. The verification
//     hash is a hex fragment on the resolved URL ("...tgz#<sha1-hex>").
//
// Neither side is re-resolved against a registry. An installed tree
// ([Tree], usually produced by walking node_modules) says which identity
// lives at which path; the opposite lockfile says where each identity was
// fetched from.
//
// # Components
//
//   - [Codec] converts one package's source reference between the two
//     encodings. [Codec.Classify] turns a raw reference into a [Source]
//     tagged with a [SourceKind] so both directions switch on the tag.
//   - [FindInFlat] and [NestedIndex.Find] locate the counterpart of an
//     identity in the other format's table.
//   - [ResolveRequires] maps declared name→range pairs to exact installed
//     versions using the flat table.
//   - [BuildFlat] assembles a flat table from a tree walk, merging repeated
//     visits through an [Accumulator].
//   - [BuildNested] assembles the nested lock, one [NestedEntry] per
//     install path.
//
// # Bundled Dependencies
//
// A node with no counterpart in the other format is treated as a bundled
// dependency: it is skipped together with its subtree and reported in the
// result's Bundled list. This is never an error. Errors are reserved for
// references the [Codec] cannot understand (malformed URLs, unknown
// integrity algorithms), and every such error names the package that
// triggered it.
//
// All values are built fresh per conversion and nothing is shared between
// calls, so independent conversions may run in parallel.
package lockfile
