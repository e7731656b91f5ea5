package lockfile

import (
	errs "github.com/matzehuels/lockbridge/pkg/errors"
)

// FlatLock is the result of [BuildFlat].
type FlatLock struct {
	Table   *FlatTable
	Bundled []Identity // nodes skipped for lack of a nested-lock counterpart
}

// BuildFlat assembles a flat lock from an installed tree and the nested
// lock it was installed from.
//
// Every installed node is looked up in index. Nodes without a counterpart
// are bundled and skipped along with their subtree. For the others the
// locked reference is re-encoded with codec and merged, together with the
// node's declared dependency ranges, into the node's name@version bucket.
// Each dependency edge of the tree (the root's devDependencies included)
// then contributes its range as a descriptor of the identity it resolves
// to, which is how flat lock keys are formed.
func BuildFlat(tree *Tree, index *NestedIndex, codec Codec) (*FlatLock, error) {
	acc := NewAccumulator()
	out := &FlatLock{}

	addDescriptors(tree, tree.Root, acc)
	err := tree.Walk(func(n *NestedNode) (bool, error) {
		locked, ok := FindInNested(n.Identity(), index)
		if !ok {
			out.Bundled = append(out.Bundled, n.Identity())
			return false, nil
		}

		resolved := locked.Resolved
		if resolved == "" {
			resolved = locked.Version
		}
		flatResolved, err := codec.ToFlat(resolved, locked.Integrity)
		if err != nil {
			return false, annotate(err, n)
		}

		acc.Merge(n.Identity(), FlatRecord{
			Version:              n.Version,
			Resolved:             flatResolved,
			Integrity:            ModernIntegrity(locked.Integrity),
			Dependencies:         n.Dependencies,
			OptionalDependencies: n.OptionalDependencies,
		})
		addDescriptors(tree, n, acc)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	out.Table = acc.Table()
	return out, nil
}

// addDescriptors records, for each range n declares, which installed
// identity that range resolved to.
func addDescriptors(tree *Tree, n *NestedNode, acc *Accumulator) {
	declared := n.Declared()
	for _, name := range sortedKeys(declared) {
		if target := tree.Resolve(n, name); target != nil {
			acc.AddDescriptor(target.Identity(), declared[name])
		}
	}
}

// annotate attaches the package that triggered err, keeping err's code so
// callers can still tell format errors apart.
func annotate(err error, n *NestedNode) error {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return errs.Wrap(code, err, "%s (%s)", n.Identity(), n.Path)
}
