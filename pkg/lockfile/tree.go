package lockfile

import (
	"maps"
)

// NestedNode is one installed package, identified by its install path.
// The root node describes the project itself and has an empty Path.
type NestedNode struct {
	Path    string // e.g. "node_modules/a/node_modules/b"
	Name    string
	Version string

	// Declared dependency ranges, as written in the package's package.json.
	Dependencies         map[string]string
	OptionalDependencies map[string]string
	// DevDependencies is only honored on the root node.
	DevDependencies map[string]string

	// Children are the packages installed in this node's own node_modules.
	Children map[string]*NestedNode

	parent *NestedNode
}

// Identity returns the node's name and version.
func (n *NestedNode) Identity() Identity {
	return Identity{Name: n.Name, Version: n.Version}
}

// Parent returns the node this one is installed under, or nil for the root.
func (n *NestedNode) Parent() *NestedNode {
	return n.parent
}

// AddChild installs c under n and derives its Path.
func (n *NestedNode) AddChild(c *NestedNode) {
	if n.Children == nil {
		n.Children = make(map[string]*NestedNode)
	}
	c.parent = n
	c.setPath(childPath(n.Path, c.Name))
	n.Children[c.Name] = c
}

// setPath moves n, and everything installed beneath it, to path.
func (n *NestedNode) setPath(path string) {
	n.Path = path
	for _, c := range n.Children {
		c.setPath(childPath(path, c.Name))
	}
}

func childPath(parent, name string) string {
	if parent == "" {
		return "node_modules/" + name
	}
	return parent + "/node_modules/" + name
}

// SortedChildren returns the children ordered by name.
func (n *NestedNode) SortedChildren() []*NestedNode {
	out := make([]*NestedNode, 0, len(n.Children))
	for _, name := range sortedKeys(n.Children) {
		out = append(out, n.Children[name])
	}
	return out
}

// Declared returns every dependency range the node asks for at install
// time: dependencies and optionalDependencies, plus devDependencies for
// the root. Optional entries override regular ones of the same name.
func (n *NestedNode) Declared() map[string]string {
	out := make(map[string]string, len(n.Dependencies)+len(n.OptionalDependencies))
	if n.parent == nil {
		maps.Copy(out, n.DevDependencies)
	}
	maps.Copy(out, n.Dependencies)
	maps.Copy(out, n.OptionalDependencies)
	return out
}

// Tree is a walked installation tree.
type Tree struct {
	Root *NestedNode
}

// NewTree wraps root, which must have an empty Path.
func NewTree(root *NestedNode) *Tree {
	root.parent = nil
	root.setPath("")
	return &Tree{Root: root}
}

// Walk visits every installed node (not the root) depth-first, children in
// name order. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(*NestedNode) (bool, error)) error {
	return walk(t.Root, fn)
}

func walk(n *NestedNode, fn func(*NestedNode) (bool, error)) error {
	for _, c := range n.SortedChildren() {
		descend, err := fn(c)
		if err != nil {
			return err
		}
		if descend {
			if err := walk(c, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len returns the number of installed nodes.
func (t *Tree) Len() int {
	n := 0
	_ = t.Walk(func(*NestedNode) (bool, error) {
		n++
		return true, nil
	})
	return n
}

// Resolve returns the node a require of name from inside from would load,
// following node_modules lookup: from's own children first, then each
// ancestor's. Returns nil when nothing is installed under that name.
func (t *Tree) Resolve(from *NestedNode, name string) *NestedNode {
	for n := from; n != nil; n = n.parent {
		if c, ok := n.Children[name]; ok && c != from {
			return c
		}
	}
	return nil
}
