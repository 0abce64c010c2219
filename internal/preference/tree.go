package preference

import "fmt"

// Tree is the parsed preference hierarchy plus flat lookups.
type Tree struct {
	name     string
	roots    []*Node
	byID     map[int]*Node
	byAccess map[string]*Node
	order    []*Node
	problems []error
}

func newTree(name string) *Tree {
	return &Tree{
		name:     name,
		byID:     make(map[int]*Node),
		byAccess: make(map[string]*Node),
	}
}

// NewTree assembles a tree from nodes built in code.
func NewTree(name string, roots ...*Node) (*Tree, error) {
	t := newTree(name)
	t.roots = roots
	var err error
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, child := range n.children {
			visit(child)
		}
		if err == nil {
			err = t.index(n)
		}
	}
	for _, root := range roots {
		visit(root)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) index(n *Node) error {
	if _, dup := t.byID[n.id]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateID, n.id)
	}
	if _, dup := t.byAccess[n.accessName]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateAccessName, n.accessName)
	}
	t.byID[n.id] = n
	t.byAccess[n.accessName] = n
	t.order = append(t.order, n)
	return nil
}

// Name is the store namespace declared by the markup.
func (t *Tree) Name() string { return t.name }

// Roots returns the top-level nodes in document order.
func (t *Tree) Roots() []*Node { return t.roots }

// Len returns the total number of nodes.
func (t *Tree) Len() int { return len(t.byID) }

// ByID looks up any node, root or nested.
func (t *Tree) ByID(id int) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// ByAccessName looks up a node by its persistence key.
func (t *Tree) ByAccessName(name string) (*Node, bool) {
	n, ok := t.byAccess[name]
	return n, ok
}

// Problems lists non-fatal failures met while building, such as radio maps
// that could not be read.
func (t *Tree) Problems() []error { return t.problems }

// Walk visits nodes depth-first in document order with their depth. Returning
// false stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var visit func(n *Node, depth int) bool
	visit = func(n *Node, depth int) bool {
		if !fn(n, depth) {
			return false
		}
		for _, child := range n.children {
			if !visit(child, depth+1) {
				return false
			}
		}
		return true
	}
	for _, root := range t.roots {
		if !visit(root, 0) {
			return
		}
	}
}

// finished returns nodes in the order they were completed (children first).
func (t *Tree) finished() []*Node { return t.order }
