// Package layout implements the hierarchical cell-splitting model at the core
// of Panelize: a recursive proportional grid that divides a page into panels.
//
// The model has two node variants. A Cell is a leaf region that may hold one
// image or label. A Split group is an internal node dividing its rectangle
// among an ordered list of children along one axis, proportional to each
// child's weight. Cells can be split again without limit, which yields
// arbitrarily nested vertical and horizontal stacks.
//
// Nodes live in an ID-indexed table owned by a single Tree controller.
// Mutations (Split, Collapse, Remove, setters) take an exclusive lock and
// apply atomically; Resolve takes a shared lock and is a pure function of the
// tree and the outer rectangle.
//
// # Usage
//
//	t := layout.New()
//	right, _ := t.Split(t.RootID(), layout.Horizontal, 0.5)
//	t.Split(right, layout.Vertical, 0.3)
//
//	rects, err := t.Resolve(layout.Rect{W: 180, H: 240})
//	if err != nil {
//	    return err
//	}
//	for _, id := range t.Leaves() {
//	    fmt.Println(id, rects[id])
//	}
package layout

import (
	"sync"

	"github.com/google/uuid"

	"github.com/panelize/panelize/pkg/errors"
)

// Tree is the layout tree controller: the root node, the node table, and the
// global spacing parameters. All access goes through its methods; mutation is
// serialized against resolution with a readers-writer lock.
type Tree struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	root  string

	margins   Margins
	gap       float64
	labelBand float64
}

// New creates a tree holding a single empty root cell with weight 1.
func New() *Tree {
	root := &Node{ID: newID(), Kind: KindCell, Weight: 1}
	return &Tree{
		nodes: map[string]*Node{root.ID: root},
		root:  root.ID,
	}
}

// Reconstruct builds a tree from a flat node list, as produced by document
// deserialization. Parent relations are derived from the Children lists.
// It returns ErrCodeInvalidTree if the nodes do not form a single rooted
// tree: unknown or duplicated child references, a missing root, non-positive
// weights, or a split group without children.
func Reconstruct(rootID string, nodes []*Node, margins Margins, gap, labelBand float64) (*Tree, error) {
	table := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidTree, "node with empty ID")
		}
		if _, dup := table[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTree, "duplicate node ID %s", n.ID)
		}
		table[n.ID] = n.clone()
	}

	if _, ok := table[rootID]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidTree, "root node %s not in table", rootID)
	}

	// Derive parent pointers and reject shared children.
	for _, n := range table {
		for _, cid := range n.Children {
			child, ok := table[cid]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidTree, "node %s references unknown child %s", n.ID, cid)
			}
			if child.parent != "" {
				return nil, errors.New(errors.ErrCodeInvalidTree, "node %s has multiple parents", cid)
			}
			child.parent = n.ID
		}
	}

	t := &Tree{nodes: table, root: rootID, margins: margins, gap: gap, labelBand: labelBand}
	if err := t.validateLocked(); err != nil {
		return nil, err
	}
	return t, nil
}

// newID returns a fresh node identifier.
func newID() string { return uuid.NewString() }

// RootID returns the ID of the root node.
func (t *Tree) RootID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Node returns a copy of the node with the given ID.
// The copy is detached: mutating it does not affect the tree.
func (t *Tree) Node(id string) (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	return n.clone(), true
}

// NodeCount returns the total number of nodes in the table.
func (t *Tree) NodeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Leaves returns the IDs of all cells in reading order (depth-first,
// children in their stored order). This is the order panel labels follow.
func (t *Tree) Leaves() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []string
	t.walkLocked(t.root, func(n *Node) {
		if n.IsCell() {
			out = append(out, n.ID)
		}
	})
	return out
}

// LeafCount returns the number of cells in the tree.
func (t *Tree) LeafCount() int {
	return len(t.Leaves())
}

// walkLocked visits the subtree rooted at id in depth-first preorder.
// Callers must hold at least a read lock.
func (t *Tree) walkLocked(id string, fn func(*Node)) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	fn(n)
	for _, cid := range n.Children {
		t.walkLocked(cid, fn)
	}
}

// Margins returns the outer page margins.
func (t *Tree) Margins() Margins {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.margins
}

// SetMargins replaces the outer page margins.
func (t *Tree) SetMargins(m Margins) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.margins = m
}

// Gap returns the inter-cell gap.
func (t *Tree) Gap() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.gap
}

// SetGap replaces the inter-cell gap. Negative gaps are clamped to zero.
func (t *Tree) SetGap(gap float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gap = max(gap, 0)
}

// LabelBand returns the height (or width, for vertical splits) reserved for
// group labels. Zero disables label bands entirely.
func (t *Tree) LabelBand() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.labelBand
}

// SetLabelBand replaces the label band size. Negative values are clamped to zero.
func (t *Tree) SetLabelBand(band float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.labelBand = max(band, 0)
}

// Validate checks the structural invariants of the tree: the root exists,
// every split group has at least one child, every weight is strictly
// positive, and every non-root node has exactly one parent. It returns
// ErrCodeInvalidTree describing the first violation found.
func (t *Tree) Validate() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.validateLocked()
}

func (t *Tree) validateLocked() error {
	root, ok := t.nodes[t.root]
	if !ok {
		return errors.New(errors.ErrCodeInvalidTree, "root node %s missing from table", t.root)
	}
	if root.parent != "" {
		return errors.New(errors.ErrCodeInvalidTree, "root node %s has a parent", t.root)
	}

	reached := 0
	var check func(id string) error
	check = func(id string) error {
		n := t.nodes[id]
		reached++
		if n.Weight <= 0 {
			return errors.New(errors.ErrCodeInvalidTree, "node %s has non-positive weight %g", id, n.Weight)
		}
		if n.IsCell() {
			if len(n.Children) > 0 {
				return errors.New(errors.ErrCodeInvalidTree, "cell %s has children", id)
			}
			return nil
		}
		if !n.Axis.Valid() {
			return errors.New(errors.ErrCodeInvalidTree, "split %s has invalid axis %q", id, n.Axis)
		}
		if len(n.Children) == 0 {
			return errors.New(errors.ErrCodeInvalidTree, "split %s has no children", id)
		}
		for _, cid := range n.Children {
			child, ok := t.nodes[cid]
			if !ok {
				return errors.New(errors.ErrCodeInvalidTree, "split %s references unknown child %s", id, cid)
			}
			if child.parent != id {
				return errors.New(errors.ErrCodeInvalidTree, "node %s parent mismatch", cid)
			}
			if err := check(cid); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(t.root); err != nil {
		return err
	}

	// Unreachable entries indicate a leaked mutation.
	if reached != len(t.nodes) {
		return errors.New(errors.ErrCodeInvalidTree, "%d nodes unreachable from root", len(t.nodes)-reached)
	}
	return nil
}
