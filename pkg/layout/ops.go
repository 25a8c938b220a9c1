package layout

import (
	"github.com/panelize/panelize/pkg/errors"
)

// Split replaces the cell with the given ID by a new split group of the given
// axis containing two children: the original cell with weight = ratio, and a
// newly created empty cell with weight = 1 - ratio. The new group inherits
// the cell's former weight among its own siblings, so nothing outside the
// target's position changes. If the target is the root, the group becomes
// the new root.
//
// The ratio must lie strictly between 0 and 1. Returns the ID of the new
// empty cell.
func (t *Tree) Split(cellID string, axis Axis, ratio float64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !axis.Valid() {
		return "", errors.New(errors.ErrCodeInvalidOperation, "invalid split axis %q", axis)
	}
	if ratio <= 0 || ratio >= 1 {
		return "", errors.New(errors.ErrCodeInvalidOperation, "split ratio %g outside (0, 1)", ratio)
	}
	cell, ok := t.nodes[cellID]
	if !ok {
		return "", errors.New(errors.ErrCodeNodeNotFound, "no such cell %s", cellID)
	}
	if !cell.IsCell() {
		return "", errors.New(errors.ErrCodeInvalidOperation, "node %s is not a cell", cellID)
	}

	fresh := &Node{ID: newID(), Kind: KindCell, Weight: 1 - ratio}
	group := &Node{
		ID:       newID(),
		Kind:     KindSplit,
		Axis:     axis,
		Weight:   cell.Weight,
		Children: []string{cell.ID, fresh.ID},
		parent:   cell.parent,
	}
	cell.Weight = ratio
	cell.parent = group.ID
	fresh.parent = group.ID

	t.nodes[fresh.ID] = fresh
	t.nodes[group.ID] = group

	if group.parent == "" {
		t.root = group.ID
	} else {
		t.replaceChildLocked(group.parent, cellID, group.ID)
	}
	return fresh.ID, nil
}

// SplitN replaces a cell with a split group of n children, where n is the
// length of weights: the original cell (keeping its content) followed by
// n-1 new empty cells, each with the corresponding weight. It generalizes
// Split to wider groups, as used by the grid bootstrap. Returns the IDs of
// the newly created cells.
func (t *Tree) SplitN(cellID string, axis Axis, weights []float64) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !axis.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "invalid split axis %q", axis)
	}
	if len(weights) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "split needs at least 2 weights, got %d", len(weights))
	}
	for _, w := range weights {
		if w <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidOperation, "weight must be positive, got %g", w)
		}
	}
	cell, ok := t.nodes[cellID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "no such cell %s", cellID)
	}
	if !cell.IsCell() {
		return nil, errors.New(errors.ErrCodeInvalidOperation, "node %s is not a cell", cellID)
	}

	group := &Node{
		ID:       newID(),
		Kind:     KindSplit,
		Axis:     axis,
		Weight:   cell.Weight,
		Children: make([]string, 0, len(weights)),
		parent:   cell.parent,
	}
	cell.Weight = weights[0]
	cell.parent = group.ID
	group.Children = append(group.Children, cell.ID)

	created := make([]string, 0, len(weights)-1)
	for _, w := range weights[1:] {
		fresh := &Node{ID: newID(), Kind: KindCell, Weight: w, parent: group.ID}
		t.nodes[fresh.ID] = fresh
		group.Children = append(group.Children, fresh.ID)
		created = append(created, fresh.ID)
	}
	t.nodes[group.ID] = group

	if group.parent == "" {
		t.root = group.ID
	} else {
		t.replaceChildLocked(group.parent, cellID, group.ID)
	}
	return created, nil
}

// InsertCell appends a new empty cell to an existing split group at the
// given position. Positions outside [0, len(children)] clamp to the end.
// Returns the new cell's ID.
func (t *Tree) InsertCell(groupID string, at int, weight float64) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if weight <= 0 {
		return "", errors.New(errors.ErrCodeInvalidOperation, "weight must be positive, got %g", weight)
	}
	group, ok := t.nodes[groupID]
	if !ok {
		return "", errors.New(errors.ErrCodeNodeNotFound, "no such group %s", groupID)
	}
	if !group.IsSplit() {
		return "", errors.New(errors.ErrCodeInvalidOperation, "node %s is not a split group", groupID)
	}

	fresh := &Node{ID: newID(), Kind: KindCell, Weight: weight, parent: groupID}
	t.nodes[fresh.ID] = fresh

	if at < 0 || at > len(group.Children) {
		at = len(group.Children)
	}
	group.Children = append(group.Children[:at], append([]string{fresh.ID}, group.Children[at:]...)...)
	return fresh.ID, nil
}

// Collapse removes a split group that has been reduced to a single child,
// promoting that child into the group's place. The survivor inherits the
// group's weight so the surrounding proportions are unchanged. If the group
// is the root, the survivor becomes the new root.
//
// Returns ErrCodeInvalidOperation if the group still has more than one child.
func (t *Tree) Collapse(groupID string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	group, ok := t.nodes[groupID]
	if !ok {
		return "", errors.New(errors.ErrCodeNodeNotFound, "no such group %s", groupID)
	}
	if !group.IsSplit() {
		return "", errors.New(errors.ErrCodeInvalidOperation, "node %s is not a split group", groupID)
	}
	if len(group.Children) != 1 {
		return "", errors.New(errors.ErrCodeInvalidOperation, "group %s has %d children, collapse requires exactly one", groupID, len(group.Children))
	}

	survivor := t.nodes[group.Children[0]]
	survivor.Weight = group.Weight
	survivor.parent = group.parent
	delete(t.nodes, groupID)

	if survivor.parent == "" {
		t.root = survivor.ID
	} else {
		t.replaceChildLocked(survivor.parent, groupID, survivor.ID)
	}
	return survivor.ID, nil
}

// Remove deletes a cell from the tree. A parent left with a single remaining
// child is collapsed automatically, so the tree never holds degenerate
// groups. Removing the root cell resets it to an empty cell instead, since a
// tree always owns exactly one root.
func (t *Tree) Remove(cellID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cell, ok := t.nodes[cellID]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "no such cell %s", cellID)
	}
	if !cell.IsCell() {
		return errors.New(errors.ErrCodeInvalidOperation, "node %s is not a cell", cellID)
	}

	if cell.parent == "" {
		*cell = Node{ID: cell.ID, Kind: KindCell, Weight: 1}
		return nil
	}

	parent := t.nodes[cell.parent]
	parent.Children = removeString(parent.Children, cellID)
	delete(t.nodes, cellID)

	if len(parent.Children) == 1 {
		survivor := t.nodes[parent.Children[0]]
		survivor.Weight = parent.Weight
		survivor.parent = parent.parent
		delete(t.nodes, parent.ID)
		if survivor.parent == "" {
			t.root = survivor.ID
		} else {
			t.replaceChildLocked(survivor.parent, parent.ID, survivor.ID)
		}
	}
	return nil
}

// SetWeight changes a node's proportional share among its siblings.
// The weight must be strictly positive.
func (t *Tree) SetWeight(id string, weight float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if weight <= 0 {
		return errors.New(errors.ErrCodeInvalidOperation, "weight must be positive, got %g", weight)
	}
	n, ok := t.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "no such node %s", id)
	}
	n.Weight = weight
	return nil
}

// SetImage assigns an image reference to a cell. An empty path clears the
// reference. The path is opaque to the layout core.
func (t *Tree) SetImage(cellID, path string) error {
	return t.setCell(cellID, func(n *Node) { n.Image = path })
}

// SetNested assigns a nested document reference to a cell.
func (t *Tree) SetNested(cellID, path string) error {
	return t.setCell(cellID, func(n *Node) { n.Nested = path })
}

// SetFit sets how a cell's image fills its rectangle: FitContain letterboxes,
// FitCover fills and crops. An empty mode resets to the contain default.
func (t *Tree) SetFit(cellID, mode string) error {
	switch mode {
	case "", FitContain, FitCover:
	default:
		return errors.New(errors.ErrCodeInvalidOperation, "fit must be %q or %q, got %q", FitContain, FitCover, mode)
	}
	return t.setCell(cellID, func(n *Node) { n.Fit = mode })
}

// SetPadding sets the inner padding between a cell's edge and its content.
func (t *Tree) SetPadding(cellID string, p Margins) error {
	if p.Top < 0 || p.Right < 0 || p.Bottom < 0 || p.Left < 0 {
		return errors.New(errors.ErrCodeInvalidOperation, "padding must not be negative, got %+v", p)
	}
	return t.setCell(cellID, func(n *Node) { n.Padding = p })
}

// SetRotation sets a cell's content rotation in degrees.
// Only quarter turns are supported.
func (t *Tree) SetRotation(cellID string, degrees int) error {
	switch degrees {
	case 0, 90, 180, 270:
	default:
		return errors.New(errors.ErrCodeInvalidOperation, "rotation must be 0, 90, 180 or 270, got %d", degrees)
	}
	return t.setCell(cellID, func(n *Node) { n.Rotation = degrees })
}

// SetLabel assigns a panel label and color to a cell.
func (t *Tree) SetLabel(cellID, text, color string) error {
	return t.setCell(cellID, func(n *Node) {
		n.Label = text
		n.LabelColor = color
	})
}

// SetGroupLabel assigns a label to a split group. The label is rendered in a
// band reserved from the group's rectangle before children are allocated.
func (t *Tree) SetGroupLabel(groupID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[groupID]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "no such group %s", groupID)
	}
	if !n.IsSplit() {
		return errors.New(errors.ErrCodeInvalidOperation, "node %s is not a split group", groupID)
	}
	n.GroupLabel = text
	return nil
}

// setCell applies fn to the cell with the given ID under the write lock.
func (t *Tree) setCell(cellID string, fn func(*Node)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[cellID]
	if !ok {
		return errors.New(errors.ErrCodeNodeNotFound, "no such cell %s", cellID)
	}
	if !n.IsCell() {
		return errors.New(errors.ErrCodeInvalidOperation, "node %s is not a cell", cellID)
	}
	fn(n)
	return nil
}

// replaceChildLocked swaps oldID for newID in the parent's child list,
// keeping the ordinal position. Callers must hold the write lock.
func (t *Tree) replaceChildLocked(parentID, oldID, newID string) {
	parent := t.nodes[parentID]
	for i, cid := range parent.Children {
		if cid == oldID {
			parent.Children[i] = newID
			return
		}
	}
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
