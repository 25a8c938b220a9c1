package layout

import (
	"github.com/panelize/panelize/pkg/errors"
)

// Autofit rewrites the tree's weights from the aspect ratios (width/height)
// of the cells' content, so that images in a group share a common scale:
//
//   - In a horizontal group every child shares the group's height, so a
//     child's width must be proportional to its aspect ratio. The composite
//     aspect of the group is the sum of its children's aspects.
//   - In a vertical group every child shares the group's width, so a child's
//     height must be proportional to the reciprocal of its aspect. The
//     composite aspect is the harmonic combination 1 / sum(1/a_i).
//
// The aspects map is keyed by cell ID; cells without an entry (empty cells,
// unreadable images) keep a neutral weight of 1. The pass runs bottom-up so
// nested groups contribute their composite aspect to their parent.
//
// Autofit returns the composite aspect ratio of the whole tree, or 0 when no
// cell has a known aspect.
func (t *Tree) Autofit(aspects map[string]float64) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.validateLocked(); err != nil {
		return 0, err
	}
	for id, a := range aspects {
		if a <= 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "aspect ratio for %s must be positive, got %g", id, a)
		}
	}

	composite := t.autofitLocked(t.root, aspects)
	return composite, nil
}

// autofitLocked optimizes the subtree rooted at id and returns its composite
// aspect ratio, or 0 when unknown. Callers must hold the write lock.
func (t *Tree) autofitLocked(id string, aspects map[string]float64) float64 {
	n := t.nodes[id]
	if n.IsCell() {
		return aspects[id]
	}

	childAspects := make([]float64, len(n.Children))
	for i, cid := range n.Children {
		childAspects[i] = t.autofitLocked(cid, aspects)
	}

	var composite float64
	switch n.Axis {
	case Horizontal:
		// Wider content earns more width; all children share the height.
		for i, cid := range n.Children {
			w := 1.0
			if a := childAspects[i]; a > 0 {
				w = a
			}
			t.nodes[cid].Weight = w
		}
		for _, a := range childAspects {
			if a > 0 {
				composite += a
			}
		}
	case Vertical:
		// Taller content earns more height; all children share the width.
		var inv float64
		for i, cid := range n.Children {
			w := 1.0
			if a := childAspects[i]; a > 0 {
				w = 1 / a
				inv += 1 / a
			}
			t.nodes[cid].Weight = w
		}
		if inv > 0 {
			composite = 1 / inv
		}
	}
	return composite
}

// OptimalHeight returns the content height at which the tree's cells keep
// their natural proportions for the given content width: each group's height
// follows from its children's aspect ratios, plus the vertical gaps and label
// bands the tree itself inserts. A tree with no known content yields 0.
//
// Callers typically add the page margins to size the full page.
func (t *Tree) OptimalHeight(contentWidth float64, aspects map[string]float64) float64 {
	if contentWidth <= 0 {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, known := t.naturalHeightLocked(t.root, contentWidth, aspects)
	if !known {
		return 0
	}
	return h
}

// naturalHeightLocked computes the natural height of the subtree at the given
// width. The second return reports whether any cell below has a known aspect;
// subtrees of entirely unknown content contribute no height. Callers must
// hold at least a read lock.
func (t *Tree) naturalHeightLocked(id string, width float64, aspects map[string]float64) (float64, bool) {
	n := t.nodes[id]
	if n.IsCell() {
		a := aspects[id]
		if a <= 0 {
			return 0, false
		}
		return width / a, true
	}

	var band float64
	if n.GroupLabel != "" && t.labelBand > 0 {
		band = t.labelBand
	}

	if n.Axis == Horizontal {
		// Children share the height; gaps consume width before it is
		// divided proportional to the aspects, and a label band sits on
		// top of the row.
		inner := width - float64(len(n.Children)-1)*t.gap
		var composite float64
		for _, cid := range n.Children {
			if a := t.compositeLocked(cid, aspects); a > 0 {
				composite += a
			}
		}
		if composite <= 0 || inner <= 0 {
			return 0, false
		}
		return inner/composite + band, true
	}

	// Vertical: heights stack, gaps stack with them, a label band narrows
	// the children from the left.
	childWidth := width - band
	if childWidth <= 0 {
		return 0, false
	}
	var total float64
	known := false
	for _, cid := range n.Children {
		if h, ok := t.naturalHeightLocked(cid, childWidth, aspects); ok {
			total += h
			known = true
		}
	}
	if !known {
		return 0, false
	}
	return total + float64(len(n.Children)-1)*t.gap, true
}

// compositeLocked computes the composite aspect ratio of a subtree without
// mutating weights. Callers must hold at least a read lock.
func (t *Tree) compositeLocked(id string, aspects map[string]float64) float64 {
	n := t.nodes[id]
	if n.IsCell() {
		return aspects[id]
	}

	var composite float64
	switch n.Axis {
	case Horizontal:
		for _, cid := range n.Children {
			if a := t.compositeLocked(cid, aspects); a > 0 {
				composite += a
			}
		}
	case Vertical:
		var inv float64
		for _, cid := range n.Children {
			if a := t.compositeLocked(cid, aspects); a > 0 {
				inv += 1 / a
			}
		}
		if inv > 0 {
			composite = 1 / inv
		}
	}
	return composite
}
