package layout

import (
	"github.com/panelize/panelize/pkg/errors"
)

// Resolve computes a concrete rectangle for every cell given an outer
// bounding box, in the same units as the box. The outer margins are
// subtracted first; inside each split group an optional label band is
// reserved from the leading edge of the axis perpendicular to the split,
// then the remaining length along the split axis is partitioned among the
// children proportional to weight, with the inter-cell gap inserted between
// consecutive children. Gaps never count toward a child's share: each child
// receives (available - (n-1)*gap) * weight / sum(weights).
//
// The final child of every group absorbs accumulated floating-point
// remainder, so child rectangles exactly tile the group: the union of all
// cell rectangles, gaps and label bands equals the margin-adjusted outer
// rectangle with no drift and no overlap.
//
// Resolve is a pure function of the tree and the outer rectangle. On any
// error it returns no mapping at all. It fails with ErrCodeInvalidGeometry
// when available space becomes non-positive at any level, and with
// ErrCodeInvalidTree when the tree is structurally malformed.
func (t *Tree) Resolve(outer Rect) (map[string]Rect, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if outer.W <= 0 || outer.H <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "outer rectangle %gx%g has no area", outer.W, outer.H)
	}
	if err := t.validateLocked(); err != nil {
		return nil, err
	}

	avail := outer.Inset(t.margins)
	if avail.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"margins leave no space: %.2fx%.2f after insetting %gx%g", avail.W, avail.H, outer.W, outer.H)
	}

	all := make(map[string]Rect, len(t.nodes))
	if err := t.resolveLocked(t.root, avail, all); err != nil {
		return nil, err
	}

	out := make(map[string]Rect, len(all))
	for id, r := range all {
		if t.nodes[id].IsCell() {
			out[id] = r
		}
	}
	return out, nil
}

// ResolveFull is Resolve with split groups included in the mapping. A
// group's rectangle is its full allocation before the label band is
// reserved, which is what renderers need to place group labels. The cell
// rectangles are identical to those returned by Resolve.
func (t *Tree) ResolveFull(outer Rect) (map[string]Rect, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if outer.W <= 0 || outer.H <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "outer rectangle %gx%g has no area", outer.W, outer.H)
	}
	if err := t.validateLocked(); err != nil {
		return nil, err
	}

	avail := outer.Inset(t.margins)
	if avail.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidGeometry,
			"margins leave no space: %.2fx%.2f after insetting %gx%g", avail.W, avail.H, outer.W, outer.H)
	}

	out := make(map[string]Rect, len(t.nodes))
	if err := t.resolveLocked(t.root, avail, out); err != nil {
		return nil, err
	}
	return out, nil
}

// resolveLocked allocates r to the node with the given ID and recurses.
// Cell rectangles are recorded in out; split groups partition r among their
// children. Callers must hold at least a read lock.
func (t *Tree) resolveLocked(id string, r Rect, out map[string]Rect) error {
	n := t.nodes[id]
	out[id] = r
	if n.IsCell() {
		return nil
	}

	if n.GroupLabel != "" && t.labelBand > 0 {
		r = reserveBand(r, n.Axis, t.labelBand)
		if r.Empty() {
			return errors.New(errors.ErrCodeInvalidGeometry, "label band leaves no space in group %s", id)
		}
	}

	length := r.W
	if n.Axis == Vertical {
		length = r.H
	}
	gaps := float64(len(n.Children)-1) * t.gap
	avail := length - gaps
	if avail <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry,
			"group %s has %.2f length for %d children after %.2f of gaps", id, avail, len(n.Children), gaps)
	}

	var wsum float64
	for _, cid := range n.Children {
		wsum += t.nodes[cid].Weight
	}

	cursor := r.X
	if n.Axis == Vertical {
		cursor = r.Y
	}
	for i, cid := range n.Children {
		share := avail * t.nodes[cid].Weight / wsum
		end := cursor + share
		if i == len(n.Children)-1 {
			// Last child absorbs the floating-point remainder so the
			// children tile the group exactly.
			if n.Axis == Horizontal {
				end = r.Right()
			} else {
				end = r.Bottom()
			}
		}

		var child Rect
		if n.Axis == Horizontal {
			child = Rect{X: cursor, Y: r.Y, W: end - cursor, H: r.H}
		} else {
			child = Rect{X: r.X, Y: cursor, W: r.W, H: end - cursor}
		}
		if child.Empty() {
			return errors.New(errors.ErrCodeInvalidGeometry, "node %s resolves to %gx%g", cid, child.W, child.H)
		}
		if err := t.resolveLocked(cid, child, out); err != nil {
			return err
		}
		cursor = end + t.gap
	}
	return nil
}

// reserveBand subtracts a label band from the leading edge of the axis
// perpendicular to the split: groups laid out horizontally reserve the band
// along the top, vertically stacked groups reserve it along the left.
func reserveBand(r Rect, axis Axis, band float64) Rect {
	if axis == Horizontal {
		return Rect{X: r.X, Y: r.Y + band, W: r.W, H: r.H - band}
	}
	return Rect{X: r.X + band, Y: r.Y, W: r.W - band, H: r.H}
}

// BandRect returns the label band rectangle a split group reserves inside
// its allocated rectangle, for renderers that draw group labels. The second
// return is false when the group reserves no band.
func BandRect(allocated Rect, axis Axis, band float64) (Rect, bool) {
	if band <= 0 {
		return Rect{}, false
	}
	if axis == Horizontal {
		return Rect{X: allocated.X, Y: allocated.Y, W: allocated.W, H: band}, true
	}
	return Rect{X: allocated.X, Y: allocated.Y, W: band, H: allocated.H}, true
}
