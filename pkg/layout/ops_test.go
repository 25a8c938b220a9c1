package layout

import (
	"testing"

	"github.com/panelize/panelize/pkg/errors"
)

func TestSplitRatio(t *testing.T) {
	// Splitting with ratio 0.3 produces a group whose first child has
	// weight 0.3 and second has weight 0.7.
	tr := New()
	original := tr.RootID()

	fresh, err := tr.Split(original, Vertical, 0.3)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}

	group, ok := tr.Node(tr.RootID())
	if !ok || !group.IsSplit() {
		t.Fatal("root should now be a split group")
	}
	if group.Axis != Vertical {
		t.Errorf("group axis = %q, want vertical", group.Axis)
	}
	if len(group.Children) != 2 || group.Children[0] != original || group.Children[1] != fresh {
		t.Errorf("group children = %v, want [%s %s]", group.Children, original, fresh)
	}

	first, _ := tr.Node(original)
	second, _ := tr.Node(fresh)
	if !approx(first.Weight, 0.3) {
		t.Errorf("first child weight = %g, want 0.3", first.Weight)
	}
	if !approx(second.Weight, 0.7) {
		t.Errorf("second child weight = %g, want 0.7", second.Weight)
	}
}

func TestSplitPreservesOuterWeight(t *testing.T) {
	// The group takes over the cell's weight so siblings are unaffected.
	tr := New()
	right, err := tr.Split(tr.RootID(), Horizontal, 0.5)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if err := tr.SetWeight(right, 2.5); err != nil {
		t.Fatalf("SetWeight error: %v", err)
	}

	if _, err := tr.Split(right, Vertical, 0.5); err != nil {
		t.Fatalf("Split error: %v", err)
	}

	root, _ := tr.Node(tr.RootID())
	inner, _ := tr.Node(root.Children[1])
	if !inner.IsSplit() {
		t.Fatal("right child should be the new inner group")
	}
	if !approx(inner.Weight, 2.5) {
		t.Errorf("inner group weight = %g, want 2.5 (inherited from the cell)", inner.Weight)
	}
}

func TestSplitErrors(t *testing.T) {
	tr := New()
	root := tr.RootID()

	tests := []struct {
		name  string
		cell  string
		axis  Axis
		ratio float64
		code  errors.Code
	}{
		{"bad axis", root, Axis("diagonal"), 0.5, errors.ErrCodeInvalidOperation},
		{"ratio zero", root, Horizontal, 0, errors.ErrCodeInvalidOperation},
		{"ratio one", root, Horizontal, 1, errors.ErrCodeInvalidOperation},
		{"ratio above one", root, Horizontal, 1.2, errors.ErrCodeInvalidOperation},
		{"missing cell", "nope", Horizontal, 0.5, errors.ErrCodeNodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.Split(tt.cell, tt.axis, tt.ratio); !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}

	// A split group cannot itself be split.
	tr.Split(root, Horizontal, 0.5)
	if _, err := tr.Split(tr.RootID(), Horizontal, 0.5); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("splitting a group: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
}

func TestSplitN(t *testing.T) {
	tr := New()
	original := tr.RootID()

	created, err := tr.SplitN(original, Vertical, []float64{2, 1, 1})
	if err != nil {
		t.Fatalf("SplitN error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d cells, want 2", len(created))
	}

	group, _ := tr.Node(tr.RootID())
	if len(group.Children) != 3 {
		t.Fatalf("group has %d children, want 3", len(group.Children))
	}
	if group.Children[0] != original {
		t.Errorf("first child = %s, want the original cell %s", group.Children[0], original)
	}
	first, _ := tr.Node(original)
	if !approx(first.Weight, 2) {
		t.Errorf("original cell weight = %g, want 2", first.Weight)
	}

	if _, err := tr.SplitN(created[0], Horizontal, []float64{1}); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("single weight: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
	if _, err := tr.SplitN(created[0], Horizontal, []float64{1, -1}); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("negative weight: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
}

func TestInsertCell(t *testing.T) {
	tr := New()
	tr.Split(tr.RootID(), Horizontal, 0.5)
	groupID := tr.RootID()

	mid, err := tr.InsertCell(groupID, 1, 2)
	if err != nil {
		t.Fatalf("InsertCell error: %v", err)
	}

	group, _ := tr.Node(groupID)
	if len(group.Children) != 3 {
		t.Fatalf("group has %d children, want 3", len(group.Children))
	}
	if group.Children[1] != mid {
		t.Errorf("inserted cell at position %d, want 1", indexOf(group.Children, mid))
	}

	// Out of range positions clamp to the end.
	last, err := tr.InsertCell(groupID, 99, 1)
	if err != nil {
		t.Fatalf("InsertCell error: %v", err)
	}
	group, _ = tr.Node(groupID)
	if group.Children[len(group.Children)-1] != last {
		t.Error("out-of-range insert should append at the end")
	}

	if _, err := tr.InsertCell(mid, 0, 1); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("inserting into a cell: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
	if _, err := tr.InsertCell(groupID, 0, 0); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("zero weight: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestRemoveCollapsesParent(t *testing.T) {
	// Split then remove the new cell: the tree returns to a single root
	// cell, and the survivor keeps the ID it had before the split.
	tr := New()
	original := tr.RootID()

	fresh, err := tr.Split(original, Horizontal, 0.5)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if err := tr.Remove(fresh); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	if tr.RootID() != original {
		t.Errorf("root = %s, want the original cell %s", tr.RootID(), original)
	}
	if tr.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", tr.NodeCount())
	}
	root, _ := tr.Node(original)
	if !approx(root.Weight, 1) {
		t.Errorf("survivor weight = %g, want the group's weight 1", root.Weight)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate after remove: %v", err)
	}
}

func TestRemoveRootCellResets(t *testing.T) {
	tr := New()
	root := tr.RootID()
	tr.SetImage(root, "fig1.png")
	tr.SetLabel(root, "(a)", "#000000")

	if err := tr.Remove(root); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	n, ok := tr.Node(root)
	if !ok {
		t.Fatal("root cell should survive as an empty cell")
	}
	if n.Image != "" || n.Label != "" {
		t.Errorf("root cell not reset: image=%q label=%q", n.Image, n.Label)
	}
}

func TestRemoveFromWideGroup(t *testing.T) {
	tr := New()
	created, _ := tr.SplitN(tr.RootID(), Horizontal, []float64{1, 1, 1})

	if err := tr.Remove(created[0]); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	// Two children remain, no collapse.
	group, _ := tr.Node(tr.RootID())
	if !group.IsSplit() || len(group.Children) != 2 {
		t.Errorf("group should keep 2 children, got %+v", group)
	}
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate after remove: %v", err)
	}
}

func TestCollapse(t *testing.T) {
	tr := New()
	fresh, _ := tr.Split(tr.RootID(), Horizontal, 0.5)
	groupID := tr.RootID()

	if _, err := tr.Collapse(groupID); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("collapse with 2 children: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}

	// Drop one child directly so the group degenerates, then collapse.
	survivorID := fresh
	first, _ := tr.Node(groupID)
	other := first.Children[0]
	if err := tr.Remove(other); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	// Remove auto-collapses, so the survivor is now root.
	if tr.RootID() != survivorID {
		t.Errorf("root = %s, want survivor %s", tr.RootID(), survivorID)
	}

	if _, err := tr.Collapse(survivorID); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("collapsing a cell: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
	if _, err := tr.Collapse("nope"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("collapsing missing node: code = %v, want NODE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestSetters(t *testing.T) {
	tr := New()
	root := tr.RootID()

	if err := tr.SetImage(root, "panels/a.png"); err != nil {
		t.Fatalf("SetImage error: %v", err)
	}
	if err := tr.SetRotation(root, 90); err != nil {
		t.Fatalf("SetRotation error: %v", err)
	}
	if err := tr.SetRotation(root, 45); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("rotation 45: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
	if err := tr.SetLabel(root, "(a)", "#ff0000"); err != nil {
		t.Fatalf("SetLabel error: %v", err)
	}
	if err := tr.SetWeight(root, -1); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("negative weight: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}

	n, _ := tr.Node(root)
	if n.Image != "panels/a.png" || n.Rotation != 90 || n.Label != "(a)" || n.LabelColor != "#ff0000" {
		t.Errorf("setters did not stick: %+v", n)
	}

	if err := tr.SetGroupLabel(root, "x"); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("group label on a cell: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
	tr.Split(root, Horizontal, 0.5)
	if err := tr.SetGroupLabel(tr.RootID(), "Experiment 1"); err != nil {
		t.Errorf("SetGroupLabel error: %v", err)
	}
}

func TestSetFitAndPadding(t *testing.T) {
	tr := New()
	root := tr.RootID()

	if err := tr.SetFit(root, FitCover); err != nil {
		t.Fatalf("SetFit error: %v", err)
	}
	if err := tr.SetPadding(root, UniformMargins(2)); err != nil {
		t.Fatalf("SetPadding error: %v", err)
	}
	n, _ := tr.Node(root)
	if n.Fit != FitCover || n.Padding != UniformMargins(2) {
		t.Errorf("cell fields = %q %+v, want cover with 2mm padding", n.Fit, n.Padding)
	}

	// Empty mode resets to the contain default.
	if err := tr.SetFit(root, ""); err != nil {
		t.Errorf("SetFit reset error: %v", err)
	}

	if err := tr.SetFit(root, "stretch"); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("fit stretch: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
	if err := tr.SetPadding(root, Margins{Top: -1}); !errors.Is(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("negative padding: code = %v, want INVALID_OPERATION", errors.GetCode(err))
	}
}

func TestLeavesReadingOrder(t *testing.T) {
	// Reading order is depth-first with children in stored order.
	tr := New()
	a := tr.RootID()
	b, _ := tr.Split(a, Horizontal, 0.5)
	c, _ := tr.Split(b, Vertical, 0.5)

	got := tr.Leaves()
	want := []string{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("got %d leaves, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("leaf[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNodeReturnsDetachedCopy(t *testing.T) {
	tr := New()
	tr.Split(tr.RootID(), Horizontal, 0.5)

	group, _ := tr.Node(tr.RootID())
	group.Children[0] = "tampered"

	again, _ := tr.Node(tr.RootID())
	if again.Children[0] == "tampered" {
		t.Error("Node should return a detached copy")
	}
}

func TestReconstructRejectsMalformedTrees(t *testing.T) {
	cell := func(id string, w float64) *Node { return &Node{ID: id, Kind: KindCell, Weight: w} }

	tests := []struct {
		name  string
		root  string
		nodes []*Node
	}{
		{"missing root", "r", []*Node{cell("a", 1)}},
		{"duplicate id", "a", []*Node{cell("a", 1), cell("a", 1)}},
		{"unknown child", "g", []*Node{
			{ID: "g", Kind: KindSplit, Axis: Horizontal, Weight: 1, Children: []string{"ghost"}},
		}},
		{"shared child", "g", []*Node{
			{ID: "g", Kind: KindSplit, Axis: Horizontal, Weight: 1, Children: []string{"a", "h"}},
			{ID: "h", Kind: KindSplit, Axis: Vertical, Weight: 1, Children: []string{"a"}},
			cell("a", 1),
		}},
		{"zero weight", "g", []*Node{
			{ID: "g", Kind: KindSplit, Axis: Horizontal, Weight: 1, Children: []string{"a", "b"}},
			cell("a", 0), cell("b", 1),
		}},
		{"childless split", "g", []*Node{
			{ID: "g", Kind: KindSplit, Axis: Horizontal, Weight: 1},
		}},
		{"unreachable node", "a", []*Node{cell("a", 1), cell("b", 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Reconstruct(tt.root, tt.nodes, Margins{}, 0, 0); !errors.Is(err, errors.ErrCodeInvalidTree) {
				t.Errorf("code = %v, want INVALID_TREE", errors.GetCode(err))
			}
		})
	}
}

func TestReconstructRoundTrip(t *testing.T) {
	nodes := []*Node{
		{ID: "root", Kind: KindSplit, Axis: Horizontal, Weight: 1, Children: []string{"a", "stack"}, GroupLabel: "Fig 1"},
		{ID: "a", Kind: KindCell, Weight: 0.4, Image: "a.png", Label: "(a)"},
		{ID: "stack", Kind: KindSplit, Axis: Vertical, Weight: 0.6, Children: []string{"b", "c"}},
		{ID: "b", Kind: KindCell, Weight: 1, Rotation: 90},
		{ID: "c", Kind: KindCell, Weight: 2, Nested: "inset.figlayout"},
	}
	tr, err := Reconstruct("root", nodes, UniformMargins(10), 2, 6)
	if err != nil {
		t.Fatalf("Reconstruct error: %v", err)
	}

	if tr.NodeCount() != 5 {
		t.Errorf("node count = %d, want 5", tr.NodeCount())
	}
	if got := tr.Leaves(); len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("leaves = %v, want [a b c]", got)
	}
	if tr.Gap() != 2 || tr.LabelBand() != 6 {
		t.Errorf("gap=%g band=%g, want 2 and 6", tr.Gap(), tr.LabelBand())
	}

	if _, err := tr.Resolve(Rect{W: 210, H: 297}); err != nil {
		t.Errorf("Resolve after Reconstruct: %v", err)
	}
}
