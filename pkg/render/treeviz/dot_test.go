package treeviz

import (
	"strings"
	"testing"

	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

func TestToDOT(t *testing.T) {
	d := figlayout.New("fig")
	root := d.Tree.RootID()
	right, err := d.Tree.Split(root, layout.Horizontal, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	d.Tree.SetImage(root, "panels/blot.png")
	d.Tree.SetNested(right, "inset.figlayout")

	dot := ToDOT(d, Options{})

	if !strings.HasPrefix(dot, "digraph layout {") || !strings.HasSuffix(dot, "}\n") {
		t.Error("malformed DOT document")
	}
	if !strings.Contains(dot, "horizontal") {
		t.Error("split axis missing from group label")
	}
	if !strings.Contains(dot, "blot.png") {
		t.Error("image base name missing from cell label")
	}
	if !strings.Contains(dot, "nested: inset.figlayout") {
		t.Error("nested reference missing from cell label")
	}
	// One edge per parent-child relation.
	if got := strings.Count(dot, "->"); got != 2 {
		t.Errorf("edge count = %d, want 2", got)
	}
	// Splits are visually distinct.
	if !strings.Contains(dot, "fillcolor=lightgrey") {
		t.Error("split group styling missing")
	}
}

func TestToDOTDetailed(t *testing.T) {
	d := figlayout.New("fig")
	d.Tree.SetLabel(d.Tree.RootID(), "(a)", "")

	plain := ToDOT(d, Options{})
	detailed := ToDOT(d, Options{Detailed: true})

	if strings.Contains(plain, "(a)") {
		t.Error("plain output should omit label text")
	}
	if !strings.Contains(detailed, "(a)") {
		t.Error("detailed output should include label text")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 612.00 792.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 612.00 792.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="612" height="792"`) {
		t.Errorf("pixel size not derived from viewBox: %s", out)
	}

	// SVGs without a viewBox pass through untouched.
	plain := []byte(`<svg width="10" height="10"></svg>`)
	if got := string(normalizeViewBox(plain)); got != string(plain) {
		t.Error("viewBox-less SVG modified")
	}
}
