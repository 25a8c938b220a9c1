package sink

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

// writeTestPNG drops a small PNG into dir and returns its path.
func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "panel.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return path
}

func testDocument(t *testing.T) *figlayout.Document {
	t.Helper()
	d := figlayout.New("fig1")
	d.SetPage(figlayout.PresetJournal2Col)

	root := d.Tree.RootID()
	right, err := d.Tree.Split(root, layout.Horizontal, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	d.Tree.SetImage(root, "blot.png")
	d.Tree.SetLabel(root, "(a)", "")
	d.Tree.SetLabel(right, "(b)", "#ffffff")
	return d
}

func TestRenderSVGStructure(t *testing.T) {
	d := testDocument(t)

	out, err := RenderSVG(d, WithoutImages(), WithFrames())
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	svg := string(out)

	if !strings.Contains(svg, `viewBox="0 0 178.000 297.000"`) {
		t.Error("viewBox does not match the journal-2col page")
	}
	if !strings.Contains(svg, `fill="#ffffff"/>`) {
		t.Error("missing page background")
	}
	if !strings.Contains(svg, ">(a)</text>") || !strings.Contains(svg, ">(b)</text>") {
		t.Error("missing panel labels")
	}
	// WithoutImages renders the reference as a placeholder.
	if !strings.Contains(svg, ">blot.png</text>") {
		t.Error("missing content placeholder")
	}
	// Frames: one outline per cell.
	if got := strings.Count(svg, `stroke="#999999"`); got != 2 {
		t.Errorf("frame count = %d, want 2", got)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("unterminated SVG document")
	}
}

func TestRenderSVGLabelColorFallback(t *testing.T) {
	d := figlayout.New("fig")
	d.Label.Color = "#123456"
	d.Tree.SetLabel(d.Tree.RootID(), "(a)", "")

	out, err := RenderSVG(d, WithoutImages())
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !strings.Contains(string(out), `fill="#123456">(a)</text>`) {
		t.Error("label should fall back to the document label color")
	}
}

func TestRenderSVGGroupLabelBand(t *testing.T) {
	d := testDocument(t)
	if err := d.Tree.SetGroupLabel(d.Tree.RootID(), "Experiment 1"); err != nil {
		t.Fatal(err)
	}

	out, err := RenderSVG(d, WithoutImages())
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !strings.Contains(string(out), ">Experiment 1</text>") {
		t.Error("missing group label")
	}
}

func TestRenderSVGEscapesText(t *testing.T) {
	d := figlayout.New("fig")
	d.TextItems = append(d.TextItems, figlayout.NewTextItem(`a < b & "c"`, 5, 5))

	out, err := RenderSVG(d)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	svg := string(out)
	if !strings.Contains(svg, "a &lt; b &amp; &quot;c&quot;") {
		t.Error("text content not escaped")
	}
	if strings.Contains(svg, `>a < b`) {
		t.Error("raw markup leaked into SVG")
	}
}

func TestRenderSVGMissingImageDegradesToPlaceholder(t *testing.T) {
	d := figlayout.New("fig")
	d.Tree.SetImage(d.Tree.RootID(), "/nowhere/gone.png")

	out, err := RenderSVG(d)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !strings.Contains(string(out), ">gone.png</text>") {
		t.Error("unreadable image should render as placeholder")
	}
}

func TestRenderSVGFitAndPadding(t *testing.T) {
	img := writeTestPNG(t, t.TempDir())
	d := figlayout.New("fig")
	root := d.Tree.RootID()
	d.Tree.SetImage(root, img)

	out, err := RenderSVG(d)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	// Default: contain, image flush against the margin-inset cell.
	if !strings.Contains(string(out), `preserveAspectRatio="xMidYMid meet"`) {
		t.Error("default fit should letterbox")
	}
	if !strings.Contains(string(out), `<image x="10.000" y="10.000"`) {
		t.Error("unpadded image should start at the cell origin")
	}

	d.Tree.SetFit(root, layout.FitCover)
	d.Tree.SetPadding(root, layout.UniformMargins(5))

	out, err = RenderSVG(d)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !strings.Contains(string(out), `preserveAspectRatio="xMidYMid slice"`) {
		t.Error("cover fit should crop instead of letterbox")
	}
	// The A4 cell starts at 10mm; 5mm of padding pushes the image to 15mm.
	if !strings.Contains(string(out), `<image x="15.000" y="15.000"`) {
		t.Error("padding should inset the image inside the cell")
	}
}

func TestRenderSVGNestedCycleDegradesToPlaceholder(t *testing.T) {
	// Assignment rejects cycles, but a hand-edited file can still point a
	// cell at its own document. Rendering must bottom out in a placeholder
	// rather than fail.
	path := filepath.Join(t.TempDir(), "loop.figlayout")
	d := figlayout.New("loop")
	if err := figlayout.Export(d, path); err != nil {
		t.Fatal(err)
	}
	d.Tree.SetNested(d.Tree.RootID(), path)
	if err := figlayout.Export(d, path); err != nil {
		t.Fatal(err)
	}

	got, err := figlayout.Import(path)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	out, err := RenderSVG(got)
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !strings.Contains(string(out), ">loop.figlayout</text>") {
		t.Error("reference past the depth cap should render as a placeholder")
	}
}

func TestRenderSVGBackgroundOption(t *testing.T) {
	d := figlayout.New("fig")

	out, err := RenderSVG(d, WithBackground("#000000"))
	if err != nil {
		t.Fatalf("RenderSVG error: %v", err)
	}
	if !strings.Contains(string(out), `fill="#000000"/>`) {
		t.Error("background option not applied")
	}
}

func TestRenderSVGFailsOnBrokenGeometry(t *testing.T) {
	d := figlayout.New("fig")
	d.SetPage(figlayout.PageSize{Name: "tiny", WidthMM: 5, HeightMM: 5})
	d.SetMargins(layout.UniformMargins(10))

	if _, err := RenderSVG(d); err == nil {
		t.Error("RenderSVG should propagate resolve failures")
	}
}
