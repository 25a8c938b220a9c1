package sink

import (
	"encoding/json"
	"testing"

	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

func TestRenderJSON(t *testing.T) {
	d := testDocument(t)
	d.TextItems = append(d.TextItems, figlayout.NewTextItem("Figure 1", 10, 290))

	out, err := RenderJSON(d)
	if err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}

	var decoded struct {
		Name     string  `json:"name"`
		WidthMM  float64 `json:"width_mm"`
		HeightMM float64 `json:"height_mm"`
		DPI      int     `json:"dpi"`
		Cells    []struct {
			ID     string  `json:"id"`
			X      float64 `json:"x"`
			Width  float64 `json:"width"`
			Image  string  `json:"image"`
			Label  string  `json:"label"`
			Height float64 `json:"height"`
		} `json:"cells"`
		Groups []any `json:"groups"`
		Text   []struct {
			Text string `json:"text"`
		} `json:"text"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded.Name != "fig1" || decoded.WidthMM != 178 || decoded.HeightMM != 297 {
		t.Errorf("page metadata = %q %gx%g", decoded.Name, decoded.WidthMM, decoded.HeightMM)
	}
	if decoded.DPI != figlayout.DefaultDPI {
		t.Errorf("dpi = %d, want %d", decoded.DPI, figlayout.DefaultDPI)
	}
	if len(decoded.Cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(decoded.Cells))
	}
	if decoded.Cells[0].Image != "blot.png" || decoded.Cells[0].Label != "(a)" {
		t.Errorf("first cell = %+v", decoded.Cells[0])
	}
	// Reading order: left cell first.
	if decoded.Cells[0].X >= decoded.Cells[1].X {
		t.Error("cells are not in reading order")
	}
	if len(decoded.Groups) != 0 {
		t.Error("groups should be omitted by default")
	}
	if len(decoded.Text) != 1 || decoded.Text[0].Text != "Figure 1" {
		t.Errorf("text items = %+v", decoded.Text)
	}

	// Rectangles match the resolver exactly.
	rects, err := d.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range decoded.Cells {
		want := rects[c.ID]
		if c.X != want.X || c.Width != want.W || c.Height != want.H {
			t.Errorf("cell %s rect differs from resolver: %+v vs %+v", c.ID, c, want)
		}
	}
}

func TestRenderJSONWithGroups(t *testing.T) {
	d := testDocument(t)

	out, err := RenderJSON(d, WithJSONGroups())
	if err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}

	var decoded struct {
		Groups []struct {
			ID       string   `json:"id"`
			Axis     string   `json:"axis"`
			Children []string `json:"children"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(decoded.Groups))
	}
	g := decoded.Groups[0]
	if g.Axis != string(layout.Horizontal) || len(g.Children) != 2 {
		t.Errorf("group = %+v", g)
	}
}
