package sink

import (
	"encoding/json"

	"github.com/panelize/panelize/pkg/figlayout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	groups bool
}

// WithJSONGroups includes split groups in the output alongside the cells.
// Groups carry their axis, children and allocated rectangle.
func WithJSONGroups() JSONOption { return func(r *jsonRenderer) { r.groups = true } }

type jsonOutput struct {
	Name     string       `json:"name,omitempty"`
	WidthMM  float64      `json:"width_mm"`
	HeightMM float64      `json:"height_mm"`
	DPI      int          `json:"dpi"`
	GapMM    float64      `json:"gap_mm"`
	Margins  jsonMargins  `json:"margins_mm"`
	Cells    []jsonCell   `json:"cells"`
	Groups   []jsonGroup  `json:"groups,omitempty"`
	Text     []jsonText   `json:"text,omitempty"`
}

type jsonMargins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type jsonCell struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Image    string  `json:"image,omitempty"`
	Nested   string  `json:"nested,omitempty"`
	Rotation int     `json:"rotation,omitempty"`
	Label    string  `json:"label,omitempty"`
}

type jsonGroup struct {
	ID       string   `json:"id"`
	Axis     string   `json:"axis"`
	Label    string   `json:"label,omitempty"`
	Children []string `json:"children"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
}

type jsonText struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// RenderJSON exports the resolved layout as pretty-printed JSON: every cell's
// physical rectangle in millimeters plus the page metadata needed to
// reproduce the figure. This is the interchange format for plotting scripts
// that place their output into panels computed here.
func RenderJSON(d *figlayout.Document, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	rects, err := d.ResolveFull()
	if err != nil {
		return nil, err
	}

	out := jsonOutput{
		Name:     d.Name,
		WidthMM:  d.Page.WidthMM,
		HeightMM: d.Page.HeightMM,
		DPI:      d.DPI,
		GapMM:    d.GapMM,
		Margins: jsonMargins{
			Top:    d.Margins.Top,
			Right:  d.Margins.Right,
			Bottom: d.Margins.Bottom,
			Left:   d.Margins.Left,
		},
	}

	// Walk in reading order so the output is stable across runs.
	var walk func(id string)
	walk = func(id string) {
		n, ok := d.Tree.Node(id)
		if !ok {
			return
		}
		rect := rects[id]
		if n.IsCell() {
			out.Cells = append(out.Cells, jsonCell{
				ID:       n.ID,
				X:        rect.X,
				Y:        rect.Y,
				Width:    rect.W,
				Height:   rect.H,
				Image:    n.Image,
				Nested:   n.Nested,
				Rotation: n.Rotation,
				Label:    n.Label,
			})
			return
		}
		if r.groups {
			out.Groups = append(out.Groups, jsonGroup{
				ID:       n.ID,
				Axis:     string(n.Axis),
				Label:    n.GroupLabel,
				Children: n.Children,
				X:        rect.X,
				Y:        rect.Y,
				Width:    rect.W,
				Height:   rect.H,
			})
		}
		for _, cid := range n.Children {
			walk(cid)
		}
	}
	walk(d.Tree.RootID())

	for _, item := range d.TextItems {
		out.Text = append(out.Text, jsonText{Text: item.Text, X: item.X, Y: item.Y})
	}

	return json.MarshalIndent(out, "", "  ")
}
