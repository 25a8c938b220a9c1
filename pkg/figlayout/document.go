// Package figlayout implements the .figlayout document model: page geometry,
// label settings, free text items and the layout tree, with versioned JSON
// persistence and a sequential migration registry for older files.
//
// All lengths are millimeters. Font sizes are points.
package figlayout

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/panelize/panelize/pkg/layout"
)

// FileVersion is the current .figlayout schema version. Documents are stamped
// with it on save; older files are migrated on load.
const FileVersion = "1.1.0"

// Default document parameters, matching a full A4 page at print resolution.
const (
	DefaultMarginMM = 10.0
	DefaultGapMM    = 2.0
	DefaultDPI      = 600
)

// LabelSettings controls how panel labels and group label bands are rendered.
type LabelSettings struct {
	Scheme     string  `json:"scheme"`      // "(a)", "(A)", "a" or "A"
	FontFamily string  `json:"font_family"`
	FontSizePt float64 `json:"font_size_pt"`
	FontWeight string  `json:"font_weight"` // "normal" or "bold"
	Color      string  `json:"color"`       // hex, e.g. "#000000"
	OffsetXMM  float64 `json:"offset_x_mm"` // nudge from the anchor corner
	OffsetYMM  float64 `json:"offset_y_mm"`
	BandMM     float64 `json:"band_mm"` // group label band, 0 = derive from font size
}

// DefaultLabelSettings returns the label settings a fresh document starts with.
func DefaultLabelSettings() LabelSettings {
	return LabelSettings{
		Scheme:     "(a)",
		FontFamily: "Arial",
		FontSizePt: 12,
		FontWeight: "bold",
		Color:      "#000000",
		OffsetXMM:  2,
		OffsetYMM:  2,
	}
}

// EffectiveBandMM returns the group label band height: the explicit value if
// set, otherwise the font's point size converted to millimeters plus a small
// breathing margin.
func (s LabelSettings) EffectiveBandMM() float64 {
	if s.BandMM > 0 {
		return s.BandMM
	}
	return ptToMM(s.FontSizePt) + 2
}

// ptToMM converts typographic points (1/72 inch) to millimeters.
func ptToMM(pt float64) float64 { return pt * 25.4 / 72 }

// TextItem is a free text annotation placed on the page in absolute
// millimeter coordinates, independent of the layout tree.
type TextItem struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	FontFamily string  `json:"font_family"`
	FontSizePt float64 `json:"font_size_pt"`
	FontWeight string  `json:"font_weight"`
	Color      string  `json:"color"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// NewTextItem returns a text item with document defaults at the given position.
func NewTextItem(text string, x, y float64) TextItem {
	return TextItem{
		ID:         uuid.NewString(),
		Text:       text,
		FontFamily: "Arial",
		FontSizePt: 12,
		FontWeight: "normal",
		Color:      "#000000",
		X:          x,
		Y:          y,
	}
}

// Document is a complete figure description: the page, the layout tree, panel
// label settings and free text. It is the unit of persistence; one document
// corresponds to one .figlayout file.
type Document struct {
	Name      string
	Page      PageSize
	Margins   layout.Margins
	GapMM     float64
	DPI       int
	Label     LabelSettings
	Tree      *layout.Tree
	TextItems []TextItem

	// Dir is the directory of the file this document was loaded from, used
	// to resolve relative image and nested layout references. Empty for
	// documents that have never been saved.
	Dir string
}

// New creates a document with an empty single-cell tree and default settings.
func New(name string) *Document {
	d := &Document{
		Name:    name,
		Page:    PresetA4,
		Margins: layout.UniformMargins(DefaultMarginMM),
		GapMM:   DefaultGapMM,
		DPI:     DefaultDPI,
		Label:   DefaultLabelSettings(),
		Tree:    layout.New(),
	}
	d.syncTree()
	return d
}

// syncTree pushes the document's spacing parameters into the layout tree.
// Must be called after any change to margins, gap or label settings.
func (d *Document) syncTree() {
	d.Tree.SetMargins(d.Margins)
	d.Tree.SetGap(d.GapMM)
	d.Tree.SetLabelBand(d.Label.EffectiveBandMM())
}

// SetPage switches the page size.
func (d *Document) SetPage(p PageSize) { d.Page = p }

// SetMargins replaces the page margins.
func (d *Document) SetMargins(m layout.Margins) {
	d.Margins = m
	d.syncTree()
}

// SetGap replaces the inter-cell gap.
func (d *Document) SetGap(mm float64) {
	d.GapMM = mm
	d.syncTree()
}

// SetLabelSettings replaces the label settings.
func (d *Document) SetLabelSettings(s LabelSettings) {
	d.Label = s
	d.syncTree()
}

// PageRect returns the full page as a rectangle with origin at (0,0).
func (d *Document) PageRect() layout.Rect {
	return layout.Rect{W: d.Page.WidthMM, H: d.Page.HeightMM}
}

// ContentWidth returns the page width inside the horizontal margins.
func (d *Document) ContentWidth() float64 {
	return d.Page.WidthMM - d.Margins.Left - d.Margins.Right
}

// Resolve computes the cell rectangles for the current page.
func (d *Document) Resolve() (map[string]layout.Rect, error) {
	return d.Tree.Resolve(d.PageRect())
}

// ResolveFull computes rectangles for cells and split groups alike,
// as renderers need to place group label bands.
func (d *Document) ResolveFull() (map[string]layout.Rect, error) {
	return d.Tree.ResolveFull(d.PageRect())
}

// ResolvePath resolves a content reference stored in the document. Absolute
// paths that exist are used as-is; otherwise the file name is looked up
// relative to the document's directory, which keeps documents portable when
// a project folder moves as a whole.
func (d *Document) ResolvePath(ref string) string {
	if ref == "" {
		return ""
	}
	if _, err := os.Stat(ref); err == nil {
		return ref
	}
	if d.Dir == "" {
		return ref
	}
	candidate := filepath.Join(d.Dir, filepath.Base(ref))
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ref
}
