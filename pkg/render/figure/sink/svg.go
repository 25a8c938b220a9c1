// Package sink renders resolved figure documents into output formats: SVG as
// the primary WYSIWYG surface, JSON for data interchange, and PDF, PNG, TIFF
// and JPEG derived from the SVG for submission pipelines.
package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/panelize/panelize/pkg/assets"
	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

// maxNestedDepth caps recursion through nested layout references. Assignment
// rejects cycles up front; files edited by hand render placeholders past the
// cap instead of recursing forever.
const maxNestedDepth = 8

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	frames     bool
	images     bool
	nested     bool
	background string
}

// WithFrames draws a thin outline around every cell, as on-screen guides for
// layout work. Final exports normally leave frames off.
func WithFrames() SVGOption { return func(r *svgRenderer) { r.frames = true } }

// WithoutImages skips image embedding and draws content placeholders instead.
// Useful for fast structural previews and deterministic tests.
func WithoutImages() SVGOption { return func(r *svgRenderer) { r.images = false } }

// WithoutNested renders cells with nested layout references as placeholders
// instead of expanding the referenced documents.
func WithoutNested() SVGOption { return func(r *svgRenderer) { r.nested = false } }

// WithBackground sets the page background color (default white).
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG renders the document as SVG with one user unit per millimeter,
// so the viewBox matches the page in physical coordinates and downstream
// rasterization scales by dpi/25.4.
func RenderSVG(d *figlayout.Document, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{images: true, nested: true, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.3f %.3f" width="%.3f" height="%.3f">`+"\n",
		d.Page.WidthMM, d.Page.HeightMM, d.Page.WidthMM, d.Page.HeightMM)
	fmt.Fprintf(&buf, `<rect x="0" y="0" width="%.3f" height="%.3f" fill="%s"/>`+"\n",
		d.Page.WidthMM, d.Page.HeightMM, xmlEscape(r.background))

	if err := r.renderDocument(&buf, d, 0); err != nil {
		return nil, err
	}

	for _, item := range d.TextItems {
		r.renderText(&buf, item)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// renderDocument draws the document's tree into buf. Depth counts nested
// layout expansions.
func (r *svgRenderer) renderDocument(buf *bytes.Buffer, d *figlayout.Document, depth int) error {
	rects, err := d.ResolveFull()
	if err != nil {
		return err
	}

	band := d.Label.EffectiveBandMM()
	var walk func(id string) error
	walk = func(id string) error {
		n, ok := d.Tree.Node(id)
		if !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "node %s missing during render", id)
		}
		rect := rects[id]

		if n.IsSplit() {
			if n.GroupLabel != "" {
				if b, ok := layout.BandRect(rect, n.Axis, band); ok {
					r.renderGroupLabel(buf, d, n.GroupLabel, b)
				}
			}
			for _, cid := range n.Children {
				if err := walk(cid); err != nil {
					return err
				}
			}
			return nil
		}
		return r.renderCell(buf, d, n, rect, depth)
	}
	return walk(d.Tree.RootID())
}

func (r *svgRenderer) renderCell(buf *bytes.Buffer, d *figlayout.Document, n *layout.Node, rect layout.Rect, depth int) error {
	switch {
	case n.Nested != "" && r.nested:
		if err := r.renderNested(buf, d, n, rect, depth); err != nil {
			return err
		}
	case n.Nested != "":
		r.renderPlaceholder(buf, rect, n.Nested)
	case n.Image != "" && r.images:
		r.renderImage(buf, d, n, rect)
	case n.Image != "":
		r.renderPlaceholder(buf, rect, n.Image)
	}

	if r.frames {
		fmt.Fprintf(buf, `<rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="none" stroke="#999999" stroke-width="0.2"/>`+"\n",
			rect.X, rect.Y, rect.W, rect.H)
	}

	if n.Label != "" {
		color := n.LabelColor
		if color == "" {
			color = d.Label.Color
		}
		fmt.Fprintf(buf, `<text x="%.3f" y="%.3f" font-family="%s" font-size="%.3f" font-weight="%s" fill="%s">%s</text>`+"\n",
			rect.X+d.Label.OffsetXMM,
			rect.Y+d.Label.OffsetYMM+ptToMM(d.Label.FontSizePt),
			xmlEscape(d.Label.FontFamily), ptToMM(d.Label.FontSizePt),
			xmlEscape(d.Label.FontWeight), xmlEscape(color), xmlEscape(n.Label))
	}
	return nil
}

// renderImage embeds the cell's image as a data URI, fitted inside the cell
// rectangle minus the cell's padding. The fit mode picks between
// letterboxing and cropping; quarter turns swap the fitting box before
// rotating about the content center. Unreadable files degrade to a
// placeholder.
func (r *svgRenderer) renderImage(buf *bytes.Buffer, d *figlayout.Document, n *layout.Node, rect layout.Rect) {
	path := d.ResolvePath(n.Image)
	uri, err := assets.EmbedDataURI(path)
	if err != nil {
		r.renderPlaceholder(buf, rect, n.Image)
		return
	}

	content := rect.Inset(n.Padding)
	if content.Empty() {
		// Padding swallowed the cell; draw into the full rectangle rather
		// than nothing.
		content = rect
	}

	w, h := content.W, content.H
	if n.Rotation == 90 || n.Rotation == 270 {
		w, h = h, w
	}
	x := content.CenterX() - w/2
	y := content.CenterY() - h/2

	fit := "xMidYMid meet"
	if n.Fit == layout.FitCover {
		fit = "xMidYMid slice"
	}
	transform := ""
	if n.Rotation != 0 {
		transform = fmt.Sprintf(` transform="rotate(%d %.3f %.3f)"`, n.Rotation, content.CenterX(), content.CenterY())
	}
	fmt.Fprintf(buf, `<image x="%.3f" y="%.3f" width="%.3f" height="%.3f" preserveAspectRatio="%s"%s href="%s"/>`+"\n",
		x, y, w, h, fit, transform, uri)
}

// renderNested expands a nested layout reference: the referenced document is
// loaded, scaled uniformly to fit the cell, and rendered inline. References
// nested past the depth cap degrade to placeholders, so a reference cycle in
// a hand-edited file still yields a renderable page.
func (r *svgRenderer) renderNested(buf *bytes.Buffer, d *figlayout.Document, n *layout.Node, rect layout.Rect, depth int) error {
	if depth >= maxNestedDepth {
		r.renderPlaceholder(buf, rect, n.Nested)
		return nil
	}

	sub, err := figlayout.Import(d.ResolvePath(n.Nested))
	if err != nil {
		r.renderPlaceholder(buf, rect, n.Nested)
		return nil
	}

	scale := rect.W / sub.Page.WidthMM
	if s := rect.H / sub.Page.HeightMM; s < scale {
		scale = s
	}
	x := rect.CenterX() - sub.Page.WidthMM*scale/2
	y := rect.CenterY() - sub.Page.HeightMM*scale/2

	fmt.Fprintf(buf, `<g transform="translate(%.3f %.3f) scale(%.5f)">`+"\n", x, y, scale)
	if err := r.renderDocument(buf, sub, depth+1); err != nil {
		return err
	}
	buf.WriteString("</g>\n")
	return nil
}

func (r *svgRenderer) renderGroupLabel(buf *bytes.Buffer, d *figlayout.Document, text string, band layout.Rect) {
	fmt.Fprintf(buf, `<text x="%.3f" y="%.3f" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%.3f" font-weight="%s" fill="%s">%s</text>`+"\n",
		band.CenterX(), band.CenterY(),
		xmlEscape(d.Label.FontFamily), ptToMM(d.Label.FontSizePt),
		xmlEscape(d.Label.FontWeight), xmlEscape(d.Label.Color), xmlEscape(text))
}

// renderPlaceholder draws a hatched grey box with the content reference,
// shown for missing files and suppressed content.
func (r *svgRenderer) renderPlaceholder(buf *bytes.Buffer, rect layout.Rect, ref string) {
	fmt.Fprintf(buf, `<rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="#eeeeee" stroke="#bbbbbb" stroke-width="0.2"/>`+"\n",
		rect.X, rect.Y, rect.W, rect.H)
	fmt.Fprintf(buf, `<text x="%.3f" y="%.3f" text-anchor="middle" dominant-baseline="middle" font-family="Arial" font-size="3" fill="#888888">%s</text>`+"\n",
		rect.CenterX(), rect.CenterY(), xmlEscape(shortRef(ref)))
}

func (r *svgRenderer) renderText(buf *bytes.Buffer, item figlayout.TextItem) {
	fmt.Fprintf(buf, `<text x="%.3f" y="%.3f" font-family="%s" font-size="%.3f" font-weight="%s" fill="%s">%s</text>`+"\n",
		item.X, item.Y+ptToMM(item.FontSizePt),
		xmlEscape(item.FontFamily), ptToMM(item.FontSizePt),
		xmlEscape(item.FontWeight), xmlEscape(item.Color), xmlEscape(item.Text))
}

// shortRef trims a content reference to its final path element for display.
func shortRef(ref string) string {
	if i := strings.LastIndexAny(ref, "/\\"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func ptToMM(pt float64) float64 { return pt * 25.4 / 72 }

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string { return xmlReplacer.Replace(s) }
