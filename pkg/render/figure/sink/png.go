package sink

import (
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	dpi     int
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithDPI overrides the document's print resolution for this render.
func WithDPI(dpi int) PNGOption {
	return func(r *pngRenderer) { r.dpi = dpi }
}

// RenderPNG renders the document as PNG via SVG conversion, rasterized at
// the document's DPI (one SVG user unit is one millimeter, so the scale
// factor is dpi/25.4).
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(d *figlayout.Document, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{dpi: d.DPI}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dpi <= 0 {
		r.dpi = figlayout.DefaultDPI
	}
	svg, err := RenderSVG(d, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, float64(r.dpi)/25.4)
}
