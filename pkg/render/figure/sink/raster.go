package sink

import (
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/render"
)

// defaultJPEGQuality balances file size against compression artifacts on
// line art and text, which dominate assembled figures.
const defaultJPEGQuality = 92

// RenderTIFF renders the document as deflate-compressed TIFF through the PNG
// pipeline, at the document's DPI.
func RenderTIFF(d *figlayout.Document, opts ...PNGOption) ([]byte, error) {
	png, err := RenderPNG(d, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToTIFF(png)
}

// RenderJPEG renders the document as JPEG through the PNG pipeline, at the
// document's DPI.
func RenderJPEG(d *figlayout.Document, opts ...PNGOption) ([]byte, error) {
	png, err := RenderPNG(d, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToJPEG(png, defaultJPEGQuality)
}
