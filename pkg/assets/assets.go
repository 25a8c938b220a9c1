// Package assets probes and encodes the image content referenced by layout
// cells. The layout core treats content references as opaque strings; this
// package gives them meaning: raster dimensions for aspect-driven autofit and
// base64 payloads for SVG embedding.
package assets

import (
	"bytes"
	"encoding/base64"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Raster decoders for image.DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/panelize/panelize/pkg/errors"
)

// Info describes a probed content file.
type Info struct {
	Path   string
	Format string  // decoder name: "png", "jpeg", "svg", ...
	Width  float64 // pixels for raster, user units for SVG
	Height float64
}

// Aspect returns the width/height ratio.
func (i Info) Aspect() float64 {
	if i.Height <= 0 {
		return 0
	}
	return i.Width / i.Height
}

// Probe reads the dimensions of an image file without decoding pixel data.
// Raster formats go through the registered stdlib decoders; SVG dimensions
// are parsed from the root element's attributes.
func Probe(path string) (Info, error) {
	if err := errors.ValidateImagePath(path); err != nil {
		return Info{}, err
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return probeSVG(path)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Info{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "probe %s", path)
	}
	return Info{
		Path:   path,
		Format: format,
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
	}, nil
}

// AspectFor returns the content aspect ratio of an image, corrected for the
// cell's rotation: quarter turns (90, 270) swap width and height.
func AspectFor(path string, rotation int) (float64, error) {
	info, err := Probe(path)
	if err != nil {
		return 0, err
	}
	a := info.Aspect()
	if a <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "%s has no usable dimensions", path)
	}
	if rotation == 90 || rotation == 270 {
		a = 1 / a
	}
	return a, nil
}

// mime types the SVG renderer can reference directly in a data URI.
var embedMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// EmbedDataURI returns the file's content as a base64 data URI for inlining
// into SVG <image> elements. Formats browsers render natively (PNG, JPEG,
// GIF) are embedded byte for byte; everything else (TIFF, BMP) is re-encoded
// as PNG first.
func EmbedDataURI(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if mime, ok := embedMIME[ext]; ok {
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
			}
			return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
		}
		return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "re-encode %s", path)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
