package assets

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/panelize/panelize/pkg/errors"
)

// svgRoot captures the sizing attributes of an SVG document's root element.
type svgRoot struct {
	Width   string `xml:"width,attr"`
	Height  string `xml:"height,attr"`
	ViewBox string `xml:"viewBox,attr"`
}

// probeSVG reads an SVG's intrinsic size from its width/height attributes,
// falling back to the viewBox when they are absent or percentages.
func probeSVG(path string) (Info, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Info{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}

	var root svgRoot
	if err := xml.Unmarshal(raw, &root); err != nil {
		return Info{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}

	w, wok := parseSVGLength(root.Width)
	h, hok := parseSVGLength(root.Height)
	if !wok || !hok {
		if vw, vh, ok := parseViewBox(root.ViewBox); ok {
			w, h = vw, vh
		} else {
			return Info{}, errors.New(errors.ErrCodeInvalidFormat, "%s declares no usable size", path)
		}
	}
	if w <= 0 || h <= 0 {
		return Info{}, errors.New(errors.ErrCodeInvalidFormat, "%s has non-positive size %gx%g", path, w, h)
	}

	return Info{Path: path, Format: "svg", Width: w, Height: h}, nil
}

// svgUnits converts CSS absolute units to user units (1 unit = 1 px at 96dpi).
// Only the ratio matters for aspect probing, so the px scale is arbitrary.
var svgUnits = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 96.0 / 72,
	"pc": 16,
	"mm": 96.0 / 25.4,
	"cm": 96.0 / 2.54,
	"in": 96,
}

// parseSVGLength parses an SVG length such as "210mm", "85.5", or "300px".
// Percentages and unknown units report false.
func parseSVGLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}

	i := len(s)
	for i > 0 {
		c := s[i-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		i--
	}
	num, unit := s[:i], strings.ToLower(s[i:])

	factor, ok := svgUnits[unit]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v * factor, true
}

// parseViewBox extracts width and height from a "min-x min-y width height"
// viewBox attribute.
func parseViewBox(s string) (w, h float64, ok bool) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(fields[2], 64)
	h, err2 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, h, true
}
