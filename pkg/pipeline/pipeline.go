// Package pipeline provides the load → resolve → render pipeline behind the
// render and preview commands. Centralizing it keeps the CLI and the preview
// server on identical behavior, including caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and migrate the .figlayout document
//  2. Resolve: Compute the cell rectangles for the page
//  3. Render: Generate output in the requested formats
//
// Rendered artifacts are cached by document content hash and render options,
// so re-rendering an unchanged document costs a cache read instead of an
// rsvg-convert round trip.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "figure1.figlayout",
//	    Formats: []string{"svg", "pdf"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatTIFF = "tiff"
	FormatJPEG = "jpeg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatTIFF: true,
	FormatJPEG: true,
}

// FormatNames returns the supported formats in stable order for help text
// and error messages.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// ValidateFormats checks that every requested format is supported.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no output formats requested")
	}
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput,
				"unsupported format %q (supported: %s)", f, strings.Join(FormatNames(), ", "))
		}
	}
	return nil
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Path is the .figlayout document to render.
	Path string `json:"path"`

	// Formats are the outputs to produce (see Format constants).
	Formats []string `json:"formats,omitempty"`

	// DPI overrides the document's raster resolution. 0 keeps the
	// document value.
	DPI int `json:"dpi,omitempty"`

	// Frames draws cell outlines in the output, as working proofs.
	Frames bool `json:"frames,omitempty"`

	// Refresh bypasses the artifact cache and re-renders everything.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidateDocumentPath(o.Path); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi %d is negative", o.DPI)
	}
	return nil
}

// Stats captures stage timing and document shape for logging and the
// preview server's status endpoint.
type Stats struct {
	LoadTime    time.Duration `json:"load_time"`
	ResolveTime time.Duration `json:"resolve_time"`
	RenderTime  time.Duration `json:"render_time"`
	CellCount   int           `json:"cell_count"`
	NodeCount   int           `json:"node_count"`
}

// CacheInfo reports which pipeline stages were served from cache.
type CacheInfo struct {
	LayoutHit  bool            `json:"layout_hit,omitempty"`
	RenderHits map[string]bool `json:"render_hits,omitempty"`
}

// Result is the output of a pipeline execution.
type Result struct {
	// Document is the loaded and migrated document.
	Document *figlayout.Document

	// DocHash is the SHA-256 of the document file, the cache key basis.
	DocHash string

	// Rects maps cell IDs to their resolved page rectangles.
	Rects map[string]layout.Rect

	// Artifacts maps format names to rendered output.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Timing returns a compact human-readable stage timing summary.
func (s Stats) Timing() string {
	return fmt.Sprintf("load %s, resolve %s, render %s",
		s.LoadTime.Round(time.Millisecond),
		s.ResolveTime.Round(time.Microsecond),
		s.RenderTime.Round(time.Millisecond))
}

// stageLogger returns the runner's logger, falling back to the default.
func stageLogger(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.Default()
}
