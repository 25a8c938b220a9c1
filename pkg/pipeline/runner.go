package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/panelize/panelize/pkg/cache"
	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
	"github.com/panelize/panelize/pkg/render/figure/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Multiple goroutines can safely share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: stageLogger(logger),
	}
}

// Execute runs the complete load → resolve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{RenderHits: make(map[string]bool)},
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, hash, err := r.Load(opts.Path)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.DocHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.CellCount = doc.Tree.LeafCount()
	result.Stats.NodeCount = doc.Tree.NodeCount()

	r.Logger.Info("loaded document",
		"name", doc.Name,
		"cells", result.Stats.CellCount,
		"page", doc.Page.Name,
		"duration", result.Stats.LoadTime)

	// Stage 2: Resolve
	resolveStart := time.Now()
	rects, layoutHit, err := r.resolve(ctx, doc, hash, opts.Refresh)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "resolve %s", opts.Path)
	}
	result.Rects = rects
	result.CacheInfo.LayoutHit = layoutHit
	result.Stats.ResolveTime = time.Since(resolveStart)

	// Stage 3: Render
	renderStart := time.Now()
	for _, format := range opts.Formats {
		data, hit, err := r.RenderFormat(ctx, doc, hash, format, opts)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "render %s", format)
		}
		result.Artifacts[format] = data
		result.CacheInfo.RenderHits[format] = hit
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and migrates a document and returns it with its content hash.
func (r *Runner) Load(path string) (*figlayout.Document, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	doc, err := figlayout.Import(path)
	if err != nil {
		return nil, "", err
	}
	return doc, cache.Hash(raw), nil
}

// resolve computes the cell rectangles, consulting the layout cache first.
// The layout cache mostly serves the preview server, which resolves the same
// unchanged document once per page load.
func (r *Runner) resolve(ctx context.Context, doc *figlayout.Document, docHash string, refresh bool) (map[string]layout.Rect, bool, error) {
	key := r.Keyer.LayoutKey(docHash)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rects map[string]layout.Rect
			if err := json.Unmarshal(data, &rects); err == nil {
				r.Logger.Debug("layout cache hit")
				return rects, true, nil
			}
		}
	}

	rects, err := doc.Resolve()
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(rects); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLayout)
	}
	return rects, false, nil
}

// RenderFormat produces one output format, consulting the artifact cache
// first. The second return reports a cache hit.
func (r *Runner) RenderFormat(ctx context.Context, doc *figlayout.Document, docHash, format string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(docHash, cache.ArtifactKeyOpts{
		Format: format,
		DPI:    opts.DPI,
		Frames: opts.Frames,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			r.Logger.Debug("artifact cache hit", "format", format)
			return data, true, nil
		}
	}

	data, err := r.render(doc, format, opts)
	if err != nil {
		return nil, false, err
	}

	_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	return data, false, nil
}

// render dispatches to the sink for one format.
func (r *Runner) render(doc *figlayout.Document, format string, opts Options) ([]byte, error) {
	var svgOpts []sink.SVGOption
	if opts.Frames {
		svgOpts = append(svgOpts, sink.WithFrames())
	}
	pngOpts := []sink.PNGOption{sink.WithPNGSVGOptions(svgOpts...)}
	if opts.DPI > 0 {
		pngOpts = append(pngOpts, sink.WithDPI(opts.DPI))
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(doc, svgOpts...)
	case FormatJSON:
		return sink.RenderJSON(doc)
	case FormatPDF:
		return sink.RenderPDF(doc, sink.WithPDFSVGOptions(svgOpts...))
	case FormatPNG:
		return sink.RenderPNG(doc, pngOpts...)
	case FormatTIFF:
		return sink.RenderTIFF(doc, pngOpts...)
	case FormatJPEG:
		return sink.RenderJPEG(doc, pngOpts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", format)
	}
}
