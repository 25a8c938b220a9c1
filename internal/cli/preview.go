package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/pipeline"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	addr   string // listen address
	frames bool   // draw cell outlines in the preview
}

// previewCommand creates the preview command, a local web server that
// re-renders the document on every page load. Edit the .figlayout with the
// other commands, reload the browser, see the result.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{addr: "localhost:8799"}

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Serve a live preview of the figure in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.frames, "frames", false, "draw cell outlines")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, opts previewOpts) error {
	// Fail fast on documents that cannot load at all. Later edits that
	// break the file surface as errors in the browser instead.
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	if _, _, err := runner.Load(input); err != nil {
		return err
	}
	c.touchRecent(input)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           c.previewRouter(runner, input, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	printSuccess("Preview running")
	printKeyValue("url", "http://"+opts.addr)
	printDetail("ctrl-c to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// previewRouter builds the preview server's routes. Every figure request
// reloads the document from disk so file edits show up on reload.
func (c *CLI) previewRouter(runner *pipeline.Runner, input string, opts previewOpts) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, previewHTML, time.Now().UnixNano())
	})

	r.Get("/figure.svg", func(w http.ResponseWriter, req *http.Request) {
		result, err := runner.Execute(req.Context(), pipeline.Options{
			Path:    input,
			Formats: []string{pipeline.FormatSVG},
			Frames:  opts.frames,
			Refresh: true,
		})
		if err != nil {
			c.Logger.Error("preview render failed", "err", err)
			http.Error(w, errors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(result.Artifacts[pipeline.FormatSVG])
	})

	r.Get("/status.json", func(w http.ResponseWriter, req *http.Request) {
		doc, hash, err := runner.Load(input)
		if err != nil {
			http.Error(w, errors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"name":      doc.Name,
			"hash":      hash,
			"cells":     doc.Tree.LeafCount(),
			"page_name": doc.Page.Name,
			"width_mm":  doc.Page.WidthMM,
			"height_mm": doc.Page.HeightMM,
		})
	})

	return r
}

// previewHTML is the single-page shell. The cache-busting query parameter is
// filled per request so browsers always refetch the SVG.
const previewHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>panelize preview</title>
<style>
  body { margin: 0; background: #2b2b2b; display: flex; justify-content: center; }
  img { margin: 24px; background: white; box-shadow: 0 4px 24px rgba(0,0,0,.5); max-width: calc(100vw - 48px); }
</style>
</head>
<body>
<img src="/figure.svg?t=%d" alt="figure preview">
</body>
</html>
`
