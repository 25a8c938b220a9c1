package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (multiple)
	formats []string // output formats: svg, json, pdf, png, tiff, jpeg
	dpi     int      // raster resolution override
	frames  bool     // draw cell outlines for proofing
	noCache bool     // disable the artifact cache
	refresh bool     // bypass cached artifacts and re-render
}

// renderCommand creates the render command for producing figure outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a figure layout to SVG, PDF, or raster formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png, tiff, jpeg (comma-separated)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "raster resolution, defaults to the document setting")
	cmd.Flags().BoolVar(&opts.frames, "frames", false, "draw cell outlines for proofing")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if a cached artifact exists")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	spinner := newSpinnerWithContext(cmd.Context(), "rendering "+filepath.Base(input))
	spinner.Start()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Path:    input,
		Formats: opts.formats,
		DPI:     opts.dpi,
		Frames:  opts.frames,
		Refresh: opts.refresh,
	})
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.Stop()
	c.touchRecent(input)

	cached := true
	for _, hit := range result.CacheInfo.RenderHits {
		cached = cached && hit
	}

	printSuccess("Rendered %s", result.Document.Name)
	printStats(result.Stats.CellCount, result.Document.Page.WidthMM, result.Document.Page.HeightMM, cached)
	printDetail("%s", result.Stats.Timing())

	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// outputPath derives the output file for one format.
// With a single format the --output flag is used verbatim when given;
// otherwise the input path's extension is swapped for the format.
func outputPath(output, input, format string, multi bool) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if !multi {
		return output
	}
	// Multiple formats share a base path; strip a format extension if present.
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}
