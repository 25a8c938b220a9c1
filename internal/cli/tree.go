package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/render/treeviz"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	output   string // output file path
	format   string // dot, svg, or png
	detailed bool   // include node IDs and labels
}

// treeCommand creates the tree command for inspecting the layout structure.
// It renders the split tree as a Graphviz diagram, which is the quickest way
// to find the cell and group IDs the editing commands take.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Visualize the layout tree structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for dot, derived for svg/png)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node IDs, labels, and group labels")

	return cmd
}

func (c *CLI) runTree(cmd *cobra.Command, input string, opts treeOpts) error {
	doc, err := figlayout.Import(input)
	if err != nil {
		return err
	}
	dot := treeviz.ToDOT(doc, treeviz.Options{Detailed: opts.detailed})

	prog := newProgress(c.Logger)
	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = treeviz.RenderSVG(cmd.Context(), dot)
	case "png":
		data, err = treeviz.RenderPNG(cmd.Context(), dot, 2.0)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be dot, svg, or png)", opts.format)
	}
	if err != nil {
		return err
	}
	if opts.format != "dot" {
		prog.done("Rendered tree diagram")
	}

	if opts.format == "dot" && opts.output == "" {
		fmt.Print(dot)
		return nil
	}

	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "_tree." + opts.format
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Generated %s", path)
	return nil
}
