package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

// newOpts holds the command-line flags for the new command.
type newOpts struct {
	page     string  // page preset name
	rows     int     // initial grid rows
	cols     int     // initial grid columns
	marginMM float64 // uniform page margin, negative means config default
	gapMM    float64 // cell gap, negative means config default
	force    bool    // overwrite an existing file
}

// newCommand creates the new command for bootstrapping documents.
// The document starts as a rows×cols grid of equally weighted cells, which
// covers the common case; uneven layouts grow from there with `split`.
func (c *CLI) newCommand() *cobra.Command {
	opts := newOpts{rows: 1, cols: 1, marginMM: -1, gapMM: -1}

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create a new figure layout document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "page preset: a4, letter, journal-1col, journal-1.5col, journal-2col")
	cmd.Flags().IntVar(&opts.rows, "rows", 1, "initial grid rows")
	cmd.Flags().IntVar(&opts.cols, "cols", 1, "initial grid columns")
	cmd.Flags().Float64Var(&opts.marginMM, "margin", -1, "uniform page margin in mm")
	cmd.Flags().Float64Var(&opts.gapMM, "gap", -1, "gap between cells in mm")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) runNew(path string, opts newOpts) error {
	if opts.rows < 1 || opts.cols < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "grid must be at least 1x1, got %dx%d", opts.rows, opts.cols)
	}
	if err := errors.ValidateDocumentPath(path); err != nil {
		return err
	}
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
		}
	}

	cfg := c.config()
	if opts.page != "" {
		cfg.Page = opts.page
	}
	if opts.marginMM >= 0 {
		cfg.MarginMM = opts.marginMM
	}
	if opts.gapMM >= 0 {
		cfg.GapMM = opts.gapMM
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc, err := cfg.NewDocument(name)
	if err != nil {
		return err
	}
	if err := buildGrid(doc, opts.rows, opts.cols); err != nil {
		return err
	}

	if err := figlayout.Export(doc, path); err != nil {
		return err
	}
	c.touchRecent(path)

	printSuccess("Created %s", path)
	printStats(doc.Tree.LeafCount(), doc.Page.WidthMM, doc.Page.HeightMM, false)
	printNextStep("Assign a panel", fmt.Sprintf("panelize set %s --image panel.png", path))
	return nil
}

// buildGrid splits the root cell into a rows×cols grid of equal weights.
func buildGrid(doc *figlayout.Document, rows, cols int) error {
	equal := func(n int) []float64 {
		w := make([]float64, n)
		for i := range w {
			w[i] = 1
		}
		return w
	}

	// SplitN returns only the created cells; the original cell stays as
	// the first row.
	rowCells := []string{doc.Tree.RootID()}
	if rows > 1 {
		cells, err := doc.Tree.SplitN(rowCells[0], layout.Vertical, equal(rows))
		if err != nil {
			return err
		}
		rowCells = append(rowCells, cells...)
	}
	if cols > 1 {
		for _, id := range rowCells {
			if _, err := doc.Tree.SplitN(id, layout.Horizontal, equal(cols)); err != nil {
				return err
			}
		}
	}
	return nil
}
