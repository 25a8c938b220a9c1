package cli

import (
	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

// splitOpts holds the command-line flags for the split command.
type splitOpts struct {
	axis  string  // "horizontal" or "vertical"
	ratio float64 // share of the first half, exclusive (0, 1)
	count int     // number of equal parts, overrides ratio when > 2
}

// splitCommand creates the split command for dividing a cell in two or more.
// Without a cell ID the command opens an interactive picker.
func (c *CLI) splitCommand() *cobra.Command {
	opts := splitOpts{axis: string(layout.Horizontal), ratio: 0.5, count: 2}

	cmd := &cobra.Command{
		Use:   "split [file] [cell-id]",
		Short: "Split a cell into side-by-side or stacked cells",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cellID string
			if len(args) > 1 {
				cellID = args[1]
			}
			return c.runSplit(args[0], cellID, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.axis, "axis", "a", opts.axis, "split axis: horizontal (side by side) or vertical (stacked)")
	cmd.Flags().Float64VarP(&opts.ratio, "ratio", "r", opts.ratio, "share of the first cell, between 0 and 1")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "number of equal cells (ignores --ratio when above 2)")

	return cmd
}

func (c *CLI) runSplit(path, cellID string, opts splitOpts) error {
	axis := layout.Axis(opts.axis)
	if !axis.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid axis %q (must be horizontal or vertical)", opts.axis)
	}
	if opts.count < 2 {
		return errors.New(errors.ErrCodeInvalidInput, "count must be at least 2, got %d", opts.count)
	}

	return c.withDocument(path, func(doc *figlayout.Document) error {
		if cellID == "" {
			picked, err := pickCell("Split which cell?", doc)
			if err != nil {
				return err
			}
			cellID = picked
		}

		if opts.count > 2 {
			weights := make([]float64, opts.count)
			for i := range weights {
				weights[i] = 1
			}
			if _, err := doc.Tree.SplitN(cellID, axis, weights); err != nil {
				return err
			}
		} else {
			if _, err := doc.Tree.Split(cellID, axis, opts.ratio); err != nil {
				return err
			}
		}

		printSuccess("Split cell into %d along %s", opts.count, axis)
		printStats(doc.Tree.LeafCount(), doc.Page.WidthMM, doc.Page.HeightMM, false)
		return nil
	})
}
