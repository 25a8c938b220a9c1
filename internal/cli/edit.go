package cli

import (
	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

// collapseCommand creates the collapse command for undoing a split.
func (c *CLI) collapseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collapse [file] [group-id]",
		Short: "Collapse a split group back into a single cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDocument(args[0], func(doc *figlayout.Document) error {
				id, err := doc.Tree.Collapse(args[1])
				if err != nil {
					return err
				}
				printSuccess("Collapsed group into cell %s", id)
				return nil
			})
		},
	}
}

// removeCommand creates the remove command for deleting a cell.
// The picker is used when no cell ID is given.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [file] [cell-id]",
		Short: "Remove a cell, its siblings absorb the space",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDocument(args[0], func(doc *figlayout.Document) error {
				cellID := ""
				if len(args) > 1 {
					cellID = args[1]
				} else {
					picked, err := pickCell("Remove which cell?", doc)
					if err != nil {
						return err
					}
					cellID = picked
				}
				if err := doc.Tree.Remove(cellID); err != nil {
					return err
				}
				printSuccess("Removed cell")
				printStats(doc.Tree.LeafCount(), doc.Page.WidthMM, doc.Page.HeightMM, false)
				return nil
			})
		},
	}
}

// setOpts holds the command-line flags for the set command.
type setOpts struct {
	image      string
	nested     string
	fit        string
	padding    float64
	rotation   int
	label      string
	labelColor string
	weight     float64
	groupLabel string
}

// setCommand creates the set command for assigning cell content and properties.
// Exactly the properties whose flags were passed are changed; everything else
// is left alone, so `set --image` does not clear a label.
func (c *CLI) setCommand() *cobra.Command {
	var opts setOpts

	cmd := &cobra.Command{
		Use:   "set [file] [cell-id]",
		Short: "Set cell content and properties",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cellID := ""
			if len(args) > 1 {
				cellID = args[1]
			}
			return c.runSet(args[0], cellID, cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.image, "image", "", "panel image file (png, jpg, tiff, gif, bmp, svg)")
	cmd.Flags().StringVar(&opts.nested, "nested", "", "nested .figlayout document to embed")
	cmd.Flags().StringVar(&opts.fit, "fit", "", "image fit mode: contain or cover")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "uniform inner padding around the content in mm")
	cmd.Flags().IntVar(&opts.rotation, "rotation", 0, "image rotation in degrees: 0, 90, 180, 270")
	cmd.Flags().StringVar(&opts.label, "label", "", "panel label text")
	cmd.Flags().StringVar(&opts.labelColor, "label-color", "", "panel label color, e.g. #333333")
	cmd.Flags().Float64Var(&opts.weight, "weight", 0, "relative size weight within the parent group")
	cmd.Flags().StringVar(&opts.groupLabel, "group-label", "", "label spanning a split group")

	return cmd
}

func (c *CLI) runSet(path, cellID string, cmd *cobra.Command, opts setOpts) error {
	return c.withDocument(path, func(doc *figlayout.Document) error {
		if cellID == "" {
			picked, err := pickCell("Edit which cell?", doc)
			if err != nil {
				return err
			}
			cellID = picked
		}

		changed := 0
		if cmd.Flags().Changed("image") {
			if err := errors.ValidateImagePath(opts.image); err != nil {
				return err
			}
			if err := doc.Tree.SetImage(cellID, doc.ResolvePath(opts.image)); err != nil {
				return err
			}
			changed++
		}
		if cmd.Flags().Changed("nested") {
			target := doc.ResolvePath(opts.nested)
			if err := figlayout.CheckNestedReference(path, target); err != nil {
				return err
			}
			if err := doc.Tree.SetNested(cellID, target); err != nil {
				return err
			}
			changed++
		}
		if cmd.Flags().Changed("fit") {
			if err := doc.Tree.SetFit(cellID, opts.fit); err != nil {
				return err
			}
			changed++
		}
		if cmd.Flags().Changed("padding") {
			if err := doc.Tree.SetPadding(cellID, layout.UniformMargins(opts.padding)); err != nil {
				return err
			}
			changed++
		}
		if cmd.Flags().Changed("rotation") {
			if err := doc.Tree.SetRotation(cellID, opts.rotation); err != nil {
				return err
			}
			changed++
		}
		if cmd.Flags().Changed("label") || cmd.Flags().Changed("label-color") {
			color := opts.labelColor
			if color == "" {
				color = doc.Label.Color
			} else if err := errors.ValidateHexColor(color); err != nil {
				return err
			}
			if err := doc.Tree.SetLabel(cellID, opts.label, color); err != nil {
				return err
			}
			changed++
		}
		if cmd.Flags().Changed("weight") {
			if err := doc.Tree.SetWeight(cellID, opts.weight); err != nil {
				return err
			}
			changed++
		}
		if cmd.Flags().Changed("group-label") {
			if err := doc.Tree.SetGroupLabel(cellID, opts.groupLabel); err != nil {
				return err
			}
			changed++
		}

		if changed == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "nothing to set (pass --image, --label, --weight, ...)")
		}
		printSuccess("Updated %d propert%s", changed, pluralY(changed))
		return nil
	})
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
