package cli

import (
	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
)

// labelOpts holds the command-line flags for the label command.
type labelOpts struct {
	scheme string // numbering scheme, empty keeps the document setting
	clear  bool   // remove all labels instead of assigning them
}

// labelCommand creates the label command for automatic panel labeling.
// Labels are assigned in reading order: left to right, then top to bottom.
func (c *CLI) labelCommand() *cobra.Command {
	var opts labelOpts

	cmd := &cobra.Command{
		Use:   "label [file]",
		Short: "Label all panels in reading order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLabel(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scheme, "scheme", "s", "", "numbering scheme: (a), (A), a, A")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "remove all panel labels")

	return cmd
}

func (c *CLI) runLabel(path string, opts labelOpts) error {
	return c.withDocument(path, func(doc *figlayout.Document) error {
		if opts.clear {
			if err := doc.ClearLabels(); err != nil {
				return err
			}
			printSuccess("Cleared all panel labels")
			return nil
		}

		if opts.scheme != "" {
			if err := errors.ValidateLabelScheme(opts.scheme); err != nil {
				return err
			}
			settings := doc.Label
			settings.Scheme = opts.scheme
			doc.SetLabelSettings(settings)
		}

		if err := doc.AutoLabel(); err != nil {
			return err
		}
		printSuccess("Labeled %d panels with scheme %s", doc.Tree.LeafCount(), doc.Label.Scheme)
		return nil
	})
}
