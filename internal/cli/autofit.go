package cli

import (
	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/assets"
	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
)

// autofitOpts holds the command-line flags for the autofit command.
type autofitOpts struct {
	resizePage bool // shrink or grow the page height to the ideal value
}

// autofitCommand creates the autofit command. Weights are derived from the
// aspect ratios of the panel images so every image fills its cell without
// cropping or letterboxing.
func (c *CLI) autofitCommand() *cobra.Command {
	var opts autofitOpts

	cmd := &cobra.Command{
		Use:   "autofit [file]",
		Short: "Derive cell weights from panel image aspect ratios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAutofit(args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.resizePage, "resize-page", false, "also set the page height to the layout's ideal height")

	return cmd
}

func (c *CLI) runAutofit(path string, opts autofitOpts) error {
	return c.withDocument(path, func(doc *figlayout.Document) error {
		aspects, err := collectAspects(doc)
		if err != nil {
			return err
		}
		if len(aspects) == 0 {
			return errors.New(errors.ErrCodeInvalidOperation, "no cells with images to fit")
		}

		composite, err := doc.Tree.Autofit(aspects)
		if err != nil {
			return err
		}
		printSuccess("Fitted %d panels (composite aspect %.3f)", len(aspects), composite)

		if opts.resizePage {
			m := doc.Margins
			height := doc.Tree.OptimalHeight(doc.ContentWidth(), aspects) + m.Top + m.Bottom
			page := doc.Page
			page.HeightMM = height
			doc.SetPage(page)
			printDetail("page height set to %.1f mm", height)
		}
		return nil
	})
}

// collectAspects probes every image-bearing cell for its aspect ratio.
// Cells without images keep their current weights.
func collectAspects(doc *figlayout.Document) (map[string]float64, error) {
	aspects := make(map[string]float64)
	for _, id := range doc.Tree.Leaves() {
		n, ok := doc.Tree.Node(id)
		if !ok || n.Image == "" {
			continue
		}
		aspect, err := assets.AspectFor(doc.ResolvePath(n.Image), n.Rotation)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "probe %s", n.Image)
		}
		aspects[id] = aspect
	}
	return aspects, nil
}
