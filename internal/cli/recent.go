package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/workspace"
)

// recentCommand creates the recent command for listing recently edited
// documents. Entries whose files were deleted are pruned with --prune.
func (c *CLI) recentCommand() *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently edited figure documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRecent(prune)
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "drop entries whose files no longer exist")

	return cmd
}

func (c *CLI) runRecent(prune bool) error {
	store, err := workspace.NewStore("")
	if err != nil {
		return err
	}

	if prune {
		removed, err := store.Prune()
		if err != nil {
			return err
		}
		if removed > 0 {
			printInfo("Pruned %d stale entries", removed)
		}
	}

	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printInfo("No recent documents")
		printNextStep("Create one", "panelize new figure1.figlayout")
		return nil
	}

	for _, e := range entries {
		fmt.Println(StyleValue.Render(e.Name) + "  " + StyleDim.Render(formatRelativeTime(e.LastOpened)))
		printDetail("%s", e.Path)
	}
	return nil
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
