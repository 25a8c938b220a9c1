// Package cli implements the panelize command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/panelize/panelize/pkg/buildinfo"
	"github.com/panelize/panelize/pkg/cache"
	"github.com/panelize/panelize/pkg/config"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/pipeline"
	"github.com/panelize/panelize/pkg/workspace"
)

// appName is the application name used for directories and display.
const appName = "panelize"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location (--config).
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Panelize assembles multi-panel figures from a cell layout",
		Long:         `Panelize is a CLI tool for composing publication figures: pages are split into a tree of cells, each cell holds a panel image, and the layout resolves to millimeter-exact rectangles for print output.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/panelize/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.setCommand())
	root.AddCommand(c.labelCommand())
	root.AddCommand(c.autofitCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.recentCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the user config, falling back to defaults on any error so a
// broken config file never bricks read-only commands.
func (c *CLI) config() config.Config {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		c.Logger.Warn("ignoring config", "err", err)
		return config.Default()
	}
	return cfg
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/panelize/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// withDocument loads the document at path, applies fn, and saves it back.
// The recent list is updated on success and skipped quietly otherwise.
func (c *CLI) withDocument(path string, fn func(*figlayout.Document) error) error {
	doc, err := figlayout.Import(path)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := figlayout.Export(doc, path); err != nil {
		return err
	}
	c.touchRecent(path)
	return nil
}

// touchRecent records path in the recent-documents list. Failures only log;
// the list is a convenience, not part of the command's contract.
func (c *CLI) touchRecent(path string) {
	store, err := workspace.NewStore("")
	if err != nil {
		c.Logger.Debug("recent list unavailable", "err", err)
		return
	}
	if err := store.Touch(path); err != nil {
		c.Logger.Debug("recent list update failed", "err", err)
	}
}
