// Package config loads user defaults for new documents and rendering.
//
// Configuration lives in ~/.config/panelize/config.toml and only covers
// defaults the CLI would otherwise hard-code. Command-line flags always win
// over the config file, which wins over the built-in defaults.
//
// Example config.toml:
//
//	page = "a4"
//	dpi = 600
//	margin_mm = 10.0
//	gap_mm = 2.0
//
//	[label]
//	scheme = "(a)"
//	font_family = "Helvetica"
//	font_size_pt = 10.0
//	font_weight = "bold"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/figlayout"
	"github.com/panelize/panelize/pkg/layout"
)

// Label holds the auto-label defaults.
type Label struct {
	Scheme     string  `toml:"scheme"`
	FontFamily string  `toml:"font_family"`
	FontSizePt float64 `toml:"font_size_pt"`
	FontWeight string  `toml:"font_weight"`
	Color      string  `toml:"color"`
}

// Config holds the user defaults applied to new documents.
type Config struct {
	// Page is a page preset name (a4, letter, journal-1col, ...).
	Page string `toml:"page"`

	// DPI is the default raster resolution.
	DPI int `toml:"dpi"`

	// MarginMM is the default uniform page margin.
	MarginMM float64 `toml:"margin_mm"`

	// GapMM is the default spacing between sibling cells.
	GapMM float64 `toml:"gap_mm"`

	Label Label `toml:"label"`
}

// Default returns the built-in defaults, matching what figlayout.New uses.
func Default() Config {
	labels := figlayout.DefaultLabelSettings()
	return Config{
		Page:     "a4",
		DPI:      figlayout.DefaultDPI,
		MarginMM: figlayout.DefaultMarginMM,
		GapMM:    figlayout.DefaultGapMM,
		Label: Label{
			Scheme:     labels.Scheme,
			FontFamily: labels.FontFamily,
			FontSizePt: labels.FontSizePt,
			FontWeight: labels.FontWeight,
			Color:      labels.Color,
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "panelize", "config.toml"), nil
}

// Load reads the config file at path, layering it over the built-in
// defaults. An empty path means the default location; a missing file is not
// an error and yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks config values that would otherwise surface as confusing
// errors deep inside a command.
func (c Config) Validate() error {
	if _, ok := figlayout.PresetByName(c.Page); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown page preset %q", c.Page)
	}
	if c.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %d", c.DPI)
	}
	if c.MarginMM < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin_mm must not be negative, got %g", c.MarginMM)
	}
	if c.GapMM < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gap_mm must not be negative, got %g", c.GapMM)
	}
	if _, err := figlayout.LabelText(c.Label.Scheme, 0); err != nil {
		return err
	}
	if err := errors.ValidateFontWeight(c.Label.FontWeight); err != nil {
		return err
	}
	return nil
}

// NewDocument creates a document named name with this config's defaults.
func (c Config) NewDocument(name string) (*figlayout.Document, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	doc := figlayout.New(name)

	page, _ := figlayout.PresetByName(c.Page)
	doc.SetPage(page)
	doc.SetMargins(layout.UniformMargins(c.MarginMM))
	doc.SetGap(c.GapMM)
	doc.DPI = c.DPI

	labels := doc.Label
	labels.Scheme = c.Label.Scheme
	if c.Label.FontFamily != "" {
		labels.FontFamily = c.Label.FontFamily
	}
	if c.Label.FontSizePt > 0 {
		labels.FontSizePt = c.Label.FontSizePt
	}
	if c.Label.FontWeight != "" {
		labels.FontWeight = c.Label.FontWeight
	}
	if c.Label.Color != "" {
		labels.Color = c.Label.Color
	}
	doc.SetLabelSettings(labels)

	return doc, nil
}
