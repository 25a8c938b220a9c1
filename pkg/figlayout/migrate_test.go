package figlayout

import (
	"strings"
	"testing"

	"github.com/panelize/panelize/pkg/errors"
)

func TestMigrateGridDocument(t *testing.T) {
	// A 1.0.0 grid file: two rows, the first with two columns. Loading
	// must convert it to a split tree and move the flat label fields into
	// the nested label object.
	src := `{
		"file_version": "1.0.0",
		"page_width_mm": 210, "page_height_mm": 297,
		"margin_top_mm": 10, "margin_right_mm": 10, "margin_bottom_mm": 10, "margin_left_mm": 10,
		"gap_mm": 2, "dpi": 600,
		"label_scheme": "(A)", "label_color": "#ffffff", "label_font_size": 10,
		"rows": [
			{"index": 0, "column_count": 2, "height_ratio": 2, "column_ratios": [1, 3]},
			{"index": 1, "column_count": 1, "height_ratio": 1}
		],
		"cells": [
			{"id": "c00", "row_index": 0, "col_index": 0, "image_path": "a.png", "rotation": 90},
			{"id": "c01", "row_index": 0, "col_index": 1},
			{"id": "c10", "row_index": 1, "col_index": 0, "nested_layout_path": "sub.figlayout"}
		]
	}`

	d, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}

	if d.Label.Scheme != "(A)" || d.Label.Color != "#ffffff" || d.Label.FontSizePt != 10 {
		t.Errorf("label settings not migrated: %+v", d.Label)
	}

	leaves := d.Tree.Leaves()
	if len(leaves) != 3 {
		t.Fatalf("got %d leaves, want 3", len(leaves))
	}
	if leaves[0] != "c00" || leaves[1] != "c01" || leaves[2] != "c10" {
		t.Errorf("reading order = %v, want [c00 c01 c10]", leaves)
	}

	c00, _ := d.Tree.Node("c00")
	if c00.Image != "a.png" || c00.Rotation != 90 {
		t.Errorf("cell content not carried over: %+v", c00)
	}
	c10, _ := d.Tree.Node("c10")
	if c10.Nested != "sub.figlayout" {
		t.Errorf("nested reference not carried over: %+v", c10)
	}

	// Weights: rows split 2:1 vertically, first row columns 1:3.
	c01, _ := d.Tree.Node("c01")
	if !eq(c00.Weight, 1) || !eq(c01.Weight, 3) {
		t.Errorf("column weights = %g, %g, want 1, 3", c00.Weight, c01.Weight)
	}
	if !eq(c10.Weight, 1) {
		t.Errorf("bottom row weight = %g, want 1", c10.Weight)
	}
	row0, _ := d.Tree.Node(c00.Parent())
	if !eq(row0.Weight, 2) {
		t.Errorf("first row weight = %g, want 2", row0.Weight)
	}

	if _, err := d.Resolve(); err != nil {
		t.Errorf("migrated document does not resolve: %v", err)
	}
}

func eq(a, b float64) bool { return a == b }

func TestMigrateLegacyFileWithoutVersion(t *testing.T) {
	// Pre-versioned files run the whole chain: defaults first, then the
	// grid conversion.
	src := `{
		"page_width_mm": 210, "page_height_mm": 297,
		"rows": [{"index": 0, "column_count": 1, "height_ratio": 1}],
		"cells": [{"id": "only", "row_index": 0, "col_index": 0}]
	}`

	d, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if d.Label.Scheme != "(a)" {
		t.Errorf("default label scheme = %q, want (a)", d.Label.Scheme)
	}
	if d.GapMM != 2 || d.DPI != 600 {
		t.Errorf("defaults not applied: gap=%g dpi=%d", d.GapMM, d.DPI)
	}
	// A single cell needs no split wrapper.
	if d.Tree.NodeCount() != 1 || d.Tree.RootID() != "only" {
		t.Errorf("single-cell grid should collapse to a lone root cell")
	}
}

func TestMigrateRejectsNewerVersion(t *testing.T) {
	_, err := Migrate(map[string]any{"file_version": "99.0.0"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("code = %v, want UNSUPPORTED", errors.GetCode(err))
	}
}

func TestMigrateCurrentVersionIsUntouched(t *testing.T) {
	data := map[string]any{
		"file_version": FileVersion,
		"root":         "a",
		"nodes":        []any{map[string]any{"id": "a", "kind": "cell", "weight": 1.0}},
	}
	out, err := Migrate(data)
	if err != nil {
		t.Fatalf("Migrate error: %v", err)
	}
	if out["file_version"] != FileVersion {
		t.Errorf("version = %v, want %s", out["file_version"], FileVersion)
	}
	if _, ok := out["rows"]; ok {
		t.Error("current-version document gained grid fields")
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"1.0.0", false},
		{"10.2.33", false},
		{"1.0", true},
		{"", true},
		{"a.b.c", true},
		{"1.0.0.0", true},
	}
	for _, tt := range tests {
		if _, err := parseVersion(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("parseVersion(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.1.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.1", "1.0.0", 1},
	}
	for _, tt := range tests {
		got, err := compareVersions(tt.a, tt.b)
		if err != nil {
			t.Fatalf("compareVersions(%q, %q) error: %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
