package figlayout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/panelize/panelize/pkg/errors"
)

// A migration upgrades a raw document map from one schema version to the
// next. From is empty for legacy files written before version stamping.
// Migrations run sequentially on load until the document reaches FileVersion.
type migration struct {
	From  string
	To    string
	Apply func(map[string]any) (map[string]any, error)
}

var migrations = []migration{
	{From: "", To: "1.0.0", Apply: migrateLegacyDefaults},
	{From: "1.0.0", To: "1.1.0", Apply: migrateGridToTree},
}

// Migrate brings a raw document map up to the current schema version,
// applying pending migrations in registry order and stamping file_version.
func Migrate(data map[string]any) (map[string]any, error) {
	current, _ := data["file_version"].(string)
	if current != "" {
		if _, err := parseVersion(current); err != nil {
			return nil, err
		}
		if cmp, _ := compareVersions(current, FileVersion); cmp > 0 {
			return nil, errors.New(errors.ErrCodeUnsupported,
				"document version %s is newer than supported %s", current, FileVersion)
		}
	}

	for _, m := range migrations {
		if m.From == "" {
			if current != "" {
				continue
			}
		} else if cmp, err := compareVersions(current, m.To); err != nil {
			return nil, err
		} else if cmp >= 0 {
			continue
		}

		out, err := m.Apply(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "migrate %s", m.To)
		}
		data = out
		data["file_version"] = m.To
		current = m.To
	}

	data["file_version"] = FileVersion
	return data, nil
}

// parseVersion parses "major.minor.patch" into comparable parts.
func parseVersion(s string) ([3]int, error) {
	var v [3]int
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return v, errors.New(errors.ErrCodeInvalidFormat, "malformed version %q", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, errors.New(errors.ErrCodeInvalidFormat, "malformed version %q", s)
		}
		v[i] = n
	}
	return v, nil
}

func compareVersions(a, b string) (int, error) {
	va, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := parseVersion(b)
	if err != nil {
		return 0, err
	}
	for i := range va {
		switch {
		case va[i] < vb[i]:
			return -1, nil
		case va[i] > vb[i]:
			return 1, nil
		}
	}
	return 0, nil
}

// migrateLegacyDefaults upgrades pre-versioned files to the 1.0.0 schema by
// filling in the fields that version introduced.
func migrateLegacyDefaults(data map[string]any) (map[string]any, error) {
	setDefault(data, "gap_mm", 2.0)
	setDefault(data, "dpi", float64(DefaultDPI))
	setDefault(data, "label_scheme", "(a)")
	setDefault(data, "label_font_family", "Arial")
	setDefault(data, "label_font_size", 12.0)
	setDefault(data, "label_font_weight", "bold")
	setDefault(data, "label_color", "#000000")
	setDefault(data, "label_offset_x", 0.0)
	setDefault(data, "label_offset_y", 0.0)
	setDefault(data, "label_row_height", 0.0)
	return data, nil
}

// migrateGridToTree converts the 1.0.0 rows/cells grid schema into the split
// tree: a vertical root split of rows, each row a horizontal split of its
// cells. Single-child levels collapse so degenerate groups never appear. The
// flat label_* fields move into the nested label object.
func migrateGridToTree(data map[string]any) (map[string]any, error) {
	if _, ok := data["nodes"]; ok {
		return data, nil // already tree-shaped
	}

	rows, _ := data["rows"].([]any)
	cells, _ := data["cells"].([]any)
	if len(rows) == 0 || len(cells) == 0 {
		return nil, fmt.Errorf("grid document has no rows or cells")
	}

	// Bucket cells by row, ordered by column.
	byRow := make(map[int][]map[string]any)
	for _, c := range cells {
		cell, ok := c.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed cell entry")
		}
		ri := intField(cell, "row_index")
		ci := intField(cell, "col_index")
		list := byRow[ri]
		for len(list) <= ci {
			list = append(list, nil)
		}
		list[ci] = cell
		byRow[ri] = list
	}

	var nodes []map[string]any
	cellNode := func(cell map[string]any, weight float64) map[string]any {
		id, _ := cell["id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		n := map[string]any{"id": id, "kind": "cell", "weight": weight}
		if img, _ := cell["image_path"].(string); img != "" {
			n["image"] = img
		}
		if nested, _ := cell["nested_layout_path"].(string); nested != "" {
			n["nested"] = nested
		}
		if rot := intField(cell, "rotation"); rot != 0 {
			n["rotation"] = rot
		}
		nodes = append(nodes, n)
		return n
	}

	var rowIDs []string
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("malformed row entry")
		}
		ri := intField(row, "index")
		rowCells := byRow[ri]
		if len(rowCells) == 0 {
			return nil, fmt.Errorf("row %d has no cells", ri)
		}
		weight := floatField(row, "height_ratio", 1)
		ratios, _ := row["column_ratios"].([]any)

		colWeight := func(i int) float64 {
			if i < len(ratios) {
				if v, ok := ratios[i].(float64); ok && v > 0 {
					return v
				}
			}
			return 1
		}

		if len(rowCells) == 1 {
			n := cellNode(rowCells[0], weight)
			rowIDs = append(rowIDs, n["id"].(string))
		} else {
			var children []string
			for i, cell := range rowCells {
				if cell == nil {
					return nil, fmt.Errorf("row %d is missing a cell at column %d", ri, i)
				}
				n := cellNode(cell, colWeight(i))
				children = append(children, n["id"].(string))
			}
			groupID := uuid.NewString()
			nodes = append(nodes, map[string]any{
				"id": groupID, "kind": "split", "axis": "horizontal",
				"weight": weight, "children": children,
			})
			rowIDs = append(rowIDs, groupID)
		}
	}

	var rootID string
	if len(rowIDs) == 1 {
		rootID = rowIDs[0]
	} else {
		rootID = uuid.NewString()
		nodes = append(nodes, map[string]any{
			"id": rootID, "kind": "split", "axis": "vertical",
			"weight": 1.0, "children": rowIDs,
		})
	}

	data["root"] = rootID
	data["nodes"] = nodes
	delete(data, "rows")
	delete(data, "cells")

	// Flat label fields become the nested label object.
	data["label"] = map[string]any{
		"scheme":       stringField(data, "label_scheme", "(a)"),
		"font_family":  stringField(data, "label_font_family", "Arial"),
		"font_size_pt": floatField(data, "label_font_size", 12),
		"font_weight":  stringField(data, "label_font_weight", "bold"),
		"color":        stringField(data, "label_color", "#000000"),
		"offset_x_mm":  floatField(data, "label_offset_x", 0),
		"offset_y_mm":  floatField(data, "label_offset_y", 0),
		"band_mm":      floatField(data, "label_row_height", 0),
	}
	for _, k := range []string{
		"label_scheme", "label_font_family", "label_font_size", "label_font_weight",
		"label_color", "label_offset_x", "label_offset_y", "label_row_height",
		"label_placement", "label_anchor", "label_attach_to", "label_align",
	} {
		delete(data, k)
	}
	return data, nil
}

func setDefault(data map[string]any, key string, v any) {
	if _, ok := data[key]; !ok {
		data[key] = v
	}
}

func intField(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

func floatField(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return def
}

func stringField(m map[string]any, key string, def string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return def
}
