package figlayout

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/panelize/panelize/pkg/errors"
	"github.com/panelize/panelize/pkg/layout"
)

// fileDoc is the on-disk shape of a .figlayout document. The layout tree is
// flattened into a node list with ID references, which serializes naturally
// and reconstructs through layout.Reconstruct.
type fileDoc struct {
	FileVersion string `json:"file_version"`
	Name        string `json:"name,omitempty"`

	PageName     string  `json:"page_name,omitempty"`
	PageWidthMM  float64 `json:"page_width_mm"`
	PageHeightMM float64 `json:"page_height_mm"`

	MarginTopMM    float64 `json:"margin_top_mm"`
	MarginRightMM  float64 `json:"margin_right_mm"`
	MarginBottomMM float64 `json:"margin_bottom_mm"`
	MarginLeftMM   float64 `json:"margin_left_mm"`
	GapMM          float64 `json:"gap_mm"`
	DPI            int     `json:"dpi"`

	Label LabelSettings `json:"label"`

	Root  string     `json:"root"`
	Nodes []fileNode `json:"nodes"`

	TextItems []TextItem `json:"text_items,omitempty"`
}

type fileNode struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"` // "cell" or "split"
	Weight float64 `json:"weight"`

	Image      string `json:"image,omitempty"`
	Nested     string `json:"nested,omitempty"`
	Fit        string `json:"fit,omitempty"`
	Rotation   int    `json:"rotation,omitempty"`
	Label      string `json:"label,omitempty"`
	LabelColor string `json:"label_color,omitempty"`

	PaddingTopMM    float64 `json:"padding_top_mm,omitempty"`
	PaddingRightMM  float64 `json:"padding_right_mm,omitempty"`
	PaddingBottomMM float64 `json:"padding_bottom_mm,omitempty"`
	PaddingLeftMM   float64 `json:"padding_left_mm,omitempty"`

	Axis       string   `json:"axis,omitempty"`
	Children   []string `json:"children,omitempty"`
	GroupLabel string   `json:"group_label,omitempty"`
}

var kindToString = map[layout.Kind]string{
	layout.KindCell:  "cell",
	layout.KindSplit: "split",
}

var kindFromString = map[string]layout.Kind{
	"cell":  layout.KindCell,
	"split": layout.KindSplit,
}

// Read decodes a .figlayout document from r, applying schema migrations for
// files written by older versions. The returned document has no Dir; callers
// that know the file location should use Import instead.
func Read(r io.Reader) (*Document, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}

	raw, err := Migrate(raw)
	if err != nil {
		return nil, err
	}

	// Re-encode the migrated map into the typed schema.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "re-encode migrated document")
	}
	var fd fileDoc
	if err := json.Unmarshal(buf, &fd); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	return fromFileDoc(&fd)
}

// Write encodes the document to w in the current schema version.
func Write(d *Document, w io.Writer) error {
	fd, err := toFileDoc(d)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fd); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	return nil
}

// Import loads a .figlayout file. The document name is derived from the file
// name and Dir is set so relative content references resolve against the
// document's directory.
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	d, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "load %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	d.Dir = filepath.Dir(abs)
	return d, nil
}

// Export writes the document to a .figlayout file at path.
func Export(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()

	if err := Write(d, f); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "save %s", path)
	}
	return nil
}

func toFileDoc(d *Document) (*fileDoc, error) {
	fd := &fileDoc{
		FileVersion:    FileVersion,
		Name:           d.Name,
		PageName:       d.Page.Name,
		PageWidthMM:    d.Page.WidthMM,
		PageHeightMM:   d.Page.HeightMM,
		MarginTopMM:    d.Margins.Top,
		MarginRightMM:  d.Margins.Right,
		MarginBottomMM: d.Margins.Bottom,
		MarginLeftMM:   d.Margins.Left,
		GapMM:          d.GapMM,
		DPI:            d.DPI,
		Label:          d.Label,
		Root:           d.Tree.RootID(),
		TextItems:      d.TextItems,
	}

	var walkErr error
	var walk func(id string)
	walk = func(id string) {
		n, ok := d.Tree.Node(id)
		if !ok {
			walkErr = errors.New(errors.ErrCodeInvalidTree, "node %s missing during export", id)
			return
		}
		fd.Nodes = append(fd.Nodes, fileNode{
			ID:              n.ID,
			Kind:            kindToString[n.Kind],
			Weight:          n.Weight,
			Image:           n.Image,
			Nested:          n.Nested,
			Fit:             n.Fit,
			Rotation:        n.Rotation,
			Label:           n.Label,
			LabelColor:      n.LabelColor,
			PaddingTopMM:    n.Padding.Top,
			PaddingRightMM:  n.Padding.Right,
			PaddingBottomMM: n.Padding.Bottom,
			PaddingLeftMM:   n.Padding.Left,
			Axis:            string(n.Axis),
			Children:        n.Children,
			GroupLabel:      n.GroupLabel,
		})
		for _, cid := range n.Children {
			walk(cid)
		}
	}
	walk(fd.Root)
	if walkErr != nil {
		return nil, walkErr
	}
	return fd, nil
}

func fromFileDoc(fd *fileDoc) (*Document, error) {
	nodes := make([]*layout.Node, 0, len(fd.Nodes))
	for _, fn := range fd.Nodes {
		kind, ok := kindFromString[fn.Kind]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %s has unknown kind %q", fn.ID, fn.Kind)
		}
		switch fn.Fit {
		case "", layout.FitContain, layout.FitCover:
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %s has unknown fit mode %q", fn.ID, fn.Fit)
		}
		nodes = append(nodes, &layout.Node{
			ID:         fn.ID,
			Kind:       kind,
			Weight:     fn.Weight,
			Image:      fn.Image,
			Nested:     fn.Nested,
			Fit:        fn.Fit,
			Rotation:   fn.Rotation,
			Label:      fn.Label,
			LabelColor: fn.LabelColor,
			Padding: layout.Margins{
				Top:    fn.PaddingTopMM,
				Right:  fn.PaddingRightMM,
				Bottom: fn.PaddingBottomMM,
				Left:   fn.PaddingLeftMM,
			},
			Axis:       layout.Axis(fn.Axis),
			Children:   fn.Children,
			GroupLabel: fn.GroupLabel,
		})
	}

	label := fd.Label
	if label.Scheme == "" {
		label = DefaultLabelSettings()
	}

	margins := layout.Margins{
		Top:    fd.MarginTopMM,
		Right:  fd.MarginRightMM,
		Bottom: fd.MarginBottomMM,
		Left:   fd.MarginLeftMM,
	}
	tree, err := layout.Reconstruct(fd.Root, nodes, margins, fd.GapMM, label.EffectiveBandMM())
	if err != nil {
		return nil, err
	}

	page := PageSize{Name: fd.PageName, WidthMM: fd.PageWidthMM, HeightMM: fd.PageHeightMM}
	if page.WidthMM <= 0 || page.HeightMM <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "page size %gx%gmm has no area", page.WidthMM, page.HeightMM)
	}

	dpi := fd.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	return &Document{
		Name:      fd.Name,
		Page:      page,
		Margins:   margins,
		GapMM:     fd.GapMM,
		DPI:       dpi,
		Label:     label,
		Tree:      tree,
		TextItems: fd.TextItems,
	}, nil
}
