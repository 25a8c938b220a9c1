package layout

// Axis is the direction along which a split group arranges its children.
type Axis string

const (
	// Horizontal lays children out side by side, left to right.
	Horizontal Axis = "horizontal"
	// Vertical stacks children top to bottom.
	Vertical Axis = "vertical"
)

// Valid reports whether the axis is one of the two supported directions.
func (a Axis) Valid() bool { return a == Horizontal || a == Vertical }

// Fit modes for cell images.
const (
	// FitContain letterboxes the image inside the cell, preserving it whole.
	FitContain = "contain"
	// FitCover scales the image to fill the cell, cropping the overflow.
	FitCover = "cover"
)

// Kind distinguishes the two node variants of the layout tree.
type Kind int

const (
	// KindCell is a leaf region holding one image or label.
	KindCell Kind = iota
	// KindSplit is an internal node dividing its rectangle among children
	// along one axis, proportional to weight.
	KindSplit
)

// Node is a single entry in the layout tree's node table. The two variants
// share the table entry: cells leave Axis and Children unset, splits leave
// Image unset. Relations are expressed as node IDs rather than pointers so
// the table serializes directly and split/collapse mutations never chase
// ownership.
//
// Nodes are created through Tree operations and must not be constructed
// directly; the zero value is not usable.
type Node struct {
	ID     string
	Kind   Kind
	Weight float64 // proportional share among siblings, always > 0

	// Cell fields.
	Image      string  // opaque content reference owned by the asset layer
	Nested     string  // path to a nested .figlayout document, if any
	Fit        string  // image fit mode, empty means FitContain
	Padding    Margins // inner padding between the cell edge and its content, in mm
	Rotation   int     // 0, 90, 180 or 270 degrees
	Label      string  // panel label text, e.g. "(a)"
	LabelColor string  // hex color for the label, empty = document default

	// Split fields.
	Axis       Axis
	Children   []string
	GroupLabel string // label rendered in a band reserved above the group

	parent string // empty for the root
}

// IsCell reports whether the node is a leaf cell.
func (n *Node) IsCell() bool { return n.Kind == KindCell }

// IsSplit reports whether the node is a split group.
func (n *Node) IsSplit() bool { return n.Kind == KindSplit }

// Parent returns the ID of the node's parent, or "" for the root.
func (n *Node) Parent() string { return n.parent }

// clone returns a deep copy of the node. Used by Tree accessors so callers
// cannot mutate table entries behind the controller's back.
func (n *Node) clone() *Node {
	c := *n
	c.Children = append([]string(nil), n.Children...)
	return &c
}
