package layout

// Rect represents an axis-aligned rectangle in abstract length units
// (millimeters throughout Panelize). X and Y locate the top-left corner;
// Y grows downward, matching page coordinates.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Inset returns a copy of r shrunk by the given margins.
// The result may be empty if the margins exceed the rectangle.
func (r Rect) Inset(m Margins) Rect {
	return Rect{
		X: r.X + m.Left,
		Y: r.Y + m.Top,
		W: r.W - m.Left - m.Right,
		H: r.H - m.Top - m.Bottom,
	}
}

// Margins holds per-edge outer margins in the same units as Rect.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// UniformMargins returns margins with the same value on all four edges.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Right: v, Bottom: v, Left: v}
}
