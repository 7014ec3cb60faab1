// Package geom holds the geometry primitives shared by the container tree,
// the layout math and the native platform binding.
package geom

// Point is a position in screen coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// ContainsPoint reports whether p lies inside the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ApplyDelta grows the rectangle outwards by the given delta. Percentage
// values resolve against the rectangle's own width (left/right) and
// height (top/bottom). Negative amounts shrink the rectangle.
func (r Rect) ApplyDelta(d RectDelta) Rect {
	left := d.Left.ToPx(r.Width)
	right := d.Right.ToPx(r.Width)
	top := d.Top.ToPx(r.Height)
	bottom := d.Bottom.ToPx(r.Height)

	return Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
}

// ApplyInverseDelta shrinks the rectangle inwards by the given delta.
func (r Rect) ApplyInverseDelta(d RectDelta) Rect {
	return r.ApplyDelta(d.Inverse())
}

// TilingDirection is the axis along which a container lays out its
// tiling children.
type TilingDirection int

const (
	Horizontal TilingDirection = iota // Children side by side.
	Vertical                          // Children stacked top to bottom.
)

// Inverse returns the perpendicular direction.
func (d TilingDirection) Inverse() TilingDirection {
	if d == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (d TilingDirection) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MarshalText implements encoding.TextMarshaler.
func (d TilingDirection) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
