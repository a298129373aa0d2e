package annotext

// Point represents a 2D point in container-local coordinates.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size represents a 2D extent.
type Size struct {
	Width, Height float64
}

// Sz is a convenience function to create a Size.
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// IsEmpty reports whether the size has no area.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect represents an axis-aligned rectangle with origin at the top-left.
type Rect struct {
	X, Y, W, H float64
}

// RectFrom creates a Rect from origin and size.
func RectFrom(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, W: size.Width, H: size.Height}
}

// IsZero reports whether all four fields are zero.
// Hit-testing functions return a zero rect to mean "no geometry";
// callers must not treat it as a degenerate real region.
func (r Rect) IsZero() bool {
	return r.X == 0 && r.Y == 0 && r.W == 0 && r.H == 0
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rectangle's extent.
func (r Rect) Size() Size {
	return Size{Width: r.W, Height: r.H}
}

// MaxX returns the right edge coordinate.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge coordinate.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Contains reports whether the point lies inside the rectangle.
// Edges on the min side are inclusive, on the max side exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Union returns the smallest rectangle containing both r and q.
// A zero rect acts as the identity element.
func (r Rect) Union(q Rect) Rect {
	if r.IsZero() {
		return q
	}
	if q.IsZero() {
		return r
	}
	x := min(r.X, q.X)
	y := min(r.Y, q.Y)
	mx := max(r.MaxX(), q.MaxX())
	my := max(r.MaxY(), q.MaxY())
	return Rect{X: x, Y: y, W: mx - x, H: my - y}
}

// Inset returns the rectangle shrunk by the given insets.
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: r.W - in.Left - in.Right,
		H: r.H - in.Top - in.Bottom,
	}
}

// Offset returns the rectangle translated by the given point.
func (r Rect) Offset(p Point) Rect {
	return Rect{X: r.X + p.X, Y: r.Y + p.Y, W: r.W, H: r.H}
}

// Insets describes per-edge distances, positive inward.
type Insets struct {
	Top, Left, Bottom, Right float64
}
