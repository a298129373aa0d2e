package annotext

// LineStyle selects the stroke pattern for a border.
type LineStyle int

const (
	// LineSolid is a continuous stroke (default).
	LineSolid LineStyle = iota
	// LineDashed alternates long dashes and gaps.
	LineDashed
	// LineDotted alternates dots and gaps.
	LineDotted
	// LineDashDot alternates a dash, a gap, a dot, a gap.
	LineDashDot
	// LineDashDotDot alternates a dash and two dots.
	LineDashDotDot
)

// String returns the string representation of the line style.
func (s LineStyle) String() string {
	switch s {
	case LineSolid:
		return "Solid"
	case LineDashed:
		return "Dashed"
	case LineDotted:
		return "Dotted"
	case LineDashDot:
		return "DashDot"
	case LineDashDotDot:
		return "DashDotDot"
	default:
		return "Unknown"
	}
}

// Dashes returns the dash pattern for the style at the given stroke
// width. A nil result means a solid stroke.
func (s LineStyle) Dashes(width float64) []float64 {
	if width <= 0 {
		width = 1
	}
	switch s {
	case LineDashed:
		return []float64{3 * width, 3 * width}
	case LineDotted:
		return []float64{width, 2 * width}
	case LineDashDot:
		return []float64{3 * width, 2 * width, width, 2 * width}
	case LineDashDotDot:
		return []float64{3 * width, 2 * width, width, 2 * width, width, 2 * width}
	default:
		return nil
	}
}

// LineCap selects the stroke end-cap shape.
type LineCap int

const (
	// CapButt ends the stroke flat at the endpoint.
	CapButt LineCap = iota
	// CapRound ends the stroke with a semicircle.
	CapRound
	// CapSquare ends the stroke with a half-square.
	CapSquare
)

// LineJoin selects the stroke corner shape.
type LineJoin int

const (
	// JoinMiter extends edges to a sharp corner.
	JoinMiter LineJoin = iota
	// JoinRound rounds the corner.
	JoinRound
	// JoinBevel cuts the corner flat.
	JoinBevel
)

// Border is a decoration drawn around the rendered bounds of a span:
// an optional fill, a stroked outline with a line style, and an
// optional shadow. Insets grow (negative) or shrink (positive) the box
// the border is drawn in, relative to the span's glyph bounds.
type Border struct {
	// Color is the stroke color. A nil color skips the stroke.
	Color *RGBA

	// Width is the stroke width in points.
	Width float64

	// CornerRadius rounds the border box corners.
	CornerRadius float64

	// Insets adjust the border box relative to the span bounds.
	Insets Insets

	// Style selects solid or dashed stroking.
	Style LineStyle

	// FillColor fills the border box behind the text. A nil color
	// skips the fill.
	FillColor *RGBA

	// Shadow is drawn under the border box. Nil skips it.
	Shadow *Shadow

	// Cap and Join control stroke geometry for dashed styles.
	Cap  LineCap
	Join LineJoin
}

// NewBorder creates a solid border with the given stroke color and width.
func NewBorder(color *RGBA, width float64) *Border {
	return &Border{Color: color, Width: width}
}

// Clone returns an independent deep copy of the border.
// Spans must clone decorations on duplication; decorations are never
// shared between spans.
func (b *Border) Clone() *Border {
	if b == nil {
		return nil
	}
	c := *b
	c.Color = b.Color.Clone()
	c.FillColor = b.FillColor.Clone()
	c.Shadow = b.Shadow.Clone()
	return &c
}
