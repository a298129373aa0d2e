package annotext

// LineRun is one glyph run's geometry within a laid-out line, as
// reported by the typesetting backend: the character range it covers
// and its typographic bounds.
type LineRun struct {
	// Range is the half-open rune range the run covers.
	Range Range

	// Width is the run's typographic advance width.
	Width float64

	// Ascent is the run's rise above the baseline (positive).
	Ascent float64

	// Descent is the run's drop below the baseline (positive).
	Descent float64
}

// Line is one laid-out row of runs. It is produced and owned by the
// typesetting backend; this engine only queries it.
type Line interface {
	// Runs enumerates the line's glyph runs in visual order.
	Runs() []LineRun

	// IndexForPosition returns the rune offset at a line-local
	// position, and whether the backend considers the query valid
	// for this line.
	IndexForPosition(p Point) (int, bool)

	// OffsetForIndex returns the horizontal offset within the line
	// of the given rune offset.
	OffsetForIndex(i int) float64
}

// Frame is the geometry the typesetting backend produces for one
// layout: ordered lines plus one origin per line. Line origins are
// baseline positions in container-local coordinates (y grows down).
type Frame struct {
	Lines   []Line
	Origins []Point
}

// LayoutOptions configures a backend layout request.
type LayoutOptions struct {
	// Vertical lays the text out for vertical writing; lines advance
	// horizontally and runs stack top to bottom.
	Vertical bool

	// LineSpacing is a multiplier for line height.
	// Zero is treated as 1.0.
	LineSpacing float64
}

// Backend is the typesetting backend consumed by this engine: it turns
// converted text into line and run geometry, calling back into each
// attachment run's RunSizer during shaping.
type Backend interface {
	Layout(t *Text, size Size, opts LayoutOptions) (*Frame, error)
}
