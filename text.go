package annotext

import "sort"

// Range is a half-open [Start, End) range of rune offsets over a base
// text.
type Range struct {
	Start, End int
}

// Rng is a convenience function to create a Range.
func Rng(start, end int) Range {
	return Range{Start: start, End: end}
}

// Len returns the number of runes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no runes.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains reports whether the rune offset lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Intersects reports whether the two ranges share at least one rune.
func (r Range) Intersects(q Range) bool {
	return r.Start < q.End && q.Start < r.End
}

// Intersect returns the overlapping range; the result is empty when
// the ranges do not intersect.
func (r Range) Intersect(q Range) Range {
	s := max(r.Start, q.Start)
	e := min(r.End, q.End)
	if e < s {
		e = s
	}
	return Range{Start: s, End: e}
}

// Clamp restricts the range to [0, n).
func (r Range) Clamp(n int) Range {
	return r.Intersect(Range{Start: 0, End: n})
}

// Span associates style attributes with a range of the base text.
// Ranges must lie within the text's bounds; the host text owns
// range-merging semantics, this engine only reads spans.
type Span struct {
	Range      Range
	Attributes Attributes
}

// Clone returns a deep copy of the span. Decoration values are cloned,
// never shared: spans are frequently duplicated when text is edited
// and two spans must never alias the same mutable decoration.
func (s Span) Clone() Span {
	return Span{Range: s.Range, Attributes: s.Attributes.Clone()}
}

// Text is a styled text: a rune base plus an insertion-ordered list of
// attribute spans. It is the engine's read-only view of the host's
// text representation.
type Text struct {
	runes []rune
	spans []Span
}

// NewText creates a styled text over the given base string.
func NewText(s string) *Text {
	return &Text{runes: []rune(s)}
}

// Len returns the number of runes in the base text.
func (t *Text) Len() int {
	return len(t.runes)
}

// String returns the base text.
func (t *Text) String() string {
	return string(t.runes)
}

// RuneAt returns the rune at the given offset.
func (t *Text) RuneAt(i int) rune {
	return t.runes[i]
}

// AddSpan appends a span with the given attributes over the range,
// clamped to the text bounds. Empty clamped ranges are dropped.
func (t *Text) AddSpan(r Range, attrs Attributes) {
	r = r.Clamp(t.Len())
	if r.IsEmpty() {
		return
	}
	t.spans = append(t.spans, Span{Range: r, Attributes: attrs})
}

// SetAttribute appends a single-attribute span over the range.
func (t *Text) SetAttribute(r Range, key AttributeKey, value any) {
	t.AddSpan(r, Attributes{key: value})
}

// Spans returns the spans in insertion order. The returned slice is
// the text's own; callers must not mutate it.
func (t *Text) Spans() []Span {
	return t.spans
}

// AttributesAt returns the merged attributes in effect at the given
// rune offset. Later spans override earlier ones, matching the host
// convention that the most recent edit wins.
func (t *Text) AttributesAt(i int) Attributes {
	merged := Attributes{}
	for _, sp := range t.spans {
		if !sp.Range.Contains(i) {
			continue
		}
		for k, v := range sp.Attributes {
			merged[k] = v
		}
	}
	return merged
}

// Attribute returns the value of one attribute at the given offset,
// or nil if unset there.
func (t *Text) Attribute(key AttributeKey, i int) any {
	var val any
	for _, sp := range t.spans {
		if sp.Range.Contains(i) {
			if v, ok := sp.Attributes[key]; ok {
				val = v
			}
		}
	}
	return val
}

// Run is a maximal sub-range of the text over which the merged
// attributes are uniform.
type Run struct {
	Range      Range
	Attributes Attributes
}

// Runs splits the text into maximal runs of uniform attributes, in
// text order. Boundaries occur exactly at span endpoints.
func (t *Text) Runs() []Run {
	n := t.Len()
	if n == 0 {
		return nil
	}
	cuts := map[int]struct{}{0: {}, n: {}}
	for _, sp := range t.spans {
		cuts[sp.Range.Start] = struct{}{}
		cuts[sp.Range.End] = struct{}{}
	}
	offs := make([]int, 0, len(cuts))
	for o := range cuts {
		if o >= 0 && o <= n {
			offs = append(offs, o)
		}
	}
	sort.Ints(offs)

	runs := make([]Run, 0, len(offs)-1)
	for i := 0; i+1 < len(offs); i++ {
		r := Range{Start: offs[i], End: offs[i+1]}
		if r.IsEmpty() {
			continue
		}
		runs = append(runs, Run{Range: r, Attributes: t.AttributesAt(r.Start)})
	}
	return runs
}

// Clone returns a deep copy of the text: the rune base is copied and
// every span is cloned, including its decorations.
func (t *Text) Clone() *Text {
	c := &Text{runes: append([]rune(nil), t.runes...)}
	if t.spans != nil {
		c.spans = make([]Span, len(t.spans))
		for i, sp := range t.spans {
			c.spans[i] = sp.Clone()
		}
	}
	return c
}
