package annotext

// HighlightRegion pairs a highlight with the text range it covers.
// Regions are owned by the index until removed or the index is
// cleared.
type HighlightRegion struct {
	Range     Range
	Highlight *Highlight
}

// HighlightIndex is a range-indexed, insertion-ordered store of
// interactive decoration regions over the text. Ranges may overlap;
// point queries resolve to the first region in insertion order.
//
// HighlightIndex carries no lock: it must be called only from the
// single goroutine that owns the interactive view.
type HighlightIndex struct {
	regions []HighlightRegion
}

// NewHighlightIndex creates an empty index.
func NewHighlightIndex() *HighlightIndex {
	return &HighlightIndex{}
}

// Add appends a region covering the range.
func (x *HighlightIndex) Add(h *Highlight, r Range) {
	if h == nil || r.IsEmpty() {
		return
	}
	x.regions = append(x.regions, HighlightRegion{Range: r, Highlight: h})
}

// Remove removes every region whose range intersects the given range,
// not only exact matches.
func (x *HighlightIndex) Remove(r Range) {
	kept := x.regions[:0]
	for _, reg := range x.regions {
		if !reg.Range.Intersects(r) {
			kept = append(kept, reg)
		}
	}
	x.regions = kept
}

// Clear removes all regions.
func (x *HighlightIndex) Clear() {
	x.regions = nil
}

// Len returns the number of regions.
func (x *HighlightIndex) Len() int {
	return len(x.regions)
}

// RegionAt returns the first region, in insertion order, whose range
// contains the rune offset. The second result is false on miss.
func (x *HighlightIndex) RegionAt(i int) (HighlightRegion, bool) {
	for _, reg := range x.regions {
		if reg.Range.Contains(i) {
			return reg, true
		}
	}
	return HighlightRegion{}, false
}

// RegionsIntersecting returns every region whose range intersects the
// given range, in insertion order.
func (x *HighlightIndex) RegionsIntersecting(r Range) []HighlightRegion {
	var out []HighlightRegion
	for _, reg := range x.regions {
		if reg.Range.Intersects(r) {
			out = append(out, reg)
		}
	}
	return out
}
