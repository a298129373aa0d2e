package layout

import (
	"github.com/go-text/typesetting/di"
	"golang.org/x/text/unicode/bidi"
)

// segment is a contiguous run of runes with a uniform direction,
// expressed in rune offsets relative to the segmented slice.
type segment struct {
	start, end int
	dir        di.Direction
}

// segmentByDirection splits runes into direction-uniform segments
// using the Unicode bidi algorithm. The base direction resolves
// paragraphs without strong directional text.
func segmentByDirection(runes []rune, base di.Direction) []segment {
	if len(runes) == 0 {
		return nil
	}

	defaultDir := bidi.Neutral
	if base == di.DirectionRTL {
		defaultDir = bidi.RightToLeft
	}

	var p bidi.Paragraph
	if _, err := p.SetString(string(runes), bidi.DefaultDirection(defaultDir)); err != nil {
		return []segment{{start: 0, end: len(runes), dir: base}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []segment{{start: 0, end: len(runes), dir: base}}
	}

	levels := make([]int, len(runes))
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		// run.Pos() returns rune indices, end inclusive.
		start, end := run.Pos()
		level := 0
		if run.Direction() == bidi.RightToLeft {
			level = 1
		}
		for j := start; j <= end && j < len(levels); j++ {
			levels[j] = level
		}
	}

	var segs []segment
	segStart := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && levels[i] == levels[segStart] {
			continue
		}
		dir := di.DirectionLTR
		if levels[segStart]%2 == 1 {
			dir = di.DirectionRTL
		}
		segs = append(segs, segment{start: segStart, end: i, dir: dir})
		segStart = i
	}
	return segs
}
