package layout

import (
	"log/slog"
	"sync"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"

	"github.com/annotext/annotext"
)

// Option configures a GoTextBackend during creation.
type Option func(*GoTextBackend)

// WithLogger injects the diagnostic sink.
func WithLogger(log *slog.Logger) Option {
	return func(b *GoTextBackend) { b.log = log }
}

// WithBaseDirection sets the base paragraph direction used when no
// strong directional text is present. The default is left-to-right.
func WithBaseDirection(rtl bool) Option {
	return func(b *GoTextBackend) { b.rtl = rtl }
}

// GoTextBackend is an annotext.Backend that shapes text with
// go-text/typesetting's HarfBuzz implementation: ligatures, kerning
// and complex scripts come out correctly, and attachment runs consult
// their sizing delegate instead of being shaped.
//
// GoTextBackend is safe for concurrent use. HarfbuzzShaper instances
// have internal mutable state and are pooled; parsed go-text fonts are
// cached per FontSource.
type GoTextBackend struct {
	defaultFace *Face
	rtl         bool
	log         *slog.Logger

	// shaperPool pools HarfbuzzShaper instances; they are not safe
	// for concurrent use but cheap to reuse sequentially.
	shaperPool sync.Pool
}

// NewGoTextBackend creates a backend shaping with the given default
// face. Runs that carry their own annotext.KeyFont Face override it.
func NewGoTextBackend(defaultFace *Face, opts ...Option) *GoTextBackend {
	b := &GoTextBackend{
		defaultFace: defaultFace,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = annotext.Logger()
	}
	return b
}

// glyphPos is one positioned glyph (or attachment pseudo-glyph) after
// wrapping: cluster offsets are absolute rune indices into the source
// text, x is the advance offset within the line.
type glyphPos struct {
	cluster    int
	clusterEnd int
	x          float64
	adv        float64
}

// piece is one pre-wrap stretch of uniform content: either a shaped
// text stretch or a single attachment run.
type piece struct {
	rng     annotext.Range
	face    *Face
	sizer   *annotext.RunSizer
	glyphs  []glyphPos
	ascent  float64
	descent float64
	width   float64 // attachment pieces only
	isBreak bool    // hard line break marker
}

// Layout implements annotext.Backend. It shapes the text, wraps it to
// the container width (height for vertical layout), and returns line
// geometry with one baseline origin per line.
func (b *GoTextBackend) Layout(t *annotext.Text, size annotext.Size, opts annotext.LayoutOptions) (*annotext.Frame, error) {
	if t == nil {
		return &annotext.Frame{}, nil
	}
	pieces, err := b.buildPieces(t)
	if err != nil {
		return nil, err
	}

	maxWidth := size.Width
	if opts.Vertical {
		maxWidth = size.Height
	}
	lines := b.wrap(pieces, maxWidth, opts.Vertical)

	spacing := opts.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	gap := 0.0
	if b.defaultFace != nil {
		gap = b.defaultFace.LineGap()
	}

	frame := &annotext.Frame{}
	var y float64
	for i, ln := range lines {
		if i == 0 {
			y = ln.ascent
		} else {
			y += lines[i-1].descent + gap*spacing + ln.ascent
		}
		if opts.Vertical {
			frame.Origins = append(frame.Origins, annotext.Pt(size.Width-y, 0))
		} else {
			frame.Origins = append(frame.Origins, annotext.Pt(0, y))
		}
		frame.Lines = append(frame.Lines, ln)
	}
	return frame, nil
}

// buildPieces turns the text's uniform attribute runs into shaping
// pieces: attachment runs become sized pseudo-glyph pieces, text runs
// are split at hard breaks, segmented by direction and shaped.
func (b *GoTextBackend) buildPieces(t *annotext.Text) ([]piece, error) {
	runes := []rune(t.String())
	var pieces []piece

	for _, run := range t.Runs() {
		face := b.defaultFace
		if f, ok := run.Attributes[annotext.KeyFont].(*Face); ok && f != nil {
			face = f
		}

		if sizer, ok := run.Attributes[annotext.KeyRunSizer].(*annotext.RunSizer); ok && sizer != nil {
			ascent, descent, width := sizer.Metrics()
			pieces = append(pieces, piece{
				rng:     run.Range,
				face:    face,
				sizer:   sizer,
				ascent:  ascent,
				descent: descent,
				width:   width,
			})
			continue
		}
		if face == nil {
			return nil, ErrNoFace
		}

		// Split the run at hard breaks; each break is its own piece.
		start := run.Range.Start
		for i := run.Range.Start; i <= run.Range.End; i++ {
			atEnd := i == run.Range.End
			if !atEnd && runes[i] != '\n' {
				continue
			}
			if i > start {
				p, err := b.shapePiece(runes, annotext.Rng(start, i), face)
				if err != nil {
					return nil, err
				}
				pieces = append(pieces, p)
			}
			if !atEnd {
				pieces = append(pieces, piece{
					rng:     annotext.Rng(i, i+1),
					face:    face,
					isBreak: true,
				})
			}
			start = i + 1
		}
	}
	return pieces, nil
}

// shapePiece shapes one break-free stretch of text with a uniform
// face, segmenting by direction first.
func (b *GoTextBackend) shapePiece(runes []rune, rng annotext.Range, face *Face) (piece, error) {
	fnt, err := face.source.gotext()
	if err != nil {
		return piece{}, err
	}

	base := di.DirectionLTR
	if b.rtl {
		base = di.DirectionRTL
	}
	segs := segmentByDirection(runes[rng.Start:rng.End], base)

	p := piece{rng: rng, face: face}
	m := face.Metrics()
	p.ascent = m.Ascent
	p.descent = m.Descent

	hb := b.shaperPool.Get().(*shaping.HarfbuzzShaper)
	defer b.shaperPool.Put(hb)

	for _, seg := range segs {
		absStart := rng.Start + seg.start
		absEnd := rng.Start + seg.end
		input := shaping.Input{
			Text:      runes,
			RunStart:  absStart,
			RunEnd:    absEnd,
			Direction: seg.dir,
			Face:      gtfont.NewFace(fnt),
			Size:      floatToFixed(face.size),
			Script:    detectScript(runes[absStart:absEnd]),
			Language:  language.NewLanguage("en"),
		}
		out := hb.Shape(input)
		p.glyphs = appendGlyphs(p.glyphs, out.Glyphs, absEnd)
	}
	return p, nil
}

// appendGlyphs converts shaped glyphs to glyphPos entries with
// absolute cluster ranges. Cluster ends come from the following
// cluster in logical order, bounded by the segment end.
func appendGlyphs(dst []glyphPos, glyphs []shaping.Glyph, segEnd int) []glyphPos {
	first := len(dst)
	for _, g := range glyphs {
		dst = append(dst, glyphPos{
			cluster: g.TextIndex(),
			adv:     fixedToFloat(g.Advance),
		})
	}
	// Resolve cluster ends: the next larger cluster, or the segment
	// end for the last cluster (covers RTL order and ligatures).
	for i := first; i < len(dst); i++ {
		end := segEnd
		for j := first; j < len(dst); j++ {
			c := dst[j].cluster
			if c > dst[i].cluster && c < end {
				end = c
			}
		}
		dst[i].clusterEnd = end
	}
	return dst
}

// line is one wrapped row of runs; it implements annotext.Line.
type line struct {
	runs     []annotext.LineRun
	glyphs   []glyphPos
	width    float64
	ascent   float64
	descent  float64
	vertical bool
}

// wrap distributes pieces into lines with greedy cluster-granularity
// breaking. Break pieces force a new line; attachment pieces never
// split.
func (b *GoTextBackend) wrap(pieces []piece, maxWidth float64, vertical bool) []*line {
	var lines []*line
	cur := b.newLine(vertical)

	flush := func() {
		lines = append(lines, cur)
		cur = b.newLine(vertical)
	}

	for pi := range pieces {
		p := &pieces[pi]
		switch {
		case p.isBreak:
			cur.grow(p.ascent, p.descent)
			flush()
		case p.sizer != nil:
			if maxWidth > 0 && cur.width > 0 && cur.width+p.width > maxWidth {
				flush()
			}
			g := glyphPos{cluster: p.rng.Start, clusterEnd: p.rng.End, x: cur.width, adv: p.width}
			cur.glyphs = append(cur.glyphs, g)
			cur.runs = append(cur.runs, annotext.LineRun{
				Range:   p.rng,
				Width:   p.width,
				Ascent:  p.ascent,
				Descent: p.descent,
			})
			cur.width += p.width
			cur.grow(p.ascent, p.descent)
		default:
			runStart := -1
			var runWidth float64
			endRun := func() {
				if runStart < 0 {
					return
				}
				cur.runs = append(cur.runs, annotext.LineRun{
					Range:   clusterRange(cur.glyphs[runStart:]),
					Width:   runWidth,
					Ascent:  p.ascent,
					Descent: p.descent,
				})
				cur.grow(p.ascent, p.descent)
				runStart = -1
				runWidth = 0
			}
			for _, g := range p.glyphs {
				if maxWidth > 0 && cur.width > 0 && cur.width+g.adv > maxWidth {
					endRun()
					flush()
				}
				if runStart < 0 {
					runStart = len(cur.glyphs)
				}
				g.x = cur.width
				cur.glyphs = append(cur.glyphs, g)
				cur.width += g.adv
				runWidth += g.adv
			}
			endRun()
		}
	}
	if len(cur.runs) > 0 || len(cur.glyphs) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// newLine creates an empty line with the default face's metrics so
// that empty paragraphs still occupy a row.
func (b *GoTextBackend) newLine(vertical bool) *line {
	ln := &line{vertical: vertical}
	if b.defaultFace != nil {
		m := b.defaultFace.Metrics()
		ln.ascent = m.Ascent
		ln.descent = m.Descent
	}
	return ln
}

// grow raises the line's metrics to cover a run's band.
func (l *line) grow(ascent, descent float64) {
	if ascent > l.ascent {
		l.ascent = ascent
	}
	if descent > l.descent {
		l.descent = descent
	}
}

// clusterRange returns the rune range covered by a glyph stretch.
func clusterRange(glyphs []glyphPos) annotext.Range {
	if len(glyphs) == 0 {
		return annotext.Range{}
	}
	r := annotext.Rng(glyphs[0].cluster, glyphs[0].clusterEnd)
	for _, g := range glyphs[1:] {
		if g.cluster < r.Start {
			r.Start = g.cluster
		}
		if g.clusterEnd > r.End {
			r.End = g.clusterEnd
		}
	}
	return r
}

// Runs implements annotext.Line.
func (l *line) Runs() []annotext.LineRun {
	return l.runs
}

// IndexForPosition implements annotext.Line: the query is valid when
// the position's advance coordinate falls within the line's advance
// extent; the result is the rune offset of the glyph cluster under it.
func (l *line) IndexForPosition(p annotext.Point) (int, bool) {
	c := p.X
	if l.vertical {
		c = p.Y
	}
	if c < 0 || c > l.width || len(l.glyphs) == 0 {
		return 0, false
	}
	for _, g := range l.glyphs {
		if c < g.x+g.adv {
			return g.cluster, true
		}
	}
	return l.glyphs[len(l.glyphs)-1].cluster, true
}

// OffsetForIndex implements annotext.Line: the advance offset of the
// rune within the line, or the line width when the rune is past its
// end.
func (l *line) OffsetForIndex(i int) float64 {
	for _, g := range l.glyphs {
		if i < g.clusterEnd && i >= g.cluster {
			return g.x
		}
	}
	for _, g := range l.glyphs {
		if g.cluster >= i {
			return g.x
		}
	}
	return l.width
}

// detectScript inspects the runes and returns the script of the first
// non-space character. For mixed-script text the direction
// segmentation has already split the runs.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
