package layout

import (
	"bytes"
	"fmt"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/annotext/annotext"
)

// FontSource represents a loaded font file. One FontSource can create
// multiple Face instances at different sizes. FontSource is
// heavyweight and should be shared across the application.
//
// FontSource is safe for concurrent use. Metrics come from the
// x/image sfnt tables; the go-text font used for shaping is parsed
// lazily on first use and cached.
type FontSource struct {
	data []byte
	sfnt *opentype.Font
	name string

	// mu guards buf; sfnt.Buffer is not safe for concurrent use.
	mu  sync.Mutex
	buf sfnt.Buffer

	gtOnce sync.Once
	gtFont *gtfont.Font
	gtErr  error
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this
// call.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	f, err := opentype.Parse(dataCopy)
	if err != nil {
		return nil, fmt.Errorf("layout: failed to parse font: %w", err)
	}

	s := &FontSource{data: dataCopy, sfnt: f}
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil {
		s.name = name
	}
	return s, nil
}

// Name returns the font family name, or "" if the font does not carry
// one.
func (s *FontSource) Name() string {
	return s.name
}

// Face creates a Face at the specified size in points. Face is
// lightweight; create one per size as needed.
func (s *FontSource) Face(size float64) *Face {
	return &Face{source: s, size: size}
}

// gotext returns the cached go-text font for shaping, parsing it on
// first use. gtfont.Font is read-only and safe for concurrent use.
func (s *FontSource) gotext() (*gtfont.Font, error) {
	s.gtOnce.Do(func() {
		face, err := gtfont.ParseTTF(bytes.NewReader(s.data))
		if err != nil {
			s.gtErr = fmt.Errorf("layout: go-text parse: %w", err)
			return
		}
		s.gtFont = face.Font
	})
	return s.gtFont, s.gtErr
}

// metrics returns ascent, descent (positive) and line gap at the given
// size.
func (s *FontSource) metrics(size float64) (ascent, descent, gap float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.sfnt.Metrics(&s.buf, fixed.Int26_6(size*64), font.HintingFull)
	if err != nil {
		return 0, 0, 0
	}
	ascent = fixedToFloat(m.Ascent)
	descent = fixedToFloat(m.Descent)
	gap = fixedToFloat(m.Height) - ascent - descent
	if gap < 0 {
		gap = 0
	}
	return ascent, descent, gap
}

// Face is a font at a specific size. It implements annotext.Face so it
// can be installed under annotext.KeyFont and consulted for inline
// object sizing.
type Face struct {
	source *FontSource
	size   float64
}

// Metrics implements annotext.Face.
func (f *Face) Metrics() annotext.FontMetrics {
	ascent, descent, _ := f.source.metrics(f.size)
	return annotext.FontMetrics{Ascent: ascent, Descent: descent}
}

// LineGap returns the font's recommended gap between lines at this
// face's size.
func (f *Face) LineGap() float64 {
	_, _, gap := f.source.metrics(f.size)
	return gap
}

// Size returns the face size in points.
func (f *Face) Size() float64 {
	return f.size
}

// Source returns the FontSource this face was created from.
func (f *Face) Source() *FontSource {
	return f.source
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// floatToFixed converts a float64 font size to fixed.Int26_6.
func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}
