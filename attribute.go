package annotext

import "log/slog"

// AttributeKey is a stable string token identifying one style facet.
// Canonical keys are understood natively by the typesetting backend;
// extended keys (prefixed "anno:") are understood only by this engine
// and rendered in a post-pass.
type AttributeKey string

// Canonical attribute keys, passed through to the typesetting backend.
const (
	// KeyFont holds a Face describing the run's font.
	KeyFont AttributeKey = "font"
	// KeyForeground holds the *RGBA fill color for glyphs.
	KeyForeground AttributeKey = "foreground"
	// KeyBackground holds the *RGBA background color behind glyphs.
	KeyBackground AttributeKey = "background"
	// KeyKern holds a float64 kerning adjustment in points.
	KeyKern AttributeKey = "kern"
	// KeyStrikethrough holds an int strikethrough style.
	KeyStrikethrough AttributeKey = "strikethrough"
	// KeyStrikethroughColor holds the *RGBA strikethrough color.
	KeyStrikethroughColor AttributeKey = "strikethroughColor"
	// KeyUnderline holds an int underline style.
	KeyUnderline AttributeKey = "underline"
	// KeyUnderlineColor holds the *RGBA underline color.
	KeyUnderlineColor AttributeKey = "underlineColor"
	// KeyStrokeWidth holds a float64 glyph outline stroke width.
	KeyStrokeWidth AttributeKey = "strokeWidth"
	// KeyStrokeColor holds the *RGBA glyph outline color.
	KeyStrokeColor AttributeKey = "strokeColor"
	// KeyTextShadow holds a *Shadow applied natively to glyphs.
	KeyTextShadow AttributeKey = "textShadow"
	// KeyParagraph holds an opaque paragraph style understood by the
	// backend.
	KeyParagraph AttributeKey = "paragraph"
	// KeyVerticalForms holds a bool enabling vertical glyph forms.
	KeyVerticalForms AttributeKey = "verticalForms"
	// KeyWritingDirection holds the base writing direction.
	KeyWritingDirection AttributeKey = "writingDirection"
	// KeyRunSizer holds the *RunSizer sizing delegate installed on
	// attachment runs; the backend consults it during shaping.
	KeyRunSizer AttributeKey = "runSizer"
)

// Extended attribute keys, carried alongside the canonical set and
// rendered by this engine's post-pass.
const (
	// KeyBorder holds a *Border drawn around the span.
	KeyBorder AttributeKey = "anno:border"
	// KeyBackgroundBorder holds a *Border drawn behind the span,
	// under the glyphs.
	KeyBackgroundBorder AttributeKey = "anno:backgroundBorder"
	// KeyShadow holds a *Shadow drawn under the span's glyphs.
	KeyShadow AttributeKey = "anno:shadow"
	// KeyInnerShadow holds a *Shadow clipped inside the span's glyphs.
	KeyInnerShadow AttributeKey = "anno:innerShadow"
	// KeyHighlight holds a *Highlight making the span interactive.
	KeyHighlight AttributeKey = "anno:highlight"
	// KeyGlyphTransform holds an opaque per-glyph transform applied
	// by the post-pass.
	KeyGlyphTransform AttributeKey = "anno:glyphTransform"
	// KeyAttachment holds a *Attachment embedded in the span.
	KeyAttachment AttributeKey = "anno:attachment"
)

// Face describes the host font of a run, as far as this engine needs
// it: the vertical metrics used to size inline objects. The concrete
// font object is owned by the typesetting backend.
type Face interface {
	Metrics() FontMetrics
}

// canonicalKeys is the fixed key table consulted by conversion.
// Unknown keys are intentionally discarded.
var canonicalKeys = map[AttributeKey]bool{
	KeyFont:               true,
	KeyForeground:         true,
	KeyBackground:         true,
	KeyKern:               true,
	KeyStrikethrough:      true,
	KeyStrikethroughColor: true,
	KeyUnderline:          true,
	KeyUnderlineColor:     true,
	KeyStrokeWidth:        true,
	KeyStrokeColor:        true,
	KeyTextShadow:         true,
	KeyParagraph:          true,
	KeyVerticalForms:      true,
	KeyWritingDirection:   true,
	KeyRunSizer:           true,
}

// extendedKeys are the decoration keys copied unchanged into converted
// output so the rendering post-pass can read them back per run.
var extendedKeys = []AttributeKey{
	KeyBorder,
	KeyBackgroundBorder,
	KeyShadow,
	KeyInnerShadow,
	KeyHighlight,
	KeyGlyphTransform,
}

// Attributes associates style keys with values.
type Attributes map[AttributeKey]any

// Clone returns a deep copy: decoration values are cloned, scalar and
// opaque values are shared.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	c := make(Attributes, len(a))
	for k, v := range a {
		switch d := v.(type) {
		case *Border:
			c[k] = d.Clone()
		case *Shadow:
			c[k] = d.Clone()
		case *Highlight:
			c[k] = d.Clone()
		case *Attachment:
			c[k] = d.Clone()
		case *RGBA:
			c[k] = d.Clone()
		default:
			c[k] = v
		}
	}
	return c
}

// Converter maps extended style attributes to the canonical set
// consumed by the typesetting backend, separating decorations into a
// per-run side-table read back by the rendering post-pass.
type Converter struct {
	provider *MetricProvider
	log      *slog.Logger
}

// NewConverter creates a converter using the given metric provider for
// attachment sizing. A nil provider gets a default one; a nil logger
// falls back to the package logger.
func NewConverter(provider *MetricProvider, log *slog.Logger) *Converter {
	l := pickLogger(log)
	if provider == nil {
		provider = NewMetricProvider(l)
	}
	return &Converter{provider: provider, log: l}
}

// Convert filters one attribute set down to the canonical key table.
// Unknown keys are dropped; no other key is silently discarded.
func (c *Converter) Convert(attrs Attributes) Attributes {
	out := make(Attributes, len(attrs))
	for k, v := range attrs {
		if canonicalKeys[k] {
			out[k] = v
		}
	}
	return out
}

// ConvertText walks every maximal run of uniform attributes and
// produces the converted text the backend lays out: canonical keys are
// kept, attachment runs get a sizing delegate installed under
// KeyRunSizer, and decoration keys are copied unchanged so the
// post-pass can read them back from the same run.
func (c *Converter) ConvertText(t *Text) *Text {
	out := NewText(t.String())
	for _, run := range t.Runs() {
		attrs := c.Convert(run.Attributes)

		if att, ok := run.Attributes[KeyAttachment].(*Attachment); ok && att != nil {
			var fm FontMetrics
			if face, ok := run.Attributes[KeyFont].(Face); ok && face != nil {
				fm = face.Metrics()
			}
			attrs[KeyRunSizer] = c.provider.Sizer(att, fm)
			attrs[KeyAttachment] = att
		}

		for _, k := range extendedKeys {
			if v, ok := run.Attributes[k]; ok {
				attrs[k] = v
			}
		}

		if len(attrs) > 0 {
			out.AddSpan(run.Range, attrs)
		}
	}
	return out
}
