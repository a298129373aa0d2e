// Package annotext is a rich-text annotation and interactive
// inline-object layout engine.
//
// # Overview
//
// annotext augments a plain styled-text model with decorations the
// typesetting backend does not understand natively — borders, shadows,
// highlights — and with inline objects (images, host views, custom
// content) embedded at text locations and sized like glyphs. It
// computes the metrics inline objects must report during shaping,
// keeps bounded range-indexed bookkeeping for attachments and
// interactive regions, and performs hit-testing plus transient
// "active" highlight state over the resulting line geometry.
//
// # Data flow
//
//	styled text + attributes
//	    │ Converter.ConvertText
//	    ▼
//	canonical attributes + decoration side-table
//	    │ Backend.Layout (external; consults RunSizer per attachment run)
//	    ▼
//	Frame (lines, runs, origins)
//	    │ host paints canonical text, then
//	    │ Renderer.DrawDecorations paints the side-table
//	    ▼
//	Controller resolves taps/long presses against the same Frame
//	and the HighlightIndex, owning active-highlight fade state.
//
// # External collaborators
//
// The glyph-shaping backend and the rasterizing Canvas are consumed at
// their interfaces ([Backend], [Canvas]); the layout subpackage ships
// a go-text/typesetting backed [Backend]. annotext defines neither a
// line breaker nor a rasterizer.
//
// # Thread affinity
//
// Only [Registry] is safe for concurrent use. [HighlightIndex] and
// [Controller] must be confined to the goroutine that owns the
// interactive view; this is a documented contract, not an accident.
package annotext
