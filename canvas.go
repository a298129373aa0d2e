package annotext

import "image"

// Canvas is the rasterization surface the decoration post-pass draws
// into. It is provided by the host; this engine never rasterizes
// pixels itself. The API is immediate-mode with scoped state:
// Save/Restore bracket every decoration so state never leaks between
// draws.
type Canvas interface {
	// Save pushes the current drawing state (colors, stroke
	// parameters, clip, shadow).
	Save()
	// Restore pops to the most recently saved state.
	Restore()

	// SetFillColor sets the color used by Fill.
	SetFillColor(c RGBA)
	// SetStrokeColor sets the color used by Stroke.
	SetStrokeColor(c RGBA)
	// SetStrokeWidth sets the stroke width in points.
	SetStrokeWidth(w float64)
	// SetStrokeCap sets the stroke end-cap shape.
	SetStrokeCap(cap LineCap)
	// SetStrokeJoin sets the stroke corner shape.
	SetStrokeJoin(join LineJoin)
	// SetDash sets the dash pattern; nil restores solid stroking.
	SetDash(pattern []float64)

	// Rect starts a rectangular path.
	Rect(r Rect)
	// RoundedRect starts a rounded-rectangular path.
	RoundedRect(r Rect, radius float64)

	// Fill fills the current path and clears it.
	Fill()
	// Stroke strokes the current path and clears it.
	Stroke()
	// Clip intersects the clip region with the current path and
	// clears it.
	Clip()

	// DrawImage draws the image scaled into the rect.
	DrawImage(img image.Image, r Rect)

	// SetShadow composites a shadow under subsequent draws; a zero
	// color alpha disables it.
	SetShadow(c RGBA, offset Point, blur float64)

	// DrawHandle renders a host view or layer handle into the rect.
	// Unrecognized handles are a no-op.
	DrawHandle(handle any, r Rect)
}
