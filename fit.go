package annotext

// FitRect computes the rectangle content of the given size occupies
// inside bounds under a content mode. Scaling modes return a rect
// covering (or contained by) bounds; anchor modes place the content
// unscaled. Content with an empty size fits only under ModeFill.
func FitRect(mode ContentMode, content Size, bounds Rect) Rect {
	switch mode {
	case ModeFill:
		return bounds
	case ModeAspectFit, ModeAspectFill:
		return aspectRect(mode, content, bounds)
	}

	// Anchor modes: unscaled content placed by its anchor.
	r := Rect{W: content.Width, H: content.Height}

	switch mode {
	case ModeCenter, ModeTop, ModeBottom:
		r.X = bounds.X + (bounds.W-content.Width)/2
	case ModeLeft, ModeTopLeft, ModeBottomLeft:
		r.X = bounds.X
	case ModeRight, ModeTopRight, ModeBottomRight:
		r.X = bounds.MaxX() - content.Width
	}

	switch mode {
	case ModeCenter, ModeLeft, ModeRight:
		r.Y = bounds.Y + (bounds.H-content.Height)/2
	case ModeTop, ModeTopLeft, ModeTopRight:
		r.Y = bounds.Y
	case ModeBottom, ModeBottomLeft, ModeBottomRight:
		r.Y = bounds.MaxY() - content.Height
	}

	return r
}

// aspectRect scales content to fit inside (ModeAspectFit) or cover
// (ModeAspectFill) bounds, preserving aspect ratio and centering.
func aspectRect(mode ContentMode, content Size, bounds Rect) Rect {
	if content.IsEmpty() || bounds.Size().IsEmpty() {
		return Rect{X: bounds.X + bounds.W/2, Y: bounds.Y + bounds.H/2}
	}
	sx := bounds.W / content.Width
	sy := bounds.H / content.Height

	var s float64
	if mode == ModeAspectFit {
		s = min(sx, sy)
	} else {
		s = max(sx, sy)
	}

	w := content.Width * s
	h := content.Height * s
	return Rect{
		X: bounds.X + (bounds.W-w)/2,
		Y: bounds.Y + (bounds.H-h)/2,
		W: w,
		H: h,
	}
}
