package annotext

// Shadow is a soft shadow composited under (or, for inner shadows,
// clipped inside) the decorated region.
type Shadow struct {
	// Color is the shadow color. A nil color skips the shadow.
	Color *RGBA

	// Offset displaces the shadow from the shadowed region.
	Offset Point

	// Radius is the blur radius in points.
	Radius float64

	// Inner draws the shadow inside the region instead of under it.
	Inner bool

	// Opacity scales the shadow color's alpha. The default 0 is
	// treated as fully opaque by the renderer.
	Opacity float64
}

// NewShadow creates a drop shadow with the given color, offset and blur.
func NewShadow(color *RGBA, offset Point, radius float64) *Shadow {
	return &Shadow{Color: color, Offset: offset, Radius: radius, Opacity: 1}
}

// EffectiveOpacity returns the opacity to composite with, mapping the
// zero value to 1.
func (s *Shadow) EffectiveOpacity() float64 {
	if s.Opacity <= 0 {
		return 1
	}
	if s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// Clone returns an independent deep copy of the shadow.
func (s *Shadow) Clone() *Shadow {
	if s == nil {
		return nil
	}
	c := *s
	c.Color = s.Color.Clone()
	return &c
}
