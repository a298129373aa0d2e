package annotext

// HighlightAction is invoked when a tap or long press resolves to a
// highlight region. The view argument is the host's non-owning view
// handle as configured on the interaction controller; it may be nil.
type HighlightAction func(view any, tx *Text, r Range, rect Rect)

// Highlight marks a span as interactive: it carries the colors used to
// emphasize the region, the handlers to dispatch, and the timing of the
// transient "active" state entered after a successful hit.
type Highlight struct {
	// Color replaces the span's foreground color while highlighted.
	// Nil leaves the foreground alone.
	Color *RGBA

	// BackgroundColor is painted behind the region while highlighted.
	// Nil skips the background.
	BackgroundColor *RGBA

	// Border is drawn around the region while highlighted. Nil skips it.
	Border *Border

	// Shadow is drawn under the region while highlighted. Nil skips it.
	Shadow *Shadow

	// OnTap is dispatched when a tap resolves inside the region.
	OnTap HighlightAction

	// OnLongPress is dispatched when a long press resolves inside the
	// region.
	OnLongPress HighlightAction

	// UserInfo is an opaque payload carried for the host's benefit.
	UserInfo map[string]any

	// Duration is how long the region stays active after a hit.
	// Zero or negative means the region stays active until cleared.
	Duration float64

	// Animated enables the linear fade of the active state; when
	// false the active progress is 1 for the whole duration.
	Animated bool
}

// NewHighlight creates a highlight with the given background color and
// tap handler.
func NewHighlight(background *RGBA, onTap HighlightAction) *Highlight {
	return &Highlight{BackgroundColor: background, OnTap: onTap}
}

// Clone returns an independent deep copy of the highlight. Handler
// references and the user payload's values are shared (they are opaque
// to the engine); the payload map itself is copied.
func (h *Highlight) Clone() *Highlight {
	if h == nil {
		return nil
	}
	c := *h
	c.Color = h.Color.Clone()
	c.BackgroundColor = h.BackgroundColor.Clone()
	c.Border = h.Border.Clone()
	c.Shadow = h.Shadow.Clone()
	if h.UserInfo != nil {
		c.UserInfo = make(map[string]any, len(h.UserInfo))
		for k, v := range h.UserInfo {
			c.UserInfo[k] = v
		}
	}
	return &c
}
