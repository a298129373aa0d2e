package layout

import "errors"

// Sentinel errors for the layout package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("layout: empty font data")

	// ErrNoFace is returned when a layout request has no face to
	// shape with: neither the text's font attributes nor the
	// backend's default face are set.
	ErrNoFace = errors.New("layout: no font face available")
)
