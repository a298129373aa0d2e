package annotext

import "image"

// ContentKind identifies the variant of content embedded in an
// Attachment.
type ContentKind int

const (
	// ContentImage embeds an image.Image drawn by the engine.
	ContentImage ContentKind = iota
	// ContentView embeds a host view handle rendered by the host.
	ContentView
	// ContentLayer embeds a host layer handle rendered by the host.
	ContentLayer
	// ContentCustom embeds opaque content the host draws itself.
	ContentCustom
)

// String returns the string representation of the content kind.
func (k ContentKind) String() string {
	switch k {
	case ContentImage:
		return "Image"
	case ContentView:
		return "View"
	case ContentLayer:
		return "Layer"
	case ContentCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// ContentMode controls how attachment content is fitted into the
// attachment's box.
type ContentMode int

const (
	// ModeFill stretches the content to fill the box exactly.
	ModeFill ContentMode = iota
	// ModeAspectFit scales the content to fit inside the box,
	// preserving aspect ratio and centering.
	ModeAspectFit
	// ModeAspectFill scales the content to cover the box,
	// preserving aspect ratio and centering; overflow is clipped.
	ModeAspectFill
	// ModeCenter places unscaled content at the box center.
	ModeCenter
	// ModeTop places unscaled content at the top center.
	ModeTop
	// ModeBottom places unscaled content at the bottom center.
	ModeBottom
	// ModeLeft places unscaled content at the left center.
	ModeLeft
	// ModeRight places unscaled content at the right center.
	ModeRight
	// ModeTopLeft places unscaled content at the top left.
	ModeTopLeft
	// ModeTopRight places unscaled content at the top right.
	ModeTopRight
	// ModeBottomLeft places unscaled content at the bottom left.
	ModeBottomLeft
	// ModeBottomRight places unscaled content at the bottom right.
	ModeBottomRight

	numContentModes = iota
)

// VerticalAlignment positions an attachment's box relative to the
// host font's baseline band.
type VerticalAlignment int

const (
	// AlignTop hangs the box from the line's ascent.
	AlignTop VerticalAlignment = iota
	// AlignCenter centers the box on the font's midline.
	AlignCenter
	// AlignBottom rests the box on the line's descent.
	AlignBottom
)

// String returns the string representation of the alignment.
func (a VerticalAlignment) String() string {
	switch a {
	case AlignTop:
		return "Top"
	case AlignCenter:
		return "Center"
	case AlignBottom:
		return "Bottom"
	default:
		return "Unknown"
	}
}

// Attachment is an inline object embedded at a text location and sized
// like a glyph: images, host views or layers, or custom content. Its
// declared Size, BaselineOffset and Alignment determine the ascent,
// descent and width reported to the typesetting backend (see
// AttachmentMetrics).
type Attachment struct {
	// Kind selects the content variant.
	Kind ContentKind

	// Content holds the variant payload: image.Image for
	// ContentImage, an opaque host handle otherwise. Nil content is
	// legal (it occurs after decoding a non-archivable variant) and
	// leaves the attachment's metrics intact.
	Content any

	// Size is the declared box size, before margins.
	Size Size

	// ScalesWithFont scales Size proportionally when the host font
	// size changes.
	ScalesWithFont bool

	// BaselineOffset shifts the box up (positive) or down (negative)
	// relative to the baseline.
	BaselineOffset float64

	// Alignment selects the vertical placement policy.
	Alignment VerticalAlignment

	// Mode controls how Content fits the box.
	Mode ContentMode

	// Margins pad the box on each side; they contribute to the
	// reported width but not to the content box.
	Margins Insets

	// CornerRadius clips the content box to a rounded rect.
	CornerRadius float64

	// Border is drawn around the content box. Nil skips it.
	Border *Border

	// Shadow is drawn under the content box. Nil skips it.
	Shadow *Shadow

	// DrawsOwnDecorations suppresses the engine's border and shadow
	// pass; the host draws everything inside the box itself.
	DrawsOwnDecorations bool
}

// NewImageAttachment creates an image attachment with the given
// declared size.
func NewImageAttachment(img image.Image, size Size) *Attachment {
	return &Attachment{Kind: ContentImage, Content: img, Size: size, Mode: ModeAspectFit}
}

// NewViewAttachment creates an attachment around a host view handle.
func NewViewAttachment(view any, size Size) *Attachment {
	return &Attachment{Kind: ContentView, Content: view, Size: size}
}

// NewLayerAttachment creates an attachment around a host layer handle.
func NewLayerAttachment(layer any, size Size) *Attachment {
	return &Attachment{Kind: ContentLayer, Content: layer, Size: size}
}

// NewCustomAttachment creates an attachment with opaque host-drawn
// content.
func NewCustomAttachment(content any, size Size) *Attachment {
	return &Attachment{Kind: ContentCustom, Content: content, Size: size, DrawsOwnDecorations: true}
}

// BoxSize returns the declared size grown by the margins; this is the
// footprint the attachment occupies in the line.
func (a *Attachment) BoxSize() Size {
	return Size{
		Width:  a.Size.Width + a.Margins.Left + a.Margins.Right,
		Height: a.Size.Height + a.Margins.Top + a.Margins.Bottom,
	}
}

// Clone returns an independent deep copy of the attachment. Content is
// shared: images and host handles are opaque to the engine and never
// mutated by it.
func (a *Attachment) Clone() *Attachment {
	if a == nil {
		return nil
	}
	c := *a
	c.Border = a.Border.Clone()
	c.Shadow = a.Shadow.Clone()
	return &c
}
