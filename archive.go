package annotext

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
)

// archiveVersion is written into every archive for forward
// compatibility. Decoders accept any version they recognize the
// fields of.
const archiveVersion = 1

// Archiver encodes and decodes decorations to the keyed archive
// format. Decoding is resilient: a malformed field falls back to its
// documented default and is reported through the diagnostic sink;
// non-archivable attachment content degrades to a placeholder record
// on save and absent content on load, with scalar fields intact.
type Archiver struct {
	log *slog.Logger
}

// NewArchiver creates an archiver. A nil logger falls back to the
// package logger.
func NewArchiver(log *slog.Logger) *Archiver {
	return &Archiver{log: pickLogger(log)}
}

// EncodeBorder encodes a border as a keyed field set.
func (ar *Archiver) EncodeBorder(b *Border) ([]byte, error) {
	return json.Marshal(ar.borderFields(b))
}

func (ar *Archiver) borderFields(b *Border) map[string]any {
	if b == nil {
		return nil
	}
	m := map[string]any{
		"v":            archiveVersion,
		"width":        b.Width,
		"cornerRadius": b.CornerRadius,
		"insets": map[string]any{
			"top": b.Insets.Top, "left": b.Insets.Left,
			"bottom": b.Insets.Bottom, "right": b.Insets.Right,
		},
		"lineStyle": int(b.Style),
		"lineCap":   int(b.Cap),
		"lineJoin":  int(b.Join),
	}
	if b.Color != nil {
		m["color"] = b.Color.HexString()
	}
	if b.FillColor != nil {
		m["fillColor"] = b.FillColor.HexString()
	}
	if b.Shadow != nil {
		m["shadow"] = ar.shadowFields(b.Shadow)
	}
	return m
}

// DecodeBorder decodes a border from archive data.
func (ar *Archiver) DecodeBorder(data []byte) (*Border, error) {
	m, err := ar.unmarshal(data)
	if err != nil {
		return nil, err
	}
	return ar.borderFromFields(m), nil
}

func (ar *Archiver) borderFromFields(m map[string]any) *Border {
	if m == nil {
		return nil
	}
	b := &Border{
		Color:        ar.colorField(m, "border", "color"),
		Width:        ar.floatField(m, "border", "width", 0),
		CornerRadius: ar.floatField(m, "border", "cornerRadius", 0),
		Insets:       ar.insetsField(m, "border", "insets"),
		Style:        LineStyle(ar.intField(m, "border", "lineStyle", 0, int(LineDashDotDot))),
		FillColor:    ar.colorField(m, "border", "fillColor"),
		Cap:          LineCap(ar.intField(m, "border", "lineCap", 0, int(CapSquare))),
		Join:         LineJoin(ar.intField(m, "border", "lineJoin", 0, int(JoinBevel))),
	}
	if sub, ok := m["shadow"].(map[string]any); ok {
		b.Shadow = ar.shadowFromFields(sub)
	}
	return b
}

// EncodeShadow encodes a shadow as a keyed field set.
func (ar *Archiver) EncodeShadow(s *Shadow) ([]byte, error) {
	return json.Marshal(ar.shadowFields(s))
}

func (ar *Archiver) shadowFields(s *Shadow) map[string]any {
	if s == nil {
		return nil
	}
	m := map[string]any{
		"v":             archiveVersion,
		"offset":        map[string]any{"w": s.Offset.X, "h": s.Offset.Y},
		"radius":        s.Radius,
		"isInnerShadow": s.Inner,
		"opacity":       s.Opacity,
	}
	if s.Color != nil {
		m["color"] = s.Color.HexString()
	}
	return m
}

// DecodeShadow decodes a shadow from archive data.
func (ar *Archiver) DecodeShadow(data []byte) (*Shadow, error) {
	m, err := ar.unmarshal(data)
	if err != nil {
		return nil, err
	}
	return ar.shadowFromFields(m), nil
}

func (ar *Archiver) shadowFromFields(m map[string]any) *Shadow {
	if m == nil {
		return nil
	}
	s := &Shadow{
		Color:   ar.colorField(m, "shadow", "color"),
		Radius:  ar.floatField(m, "shadow", "radius", 0),
		Opacity: ar.floatField(m, "shadow", "opacity", 1),
	}
	if off, ok := m["offset"].(map[string]any); ok {
		s.Offset = Point{
			X: ar.floatField(off, "shadow", "offset.w", 0),
			Y: ar.floatField(off, "shadow", "offset.h", 0),
		}
	}
	if inner, ok := m["isInnerShadow"].(bool); ok {
		s.Inner = inner
	}
	return s
}

// EncodeHighlight encodes a highlight as a keyed field set. Handlers
// are not archivable and are dropped; the user payload must contain
// only JSON-encodable values.
func (ar *Archiver) EncodeHighlight(h *Highlight) ([]byte, error) {
	if h == nil {
		return json.Marshal(nil)
	}
	m := map[string]any{
		"v":                 archiveVersion,
		"highlightDuration": h.Duration,
		"enableAnimation":   h.Animated,
	}
	if h.Color != nil {
		m["color"] = h.Color.HexString()
	}
	if h.BackgroundColor != nil {
		m["backgroundColor"] = h.BackgroundColor.HexString()
	}
	if h.Border != nil {
		m["border"] = ar.borderFields(h.Border)
	}
	if h.Shadow != nil {
		m["shadow"] = ar.shadowFields(h.Shadow)
	}
	if h.UserInfo != nil {
		m["userInfo"] = h.UserInfo
	}
	return json.Marshal(m)
}

// DecodeHighlight decodes a highlight from archive data. Handlers come
// back nil; the host reattaches them after load.
func (ar *Archiver) DecodeHighlight(data []byte) (*Highlight, error) {
	m, err := ar.unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	h := &Highlight{
		Color:           ar.colorField(m, "highlight", "color"),
		BackgroundColor: ar.colorField(m, "highlight", "backgroundColor"),
		Duration:        ar.floatField(m, "highlight", "highlightDuration", 0),
	}
	if b, ok := m["border"].(map[string]any); ok {
		h.Border = ar.borderFromFields(b)
	}
	if s, ok := m["shadow"].(map[string]any); ok {
		h.Shadow = ar.shadowFromFields(s)
	}
	if anim, ok := m["enableAnimation"].(bool); ok {
		h.Animated = anim
	}
	if ui, ok := m["userInfo"].(map[string]any); ok {
		h.UserInfo = ui
	}
	return h, nil
}

// EncodeAttachment encodes an attachment as a keyed field set. Image
// content is embedded as PNG; view, layer and custom content is not
// archivable and degrades to a placeholder record carrying the content
// frame and type name.
func (ar *Archiver) EncodeAttachment(a *Attachment) ([]byte, error) {
	if a == nil {
		return json.Marshal(nil)
	}
	m := map[string]any{
		"v":                 archiveVersion,
		"contentType":       int(a.Kind),
		"contentMode":       int(a.Mode),
		"size":              map[string]any{"w": a.Size.Width, "h": a.Size.Height},
		"scalesWithFont":    a.ScalesWithFont,
		"baselineOffset":    a.BaselineOffset,
		"verticalAlignment": int(a.Alignment),
		"margins": map[string]any{
			"top": a.Margins.Top, "left": a.Margins.Left,
			"bottom": a.Margins.Bottom, "right": a.Margins.Right,
		},
		"cornerRadius": a.CornerRadius,
	}
	if a.Border != nil {
		m["border"] = ar.borderFields(a.Border)
	}
	if a.Shadow != nil {
		m["shadow"] = ar.shadowFields(a.Shadow)
	}

	if img, ok := a.Content.(image.Image); ok && a.Kind == ContentImage {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			ar.log.Warn("annotext: attachment image not archivable", "err", err)
		} else {
			m["content"] = base64.StdEncoding.EncodeToString(buf.Bytes())
		}
	} else if a.Content != nil {
		m["placeholder"] = map[string]any{
			"frame":    map[string]any{"x": 0, "y": 0, "w": a.Size.Width, "h": a.Size.Height},
			"typeName": fmt.Sprintf("%T", a.Content),
		}
	}
	return json.Marshal(m)
}

// DecodeAttachment decodes an attachment from archive data. A
// placeholder payload produces absent content with all scalar fields
// intact; a corrupt image payload does the same with a diagnostic.
func (ar *Archiver) DecodeAttachment(data []byte) (*Attachment, error) {
	m, err := ar.unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	a := &Attachment{
		Kind:           ContentKind(ar.intField(m, "attachment", "contentType", 0, int(ContentCustom))),
		Mode:           ContentMode(ar.intField(m, "attachment", "contentMode", 0, numContentModes-1)),
		BaselineOffset: ar.floatField(m, "attachment", "baselineOffset", 0),
		Alignment:      VerticalAlignment(ar.intField(m, "attachment", "verticalAlignment", 0, int(AlignBottom))),
		Margins:        ar.insetsField(m, "attachment", "margins"),
		CornerRadius:   ar.floatField(m, "attachment", "cornerRadius", 0),
	}
	if sz, ok := m["size"].(map[string]any); ok {
		a.Size = Size{
			Width:  ar.floatField(sz, "attachment", "size.w", 0),
			Height: ar.floatField(sz, "attachment", "size.h", 0),
		}
	}
	if swf, ok := m["scalesWithFont"].(bool); ok {
		a.ScalesWithFont = swf
	}
	if b, ok := m["border"].(map[string]any); ok {
		a.Border = ar.borderFromFields(b)
	}
	if s, ok := m["shadow"].(map[string]any); ok {
		a.Shadow = ar.shadowFromFields(s)
	}

	if enc, ok := m["content"].(string); ok {
		raw, err := base64.StdEncoding.DecodeString(enc)
		if err == nil {
			img, perr := png.Decode(bytes.NewReader(raw))
			if perr == nil {
				a.Content = img
			} else {
				err = perr
			}
		}
		if a.Content == nil {
			ar.log.Warn("annotext: attachment image payload corrupt, content dropped", "err", err)
		}
	} else if _, ok := m["placeholder"]; ok {
		ar.log.Warn("annotext: attachment content not archivable, restored without content",
			"kind", a.Kind.String())
	}
	return a, nil
}

// unmarshal parses archive data into a keyed field map.
func (ar *Archiver) unmarshal(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, ErrEmptyArchive
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// floatField reads a numeric field, falling back to def on absence or
// malformation. Malformation is reported through the sink.
func (ar *Archiver) floatField(m map[string]any, kind, key string, def float64) float64 {
	v, ok := m[lastKey(key)]
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		ar.log.Warn("annotext: malformed archive field", "err", &FieldError{Kind: kind, Field: key})
		return def
	}
	return f
}

// intField reads an enum field, clamping to [0, maxVal] and falling
// back to def on absence or malformation.
func (ar *Archiver) intField(m map[string]any, kind, key string, def, maxVal int) int {
	v, ok := m[lastKey(key)]
	if !ok {
		return def
	}
	f, ok := v.(float64)
	if !ok {
		ar.log.Warn("annotext: malformed archive field", "err", &FieldError{Kind: kind, Field: key})
		return def
	}
	n := int(f)
	if n < 0 || n > maxVal {
		ar.log.Warn("annotext: archive field out of range", "err", &FieldError{Kind: kind, Field: key})
		return def
	}
	return n
}

// colorField reads a hex color field; absence or malformation yields
// nil (the "skip this sub-draw" default).
func (ar *Archiver) colorField(m map[string]any, kind, key string) *RGBA {
	v, ok := m[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		ar.log.Warn("annotext: malformed archive field", "err", &FieldError{Kind: kind, Field: key})
		return nil
	}
	return Hex(s)
}

// insetsField reads a per-edge insets field; malformed edges fall back
// to zero individually.
func (ar *Archiver) insetsField(m map[string]any, kind, key string) Insets {
	sub, ok := m[key].(map[string]any)
	if !ok {
		if _, present := m[key]; present {
			ar.log.Warn("annotext: malformed archive field", "err", &FieldError{Kind: kind, Field: key})
		}
		return Insets{}
	}
	return Insets{
		Top:    ar.floatField(sub, kind, key+".top", 0),
		Left:   ar.floatField(sub, kind, key+".left", 0),
		Bottom: ar.floatField(sub, kind, key+".bottom", 0),
		Right:  ar.floatField(sub, kind, key+".right", 0),
	}
}

// lastKey strips a dotted path down to the map key it names.
func lastKey(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == '.' {
			return key[i+1:]
		}
	}
	return key
}
