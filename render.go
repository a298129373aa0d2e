package annotext

import (
	"image"
	"log/slog"
)

// Renderer paints the decoration side-table of a converted text over
// geometry the typesetting backend produced. The canonical text itself
// is painted by the host; this post-pass adds background borders,
// highlight emphasis, borders, shadows and attachment content.
//
// A decoration with a missing sub-resource (nil color, nil shadow)
// skips that sub-draw; the pass never aborts.
type Renderer struct {
	// Controller, when set, supplies active-highlight state so that
	// highlight backgrounds are only painted while active, faded by
	// the activation progress.
	Controller *Controller

	log *slog.Logger
}

// NewRenderer creates a renderer. A nil logger falls back to the
// package logger.
func NewRenderer(log *slog.Logger) *Renderer {
	return &Renderer{log: pickLogger(log)}
}

// runBox is one decorated stretch of a line: the union of consecutive
// run bands that carry the same decoration value.
type runBox struct {
	rect  Rect
	rng   Range
	value any
}

// DrawDecorations paints the full post-pass for one frame: background
// borders, active highlight backgrounds, span borders, then
// attachments, in that order so strokes stay above fills.
func (rd *Renderer) DrawDecorations(cv Canvas, tx *Text, frame *Frame) {
	if cv == nil || tx == nil || frame == nil {
		return
	}
	for _, box := range rd.collect(tx, frame, KeyBackgroundBorder) {
		if b, ok := box.value.(*Border); ok {
			rd.drawBorder(cv, b, box.rect)
		}
	}
	for _, box := range rd.collect(tx, frame, KeyHighlight) {
		if h, ok := box.value.(*Highlight); ok {
			rd.drawHighlight(cv, h, box.rng, box.rect)
		}
	}
	for _, box := range rd.collect(tx, frame, KeyShadow) {
		if s, ok := box.value.(*Shadow); ok {
			rd.drawShadowBox(cv, s, box.rect)
		}
	}
	for _, box := range rd.collect(tx, frame, KeyBorder) {
		if b, ok := box.value.(*Border); ok {
			rd.drawBorder(cv, b, box.rect)
		}
	}
	for _, box := range rd.collect(tx, frame, KeyAttachment) {
		if a, ok := box.value.(*Attachment); ok {
			rd.drawAttachment(cv, a, box.rect)
		}
	}
}

// collect walks every line's runs and unions consecutive run bands
// that carry the same value under the key, yielding one box per
// decorated stretch per line.
func (rd *Renderer) collect(tx *Text, frame *Frame, key AttributeKey) []runBox {
	var boxes []runBox
	for i, line := range frame.Lines {
		if i >= len(frame.Origins) {
			break
		}
		origin := frame.Origins[i]
		var cur *runBox
		for _, run := range line.Runs() {
			if run.Range.IsEmpty() {
				cur = nil
				continue
			}
			val := tx.Attribute(key, run.Range.Start)
			if val == nil {
				cur = nil
				continue
			}
			rect := Rect{
				X: origin.X + line.OffsetForIndex(run.Range.Start),
				Y: origin.Y - run.Ascent,
				W: run.Width,
				H: run.Ascent + run.Descent,
			}
			if cur != nil && cur.value == val {
				cur.rect = cur.rect.Union(rect)
				cur.rng.End = run.Range.End
				continue
			}
			boxes = append(boxes, runBox{rect: rect, rng: run.Range, value: val})
			cur = &boxes[len(boxes)-1]
		}
	}
	return boxes
}

// drawBorder paints one border box: shadow, fill, then stroke, each
// skipped when its resource is absent.
func (rd *Renderer) drawBorder(cv Canvas, b *Border, rect Rect) {
	if b == nil {
		return
	}
	box := rect.Inset(b.Insets)

	cv.Save()
	defer cv.Restore()

	if b.Shadow != nil && b.Shadow.Color != nil {
		sc := *b.Shadow.Color
		sc.A *= b.Shadow.EffectiveOpacity()
		cv.SetShadow(sc, b.Shadow.Offset, b.Shadow.Radius)
	}
	if b.FillColor != nil {
		cv.SetFillColor(*b.FillColor)
		cv.RoundedRect(box, b.CornerRadius)
		cv.Fill()
	}
	if b.Color != nil && b.Width > 0 {
		cv.SetStrokeColor(*b.Color)
		cv.SetStrokeWidth(b.Width)
		cv.SetStrokeCap(b.Cap)
		cv.SetStrokeJoin(b.Join)
		cv.SetDash(b.Style.Dashes(b.Width))
		cv.RoundedRect(box, b.CornerRadius)
		cv.Stroke()
	}
}

// drawHighlight paints a highlight's emphasis background. When a
// controller is attached, inactive regions are skipped and active ones
// fade with the activation progress.
func (rd *Renderer) drawHighlight(cv Canvas, h *Highlight, rng Range, rect Rect) {
	if h == nil {
		return
	}
	alpha := 1.0
	if rd.Controller != nil {
		if !rd.Controller.IsActive(rng) {
			return
		}
		alpha = rd.Controller.ActiveProgress(rng)
		if alpha <= 0 {
			return
		}
	}
	cv.Save()
	defer cv.Restore()

	if h.Shadow != nil && h.Shadow.Color != nil {
		sc := *h.Shadow.Color
		sc.A *= h.Shadow.EffectiveOpacity()
		cv.SetShadow(sc, h.Shadow.Offset, h.Shadow.Radius)
	}
	if h.BackgroundColor != nil {
		bg := *h.BackgroundColor
		bg.A *= alpha
		cv.SetFillColor(bg)
		cv.Rect(rect)
		cv.Fill()
	}
	if h.Border != nil {
		rd.drawBorder(cv, h.Border, rect)
	}
}

// drawShadowBox paints a span shadow under the run band. Inner shadows
// clip to the band before compositing.
func (rd *Renderer) drawShadowBox(cv Canvas, s *Shadow, rect Rect) {
	if s == nil || s.Color == nil {
		return
	}
	cv.Save()
	defer cv.Restore()

	if s.Inner {
		cv.Rect(rect)
		cv.Clip()
	}
	sc := *s.Color
	sc.A *= s.EffectiveOpacity()
	cv.SetShadow(sc, s.Offset, s.Radius)
	cv.Rect(rect)
	cv.Fill()
}

// drawAttachment paints one attachment: shadow and border (unless the
// attachment draws its own), then the content fitted into the
// margins-inset box.
func (rd *Renderer) drawAttachment(cv Canvas, a *Attachment, box Rect) {
	if a == nil {
		return
	}
	content := box.Inset(a.Margins)

	cv.Save()
	defer cv.Restore()

	if !a.DrawsOwnDecorations {
		if a.Shadow != nil && a.Shadow.Color != nil {
			sc := *a.Shadow.Color
			sc.A *= a.Shadow.EffectiveOpacity()
			cv.SetShadow(sc, a.Shadow.Offset, a.Shadow.Radius)
		}
		if a.Border != nil {
			rd.drawBorder(cv, a.Border, content)
		}
	}

	if a.CornerRadius > 0 {
		cv.RoundedRect(content, a.CornerRadius)
		cv.Clip()
	}

	switch c := a.Content.(type) {
	case nil:
		// Decoded without content; metrics still reserved the box.
	case image.Image:
		b := c.Bounds()
		natural := Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
		cv.DrawImage(c, FitRect(a.Mode, natural, content))
	default:
		cv.DrawHandle(c, FitRect(a.Mode, a.Size, content))
	}
}
