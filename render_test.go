package annotext

import (
	"fmt"
	"image"
	"testing"
	"time"
)

// recordingCanvas logs every call as a compact op string so tests can
// assert draw order and arguments.
type recordingCanvas struct {
	ops []string
}

func (c *recordingCanvas) op(format string, args ...any) {
	c.ops = append(c.ops, fmt.Sprintf(format, args...))
}

func (c *recordingCanvas) Save()    { c.op("save") }
func (c *recordingCanvas) Restore() { c.op("restore") }

func (c *recordingCanvas) SetFillColor(col RGBA)     { c.op("fillColor %s", col.HexString()) }
func (c *recordingCanvas) SetStrokeColor(col RGBA)   { c.op("strokeColor %s", col.HexString()) }
func (c *recordingCanvas) SetStrokeWidth(w float64)  { c.op("strokeWidth %g", w) }
func (c *recordingCanvas) SetStrokeCap(cap LineCap)  { c.op("cap %v", cap) }
func (c *recordingCanvas) SetStrokeJoin(j LineJoin)  { c.op("join %v", j) }
func (c *recordingCanvas) SetDash(pattern []float64) { c.op("dash %v", pattern) }

func (c *recordingCanvas) Rect(r Rect)                        { c.op("rect %g,%g %gx%g", r.X, r.Y, r.W, r.H) }
func (c *recordingCanvas) RoundedRect(r Rect, radius float64) { c.op("rrect %g,%g %gx%g r%g", r.X, r.Y, r.W, r.H, radius) }

func (c *recordingCanvas) Fill()   { c.op("fill") }
func (c *recordingCanvas) Stroke() { c.op("stroke") }
func (c *recordingCanvas) Clip()   { c.op("clip") }

func (c *recordingCanvas) DrawImage(img image.Image, r Rect) {
	c.op("image %g,%g %gx%g", r.X, r.Y, r.W, r.H)
}

func (c *recordingCanvas) SetShadow(col RGBA, offset Point, blur float64) {
	c.op("shadow %s %g,%g b%g", col.HexString(), offset.X, offset.Y, blur)
}

func (c *recordingCanvas) DrawHandle(handle any, r Rect) {
	c.op("handle %T %g,%g %gx%g", handle, r.X, r.Y, r.W, r.H)
}

func (c *recordingCanvas) has(op string) bool {
	for _, o := range c.ops {
		if o == op {
			return true
		}
	}
	return false
}

func (c *recordingCanvas) indexOf(op string) int {
	for i, o := range c.ops {
		if o == op {
			return i
		}
	}
	return -1
}

// decoratedFrame lays a single fake line over the text: one run per
// text run, each rune 10pt wide, baseline at y=20.
func decoratedFrame(tx *Text) *Frame {
	var runs []LineRun
	for _, r := range tx.Runs() {
		runs = append(runs, LineRun{
			Range:  r.Range,
			Width:  float64(r.Range.Len()) * 10,
			Ascent: 10, Descent: 2,
		})
	}
	ln := &decoratedLine{runs: runs}
	return &Frame{Lines: []Line{ln}, Origins: []Point{Pt(0, 20)}}
}

type decoratedLine struct {
	runs []LineRun
}

func (l *decoratedLine) Runs() []LineRun { return l.runs }

func (l *decoratedLine) IndexForPosition(p Point) (int, bool) {
	return 0, false
}

func (l *decoratedLine) OffsetForIndex(i int) float64 {
	return float64(i) * 10
}

// TestRenderer_DrawsBorder tests a full border draw: fill under stroke,
// dash pattern from the line style, insets applied to the band.
func TestRenderer_DrawsBorder(t *testing.T) {
	rd := NewRenderer(nil)
	cv := &recordingCanvas{}

	b := NewBorder(RGB(1, 0, 0), 2)
	b.FillColor = RGB(0, 1, 0)
	b.Style = LineDashed
	b.Insets = Insets{Top: 1, Left: 1, Bottom: 1, Right: 1}
	b.CornerRadius = 3

	tx := NewText("hello")
	tx.SetAttribute(Rng(0, 5), KeyBorder, b)

	rd.DrawDecorations(cv, tx, decoratedFrame(tx))

	// Band [0,5): x=0, y=10, w=50, h=12; inset by 1 on each side.
	if !cv.has("fillColor #00FF00FF") || !cv.has("strokeColor #FF0000FF") {
		t.Fatalf("missing fill/stroke colors in %v", cv.ops)
	}
	if fi, si := cv.indexOf("fill"), cv.indexOf("stroke"); fi < 0 || si < 0 || fi > si {
		t.Errorf("fill should precede stroke: %v", cv.ops)
	}
	if !cv.has("rrect 1,11 48x10 r3") {
		t.Errorf("inset rounded band missing in %v", cv.ops)
	}
	if !cv.has(fmt.Sprintf("dash %v", LineDashed.Dashes(2))) {
		t.Errorf("dash pattern missing in %v", cv.ops)
	}
}

// TestRenderer_SkipsNilSubResources tests that a border with no colors
// produces no draw ops beyond the state bracket.
func TestRenderer_SkipsNilSubResources(t *testing.T) {
	rd := NewRenderer(nil)
	cv := &recordingCanvas{}

	tx := NewText("hello")
	tx.SetAttribute(Rng(0, 5), KeyBorder, &Border{})

	rd.DrawDecorations(cv, tx, decoratedFrame(tx))

	if cv.has("fill") || cv.has("stroke") {
		t.Errorf("empty border must not draw: %v", cv.ops)
	}
}

// TestRenderer_HighlightGatedByController tests that with a controller
// attached, highlight backgrounds draw only while active and fade with
// the activation progress.
func TestRenderer_HighlightGatedByController(t *testing.T) {
	rd := NewRenderer(nil)
	h := NewHighlight(NewRGBA(0, 0, 1, 1), nil)

	tx := NewText("hello")
	tx.SetAttribute(Rng(0, 5), KeyHighlight, h)
	frame := decoratedFrame(tx)

	// Without a controller the background always draws.
	cv := &recordingCanvas{}
	rd.DrawDecorations(cv, tx, frame)
	if !cv.has("fillColor #0000FFFF") {
		t.Fatalf("highlight background missing without controller: %v", cv.ops)
	}

	// With a controller and no activation the highlight is skipped.
	clock := newFakeClock()
	rd.Controller = NewController(nil, NewHighlightIndex(),
		WithClock(clock.Now),
		WithScheduler(func(d time.Duration, fn func()) {}))
	cv = &recordingCanvas{}
	rd.DrawDecorations(cv, tx, frame)
	if cv.has("fillColor #0000FFFF") {
		t.Errorf("inactive highlight must not draw: %v", cv.ops)
	}

	// Activated and half faded: alpha scales the background color.
	rd.Controller.Activate(Rng(0, 5), 1.0, true)
	clock.Advance(500 * time.Millisecond)
	cv = &recordingCanvas{}
	rd.DrawDecorations(cv, tx, frame)
	if !cv.has("fillColor #0000FF7F") {
		t.Errorf("faded highlight fill missing: %v", cv.ops)
	}
}

// TestRenderer_AttachmentImage tests the attachment pass: clip to the
// corner radius, image fitted by mode into the margins-inset box.
func TestRenderer_AttachmentImage(t *testing.T) {
	rd := NewRenderer(nil)
	cv := &recordingCanvas{}

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	att := NewImageAttachment(img, Sz(20, 12))
	att.Mode = ModeFill
	att.CornerRadius = 2

	tx := NewText("a￼b")
	tx.SetAttribute(Rng(1, 2), KeyAttachment, att)

	rd.DrawDecorations(cv, tx, decoratedFrame(tx))

	// Band for run [1,2): x=10, y=10, w=10, h=12; no margins.
	if !cv.has("rrect 10,10 10x12 r2") || !cv.has("clip") {
		t.Errorf("corner clip missing: %v", cv.ops)
	}
	if !cv.has("image 10,10 10x12") {
		t.Errorf("image draw missing: %v", cv.ops)
	}
}

// TestRenderer_AttachmentHandle tests that host handles route through
// DrawHandle and custom content suppresses the decoration pass.
func TestRenderer_AttachmentHandle(t *testing.T) {
	rd := NewRenderer(nil)
	cv := &recordingCanvas{}

	type hostLayer struct{}
	att := NewCustomAttachment(&hostLayer{}, Sz(10, 12))
	att.Shadow = NewShadow(RGB(0, 0, 0), Pt(1, 1), 2)
	att.Mode = ModeFill

	tx := NewText("￼")
	tx.SetAttribute(Rng(0, 1), KeyAttachment, att)

	rd.DrawDecorations(cv, tx, decoratedFrame(tx))

	found := false
	for _, op := range cv.ops {
		if op == "handle *annotext.hostLayer 0,10 10x12" {
			found = true
		}
		if len(op) > 6 && op[:6] == "shadow" {
			t.Errorf("self-decorating attachment must suppress the shadow pass: %v", cv.ops)
		}
	}
	if !found {
		t.Errorf("handle draw missing: %v", cv.ops)
	}
}

// TestRenderer_MergesAdjacentRuns tests that consecutive runs sharing
// one decoration paint as a single box.
func TestRenderer_MergesAdjacentRuns(t *testing.T) {
	rd := NewRenderer(nil)
	cv := &recordingCanvas{}

	b := NewBorder(RGB(0, 0, 0), 1)
	tx := NewText("hello world")
	tx.SetAttribute(Rng(0, 11), KeyBorder, b)
	// A second key splits the text into two runs over the same border.
	tx.SetAttribute(Rng(0, 5), KeyKern, 1.0)

	rd.DrawDecorations(cv, tx, decoratedFrame(tx))

	strokes := 0
	for _, op := range cv.ops {
		if op == "stroke" {
			strokes++
		}
	}
	if strokes != 1 {
		t.Errorf("merged decoration painted %d strokes, want 1: %v", strokes, cv.ops)
	}
	if !cv.has("rrect 0,10 110x12 r0") {
		t.Errorf("unioned band missing: %v", cv.ops)
	}
}

// TestRenderer_NilInputsNoop tests the nil guards.
func TestRenderer_NilInputsNoop(t *testing.T) {
	rd := NewRenderer(nil)
	cv := &recordingCanvas{}

	rd.DrawDecorations(nil, NewText("x"), &Frame{})
	rd.DrawDecorations(cv, nil, &Frame{})
	rd.DrawDecorations(cv, NewText("x"), nil)

	if len(cv.ops) != 0 {
		t.Errorf("nil inputs must not draw: %v", cv.ops)
	}
}
