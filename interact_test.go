package annotext

import (
	"math"
	"testing"
	"time"
)

// fakeLine is scripted line geometry: every rune is charWidth wide and
// the line is valid across its advance extent.
type fakeLine struct {
	rng       Range
	charWidth float64
	ascent    float64
	descent   float64
}

func (l *fakeLine) width() float64 {
	return float64(l.rng.Len()) * l.charWidth
}

func (l *fakeLine) Runs() []LineRun {
	return []LineRun{{Range: l.rng, Width: l.width(), Ascent: l.ascent, Descent: l.descent}}
}

func (l *fakeLine) IndexForPosition(p Point) (int, bool) {
	if p.X < 0 || p.X >= l.width() {
		return 0, false
	}
	return l.rng.Start + int(p.X/l.charWidth), true
}

func (l *fakeLine) OffsetForIndex(i int) float64 {
	if i < l.rng.Start {
		return 0
	}
	if i >= l.rng.End {
		return l.width()
	}
	return float64(i-l.rng.Start) * l.charWidth
}

// fakeBackend serves scripted frames and records layout requests.
type fakeBackend struct {
	frame         *Frame
	verticalFrame *Frame
	layouts       int
}

func (b *fakeBackend) Layout(t *Text, size Size, opts LayoutOptions) (*Frame, error) {
	b.layouts++
	if opts.Vertical && b.verticalFrame != nil {
		return b.verticalFrame, nil
	}
	return b.frame, nil
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// manualScheduler records deferred callbacks; tests fire them by hand
// to emulate the host's cooperative queue running.
type manualScheduler struct {
	delays []time.Duration
	fns    []func()
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, fn)
}

func (s *manualScheduler) fireAll() {
	fns := s.fns
	s.fns = nil
	s.delays = nil
	for _, fn := range fns {
		fn()
	}
}

// recordingDelegate records interaction notifications.
type recordingDelegate struct {
	ranges []Range
}

func (d *recordingDelegate) HighlightInteracted(r Range, h *Highlight) {
	d.ranges = append(d.ranges, r)
}

func singleLineFrame() *Frame {
	ln := &fakeLine{rng: Rng(0, 11), charWidth: 10, ascent: 10, descent: 2}
	return &Frame{
		Lines:   []Line{ln},
		Origins: []Point{Pt(0, 50)},
	}
}

type tapRecord struct {
	view any
	rng  Range
	rect Rect
}

func controllerFixture(t *testing.T) (*Controller, *fakeClock, *manualScheduler, *recordingDelegate, *int) {
	t.Helper()

	clock := newFakeClock()
	sched := &manualScheduler{}
	delegate := &recordingDelegate{}
	redraws := 0

	c := NewController(
		&fakeBackend{frame: singleLineFrame()},
		NewHighlightIndex(),
		WithClock(clock.Now),
		WithScheduler(sched.schedule),
		WithDelegate(func() InteractionDelegate { return delegate }),
		WithRedraw(func() { redraws++ }),
	)
	return c, clock, sched, delegate, &redraws
}

// TestController_HandleTapHit tests the full hit path: handler
// dispatch, activation, redraw and delegate notification.
func TestController_HandleTapHit(t *testing.T) {
	c, _, _, delegate, redraws := controllerFixture(t)

	var got tapRecord
	h := &Highlight{
		Duration: 1,
		OnTap: func(view any, tx *Text, r Range, rect Rect) {
			got = tapRecord{view: view, rng: r, rect: rect}
		},
	}
	c.Index().Add(h, Rng(2, 6))

	tx := NewText("hello world")
	container := RectFrom(Pt(0, 0), Sz(200, 100))

	handled := c.HandleTap(Pt(35, 48), tx, container)
	if !handled {
		t.Fatal("HandleTap should report handled")
	}
	if got.rng != Rng(2, 6) {
		t.Errorf("handler range = %v, want [2,6)", got.rng)
	}

	// Run band: x = origin.X + offset(2) = 20, y = 50 - ascent 10,
	// width = full run width 110, height = ascent + descent.
	want := Rect{X: 20, Y: 40, W: 110, H: 12}
	if got.rect != want {
		t.Errorf("handler rect = %+v, want %+v", got.rect, want)
	}

	if !c.IsActive(Rng(2, 6)) {
		t.Error("range should be active after tap")
	}
	if *redraws == 0 {
		t.Error("tap should request a redraw")
	}
	if len(delegate.ranges) != 1 || delegate.ranges[0] != Rng(2, 6) {
		t.Errorf("delegate notified with %v, want [2,6)", delegate.ranges)
	}
}

// TestController_HandleTapMiss tests that a miss has no side effects.
func TestController_HandleTapMiss(t *testing.T) {
	c, _, _, delegate, redraws := controllerFixture(t)

	h := &Highlight{OnTap: func(any, *Text, Range, Rect) {
		t.Error("handler must not fire on miss")
	}}
	c.Index().Add(h, Rng(2, 6))

	tx := NewText("hello world")
	container := RectFrom(Pt(0, 0), Sz(200, 100))

	// Resolves to index 8, outside every region.
	if c.HandleTap(Pt(85, 48), tx, container) {
		t.Error("tap outside all regions should not be handled")
	}
	// Point outside the line's advance extent resolves nowhere.
	if c.HandleTap(Pt(500, 48), tx, container) {
		t.Error("tap outside geometry should not be handled")
	}

	if c.IsActive(Rng(0, 11)) {
		t.Error("no range should be active after a miss")
	}
	if *redraws != 0 || len(delegate.ranges) != 0 {
		t.Error("miss must not redraw or notify")
	}
}

// TestController_HandleLongPress tests long-press dispatch.
func TestController_HandleLongPress(t *testing.T) {
	c, _, _, _, _ := controllerFixture(t)

	pressed := false
	h := &Highlight{OnLongPress: func(any, *Text, Range, Rect) { pressed = true }}
	c.Index().Add(h, Rng(0, 5))

	tx := NewText("hello world")
	container := RectFrom(Pt(0, 0), Sz(200, 100))

	if !c.HandleLongPress(Pt(5, 48), tx, container) {
		t.Fatal("long press should be handled")
	}
	if !pressed {
		t.Error("long-press handler should fire")
	}
}

// TestController_ActivationDecay tests the timed fade: immediate
// activity, linear progress at the half-life, expiry via the
// scheduled callback.
func TestController_ActivationDecay(t *testing.T) {
	c, clock, sched, _, _ := controllerFixture(t)
	r := Rng(2, 6)

	c.Activate(r, 1.0, true)
	if !c.IsActive(r) {
		t.Fatal("range should be active immediately after Activate")
	}
	if got := c.ActiveProgress(r); got != 1 {
		t.Errorf("progress at t=0 is %f, want 1", got)
	}

	clock.Advance(500 * time.Millisecond)
	if got := c.ActiveProgress(r); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("progress at t=0.5 is %f, want 0.5", got)
	}

	clock.Advance(500 * time.Millisecond)
	sched.fireAll()
	if c.IsActive(r) {
		t.Error("range should expire once the queue runs the callback")
	}
	if got := c.ActiveProgress(r); got != 0 {
		t.Errorf("progress after expiry is %f, want 0", got)
	}
}

// TestController_ProgressNotAnimated tests that without animation the
// progress stays exactly 1 for the whole duration.
func TestController_ProgressNotAnimated(t *testing.T) {
	c, clock, _, _, _ := controllerFixture(t)
	r := Rng(0, 4)

	c.Activate(r, 1.0, false)
	clock.Advance(700 * time.Millisecond)
	if got := c.ActiveProgress(r); got != 1 {
		t.Errorf("unanimated progress = %f, want exactly 1", got)
	}
}

// TestController_ExpiryIntersecting tests that expiry removes every
// entry intersecting the scheduled range.
func TestController_ExpiryIntersecting(t *testing.T) {
	c, _, sched, _, _ := controllerFixture(t)

	c.Activate(Rng(0, 5), 1.0, false)
	c.Activate(Rng(3, 8), 0, false) // no expiry of its own
	c.Activate(Rng(20, 25), 0, false)

	sched.fireAll()

	if c.IsActive(Rng(0, 8)) {
		t.Error("entries intersecting the expired range should be gone")
	}
	if !c.IsActive(Rng(20, 25)) {
		t.Error("non-intersecting entry should survive expiry")
	}
}

// TestController_ExpiryAfterClose tests that a pending callback firing
// after Close is a no-op.
func TestController_ExpiryAfterClose(t *testing.T) {
	c, _, sched, _, redraws := controllerFixture(t)

	c.Activate(Rng(0, 5), 1.0, false)
	c.Close()
	before := *redraws
	sched.fireAll()

	if *redraws != before {
		t.Error("expiry after Close must not request a redraw")
	}
	if c.HandleTap(Pt(5, 48), NewText("hello world"), RectFrom(Pt(0, 0), Sz(200, 100))) {
		t.Error("closed controller must not handle taps")
	}
}

// TestController_BoundingRect tests the multi-line union and the zero
// rect miss contract.
func TestController_BoundingRect(t *testing.T) {
	l1 := &fakeLine{rng: Rng(0, 5), charWidth: 10, ascent: 10, descent: 2}
	l2 := &fakeLine{rng: Rng(5, 11), charWidth: 10, ascent: 8, descent: 4}
	frame := &Frame{
		Lines:   []Line{l1, l2},
		Origins: []Point{Pt(0, 20), Pt(0, 40)},
	}
	c := NewController(&fakeBackend{frame: frame}, NewHighlightIndex())

	tx := NewText("hello world")
	container := RectFrom(Pt(0, 0), Sz(200, 100))

	got := c.BoundingRect(Rng(3, 7), tx, container, nil)
	// Line 1 band: x=30, y=10, w=50, h=12. Line 2 band: x=0, y=32, w=60, h=12.
	want := Rect{X: 0, Y: 10, W: 80, H: 34}
	if got != want {
		t.Errorf("BoundingRect = %+v, want %+v", got, want)
	}

	if got := c.BoundingRect(Rng(50, 60), tx, container, nil); !got.IsZero() {
		t.Errorf("BoundingRect miss = %+v, want zero rect", got)
	}
}

// TestController_SuppliedFrameSkipsLayout tests that precomputed
// geometry avoids a backend layout.
func TestController_SuppliedFrameSkipsLayout(t *testing.T) {
	backend := &fakeBackend{frame: singleLineFrame()}
	c := NewController(backend, NewHighlightIndex())

	tx := NewText("hello world")
	container := RectFrom(Pt(0, 0), Sz(200, 100))

	idx, ok := c.CharacterIndex(Pt(35, 48), tx, container, singleLineFrame())
	if !ok || idx != 3 {
		t.Fatalf("CharacterIndex = (%d, %v), want (3, true)", idx, ok)
	}
	if backend.layouts != 0 {
		t.Errorf("backend laid out %d times, want 0 with supplied frame", backend.layouts)
	}

	if _, ok := c.CharacterIndex(Pt(35, 48), tx, container, nil); !ok {
		t.Fatal("CharacterIndex without frame should lay out and resolve")
	}
	if backend.layouts != 1 {
		t.Errorf("backend laid out %d times, want 1", backend.layouts)
	}
}

// TestController_VerticalRouting tests that the vertical variants use
// the vertical geometry source.
func TestController_VerticalRouting(t *testing.T) {
	vline := &fakeLine{rng: Rng(5, 11), charWidth: 10, ascent: 10, descent: 2}
	backend := &fakeBackend{
		frame: singleLineFrame(),
		verticalFrame: &Frame{
			Lines:   []Line{vline},
			Origins: []Point{Pt(0, 0)},
		},
	}
	c := NewController(backend, NewHighlightIndex())

	tx := NewText("hello world")
	container := RectFrom(Pt(0, 0), Sz(200, 100))

	idx, ok := c.CharacterIndexVertical(Pt(5, 0), tx, container, nil)
	if !ok || idx != 5 {
		t.Errorf("CharacterIndexVertical = (%d, %v), want (5, true)", idx, ok)
	}

	hit := false
	c.Index().Add(&Highlight{OnTap: func(any, *Text, Range, Rect) { hit = true }}, Rng(5, 8))
	if !c.HandleTapVertical(Pt(5, 0), tx, container) {
		t.Fatal("vertical tap should be handled")
	}
	if !hit {
		t.Error("vertical tap handler should fire")
	}
}

// TestController_FirstValidLineWins tests the geometry-order tie-break
// when overlapping lines both report a valid index.
func TestController_FirstValidLineWins(t *testing.T) {
	l1 := &fakeLine{rng: Rng(0, 5), charWidth: 10, ascent: 10, descent: 2}
	l2 := &fakeLine{rng: Rng(5, 10), charWidth: 10, ascent: 10, descent: 2}
	frame := &Frame{
		Lines:   []Line{l1, l2},
		Origins: []Point{Pt(0, 20), Pt(0, 20)},
	}
	c := NewController(&fakeBackend{frame: frame}, NewHighlightIndex())

	idx, ok := c.CharacterIndex(Pt(15, 999), NewText("hello worl"), RectFrom(Pt(0, 0), Sz(200, 100)), frame)
	if !ok || idx != 1 {
		t.Errorf("CharacterIndex = (%d, %v), want first line's answer (1, true)", idx, ok)
	}
}
