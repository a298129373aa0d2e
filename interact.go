package annotext

import (
	"log/slog"
	"time"
)

// InteractionDelegate is notified after the controller handles a tap
// or long press on a highlight region.
type InteractionDelegate interface {
	HighlightInteracted(r Range, h *Highlight)
}

// Scheduler defers a callback by the given duration. The default
// scheduler wraps time.AfterFunc, which runs callbacks on a background
// goroutine; hosts with a single-threaded interaction loop should
// inject a scheduler that posts the callback onto that loop so expiry
// never races with event handling.
type Scheduler func(d time.Duration, fn func())

// activeHighlight is the transient "currently emphasized" state of a
// range after a successful hit. Progress decays linearly from 1 to 0
// over Duration when animated.
type activeHighlight struct {
	rng      Range
	start    time.Time
	duration float64
	animated bool
}

// ControllerOption configures a Controller during creation.
type ControllerOption func(*Controller)

// WithClock injects the time source used for fade progress. Tests use
// this for deterministic decay sampling.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// WithScheduler injects the deferred-callback scheduler used for
// active-highlight expiry.
func WithScheduler(s Scheduler) ControllerOption {
	return func(c *Controller) { c.schedule = s }
}

// WithView injects the host view provider. The provider is consulted
// at dispatch time; returning nil means the view is gone and handlers
// receive a nil view.
func WithView(view func() any) ControllerOption {
	return func(c *Controller) { c.view = view }
}

// WithDelegate injects the interaction delegate provider. The provider
// is consulted at notification time; returning nil skips notification.
func WithDelegate(delegate func() InteractionDelegate) ControllerOption {
	return func(c *Controller) { c.delegate = delegate }
}

// WithRedraw injects the redraw request hook invoked when active
// highlight state changes.
func WithRedraw(redraw func()) ControllerOption {
	return func(c *Controller) { c.redraw = redraw }
}

// WithLogger injects the diagnostic sink.
func WithLogger(log *slog.Logger) ControllerOption {
	return func(c *Controller) { c.log = log }
}

// Controller resolves pointer interactions against line geometry and
// dispatches highlight handlers; it owns the transient active
// highlight state.
//
// Controller carries no internal lock: it must be called only from the
// single goroutine that owns the interactive view. State mutation
// assumes exclusive access; see Scheduler for the expiry callback's
// affinity.
type Controller struct {
	backend  Backend
	index    *HighlightIndex
	actives  []activeHighlight
	now      func() time.Time
	schedule Scheduler
	view     func() any
	delegate func() InteractionDelegate
	redraw   func()
	log      *slog.Logger
	closed   bool
}

// NewController creates a controller over the given geometry source
// and highlight index.
func NewController(backend Backend, index *HighlightIndex, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend: backend,
		index:   index,
		now:     time.Now,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = pickLogger(c.log)
	if c.index == nil {
		c.index = NewHighlightIndex()
	}
	return c
}

// Index returns the highlight index the controller resolves against.
func (c *Controller) Index() *HighlightIndex {
	return c.index
}

// Close marks the controller dead. Pending expiry callbacks cannot be
// cancelled; a callback firing after Close is a no-op so it never acts
// on a torn-down host.
func (c *Controller) Close() {
	c.closed = true
	c.actives = nil
}

// layoutFrame returns the supplied frame, or requests geometry
// synchronously from the backend when none was supplied.
func (c *Controller) layoutFrame(tx *Text, container Rect, vertical bool, frame *Frame) *Frame {
	if frame != nil {
		return frame
	}
	if c.backend == nil || tx == nil {
		return nil
	}
	f, err := c.backend.Layout(tx, container.Size(), LayoutOptions{Vertical: vertical})
	if err != nil {
		c.log.Warn("annotext: layout for hit test failed", "err", err)
		return nil
	}
	return f
}

// CharacterIndex resolves the rune offset under a container-local
// point, or -1 and false on miss. When frame is nil the geometry is
// requested synchronously from the backend for text sized to the
// container.
//
// Lines are queried in geometry order and the first line whose query
// the backend reports valid wins, with no check that the point falls
// inside that line's vertical band. When lines overlap this can
// misattribute the hit.
func (c *Controller) CharacterIndex(p Point, tx *Text, container Rect, frame *Frame) (int, bool) {
	return c.characterIndex(p, tx, container, false, frame)
}

// CharacterIndexVertical is CharacterIndex routed through the vertical
// layout geometry source.
func (c *Controller) CharacterIndexVertical(p Point, tx *Text, container Rect, frame *Frame) (int, bool) {
	return c.characterIndex(p, tx, container, true, frame)
}

func (c *Controller) characterIndex(p Point, tx *Text, container Rect, vertical bool, frame *Frame) (int, bool) {
	f := c.layoutFrame(tx, container, vertical, frame)
	if f == nil {
		return -1, false
	}
	for i, line := range f.Lines {
		if i >= len(f.Origins) {
			break
		}
		local := p.Sub(f.Origins[i])
		if idx, ok := line.IndexForPosition(local); ok {
			return idx, true
		}
	}
	return -1, false
}

// BoundingRect accumulates, across every line and every run whose
// character range intersects the target range, the union of the run
// band rects. It returns a zero rect, never a sentinel, when no run
// intersects; callers must treat a zero rect as "no geometry".
func (c *Controller) BoundingRect(r Range, tx *Text, container Rect, frame *Frame) Rect {
	return c.boundingRect(r, tx, container, false, frame)
}

// BoundingRectVertical is BoundingRect routed through the vertical
// layout geometry source.
func (c *Controller) BoundingRectVertical(r Range, tx *Text, container Rect, frame *Frame) Rect {
	return c.boundingRect(r, tx, container, true, frame)
}

func (c *Controller) boundingRect(r Range, tx *Text, container Rect, vertical bool, frame *Frame) Rect {
	f := c.layoutFrame(tx, container, vertical, frame)
	if f == nil {
		return Rect{}
	}
	var out Rect
	for i, line := range f.Lines {
		if i >= len(f.Origins) {
			break
		}
		origin := f.Origins[i]
		for _, run := range line.Runs() {
			sect := run.Range.Intersect(r)
			if sect.IsEmpty() {
				continue
			}
			// Line origins are baselines in y-down coordinates,
			// so the run band starts one ascent above the origin.
			rect := Rect{
				X: origin.X + line.OffsetForIndex(sect.Start),
				Y: origin.Y - run.Ascent,
				W: run.Width,
				H: run.Ascent + run.Descent,
			}
			out = out.Union(rect)
		}
	}
	return out
}

// HandleTap resolves the point to a highlight region and, if one is
// hit, dispatches its tap handler, activates the range, requests a
// redraw and notifies the delegate. It reports whether the tap was
// handled; a miss has no side effects.
func (c *Controller) HandleTap(p Point, tx *Text, container Rect) bool {
	return c.handleHit(p, tx, container, false, func(h *Highlight) HighlightAction { return h.OnTap })
}

// HandleTapVertical is HandleTap routed through the vertical layout
// geometry source.
func (c *Controller) HandleTapVertical(p Point, tx *Text, container Rect) bool {
	return c.handleHit(p, tx, container, true, func(h *Highlight) HighlightAction { return h.OnTap })
}

// HandleLongPress resolves the point like HandleTap but dispatches the
// long-press handler.
func (c *Controller) HandleLongPress(p Point, tx *Text, container Rect) bool {
	return c.handleHit(p, tx, container, false, func(h *Highlight) HighlightAction { return h.OnLongPress })
}

// HandleLongPressVertical is HandleLongPress routed through the
// vertical layout geometry source.
func (c *Controller) HandleLongPressVertical(p Point, tx *Text, container Rect) bool {
	return c.handleHit(p, tx, container, true, func(h *Highlight) HighlightAction { return h.OnLongPress })
}

func (c *Controller) handleHit(p Point, tx *Text, container Rect, vertical bool, action func(*Highlight) HighlightAction) bool {
	if c.closed {
		return false
	}
	frame := c.layoutFrame(tx, container, vertical, nil)
	idx, ok := c.characterIndex(p, tx, container, vertical, frame)
	if !ok {
		return false
	}
	region, ok := c.index.RegionAt(idx)
	if !ok {
		return false
	}

	rect := c.boundingRect(region.Range, tx, container, vertical, frame)

	var view any
	if c.view != nil {
		view = c.view()
	}
	if fn := action(region.Highlight); fn != nil {
		fn(view, tx, region.Range, rect)
	}

	c.activate(region.Range, region.Highlight.Duration, region.Highlight.Animated)
	c.requestRedraw()
	if c.delegate != nil {
		if d := c.delegate(); d != nil {
			d.HighlightInteracted(region.Range, region.Highlight)
		}
	}
	return true
}

// Activate marks the range active for the given duration, for callers
// that resolve their own hits. A non-positive duration keeps the range
// active until ClearActive.
func (c *Controller) Activate(r Range, duration float64, animated bool) {
	if c.closed {
		return
	}
	c.activate(r, duration, animated)
	c.requestRedraw()
}

func (c *Controller) activate(r Range, duration float64, animated bool) {
	c.actives = append(c.actives, activeHighlight{
		rng:      r,
		start:    c.now(),
		duration: duration,
		animated: animated,
	})
	c.log.Debug("annotext: highlight activated", "start", r.Start, "end", r.End, "duration", duration)

	if duration <= 0 {
		return
	}
	// Expiry cannot be cancelled; the closed flag makes a late
	// callback a no-op instead of acting on freed state.
	c.schedule(time.Duration(duration*float64(time.Second)), func() {
		if c.closed {
			return
		}
		c.expire(r)
	})
}

// expire removes every active entry intersecting the exact range the
// expiry was scheduled for, then requests a redraw.
func (c *Controller) expire(r Range) {
	kept := c.actives[:0]
	for _, a := range c.actives {
		if !a.rng.Intersects(r) {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(c.actives) {
		return
	}
	c.actives = kept
	c.log.Debug("annotext: highlight expired", "start", r.Start, "end", r.End)
	c.requestRedraw()
}

// ClearActive drops all active highlight state and requests a redraw.
func (c *Controller) ClearActive() {
	if len(c.actives) == 0 {
		return
	}
	c.actives = nil
	c.requestRedraw()
}

// IsActive reports whether any active highlight intersects the range.
func (c *Controller) IsActive(r Range) bool {
	for _, a := range c.actives {
		if a.rng.Intersects(r) {
			return true
		}
	}
	return false
}

// ActiveProgress returns the fade progress of the first active
// highlight intersecting the range: 1 while fully active, decaying
// linearly to 0 at expiry when animated, and exactly 1 at any time
// when not animated. It returns 0 when nothing intersects.
func (c *Controller) ActiveProgress(r Range) float64 {
	for _, a := range c.actives {
		if !a.rng.Intersects(r) {
			continue
		}
		if !a.animated || a.duration <= 0 {
			return 1
		}
		elapsed := c.now().Sub(a.start).Seconds()
		if elapsed <= 0 {
			return 1
		}
		return max(0, 1-elapsed/a.duration)
	}
	return 0
}

func (c *Controller) requestRedraw() {
	if c.redraw != nil {
		c.redraw()
	}
}
