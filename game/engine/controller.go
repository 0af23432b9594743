package engine

import (
	"fmt"
	"log"
	"time"
)

// InputKind is a front-end input event type
type InputKind string

const (
	InputRotateCW   InputKind = "rotate_cw"
	InputRotateCCW  InputKind = "rotate_ccw"
	InputHoverEnter InputKind = "hover_enter"
	InputHoverExit  InputKind = "hover_exit"
	InputConfirm    InputKind = "confirm"
)

// InputEvent is one queued front-end input. Handle is only used by hover events.
type InputEvent struct {
	Kind   InputKind `json:"kind"`
	Handle int       `json:"handle,omitempty"`
}

// ParseInputKind validates an input kind string
func ParseInputKind(s string) (InputKind, error) {
	switch k := InputKind(s); k {
	case InputRotateCW, InputRotateCCW, InputHoverEnter, InputHoverExit, InputConfirm:
		return k, nil
	}
	return "", fmt.Errorf("unknown input kind %q", s)
}

// Throttle is a saturating debounce counter. A request fires only when the
// counter is at zero; the counter then accumulates elapsed time and resets to
// zero on the first tick at or past Window.
type Throttle struct {
	Window  time.Duration
	elapsed time.Duration
}

// NewThrottle returns a throttle with the given window
func NewThrottle(window time.Duration) *Throttle {
	return &Throttle{Window: window}
}

// Step advances the counter by dt and reports whether a request fires
func (t *Throttle) Step(requested bool, dt time.Duration) bool {
	switch {
	case t.elapsed == 0 && requested:
		t.elapsed += dt
		return true
	case t.elapsed >= t.Window:
		t.elapsed = 0
	case t.elapsed > 0:
		t.elapsed += dt
	}
	return false
}

// Elapsed returns the accumulated time since the last fire
func (t *Throttle) Elapsed() time.Duration {
	return t.elapsed
}

// TickResult reports what happened during one Tick
type TickResult struct {
	Rotated   bool             `json:"rotated"`
	Clockwise bool             `json:"clockwise,omitempty"`
	Check     *PlacementCheck  `json:"check,omitempty"`
	Placement *PlacementRecord `json:"placement,omitempty"`
	Errors    []string         `json:"errors,omitempty"`
	errs      []error
}

// Err returns the errors collected during the tick
func (r TickResult) Err() []error {
	return r.errs
}

func (r *TickResult) addError(err error) {
	r.errs = append(r.errs, err)
	r.Errors = append(r.Errors, err.Error())
}

// Controller turns queued front-end input into engine calls, once per tick.
// Attach points are addressed by handle, an index into a slice that is
// rebuilt after every placement and draw.
type Controller struct {
	engine   Engine
	queue    []InputEvent
	points   []AttachPoint
	hovered  []int
	throttle *Throttle
}

// NewController wraps an engine
func NewController(e Engine) *Controller {
	c := &Controller{
		engine:   e,
		throttle: NewThrottle(RotateThrottleWindow),
	}
	c.Refresh()
	return c
}

// Refresh rebuilds the attach point arena and clears hover state
func (c *Controller) Refresh() {
	c.points = c.engine.AttachPoints()
	c.hovered = c.hovered[:0]
}

// Push queues an event for the next tick
func (c *Controller) Push(events ...InputEvent) {
	c.queue = append(c.queue, events...)
}

// Pending returns the number of queued events
func (c *Controller) Pending() int {
	return len(c.queue)
}

// AttachPoints returns the current arena; the index of each entry is its handle
func (c *Controller) AttachPoints() []AttachPoint {
	return append([]AttachPoint(nil), c.points...)
}

// Hovered returns the handles currently hovered, in entry order
func (c *Controller) Hovered() []int {
	return append([]int(nil), c.hovered...)
}

// Handle returns the attach point for handle h
func (c *Controller) Handle(h int) (AttachPoint, bool) {
	if h < 0 || h >= len(c.points) {
		return AttachPoint{}, false
	}
	return c.points[h], true
}

// Tick drains the queue in emission order. Hover changes apply as they come,
// at most one rotation fires, then the first hovered attach point is evaluated
// and a confirm places the tile there.
func (c *Controller) Tick(dt time.Duration) TickResult {
	var result TickResult
	events := c.queue
	c.queue = nil

	var rotate *bool
	confirm := false
	for _, ev := range events {
		switch ev.Kind {
		case InputRotateCW, InputRotateCCW:
			if rotate == nil {
				cw := ev.Kind == InputRotateCW
				rotate = &cw
			}
		case InputHoverEnter:
			if _, ok := c.Handle(ev.Handle); !ok {
				result.addError(fmt.Errorf("unknown attach point handle %d", ev.Handle))
				continue
			}
			if !c.isHovered(ev.Handle) {
				c.hovered = append(c.hovered, ev.Handle)
			}
		case InputHoverExit:
			c.unhover(ev.Handle)
		case InputConfirm:
			confirm = true
		default:
			result.addError(fmt.Errorf("unknown input kind %q", ev.Kind))
		}
	}

	if _, holding := c.engine.ActiveTile(); !holding {
		c.throttle.Step(false, dt)
		return result
	}

	if c.throttle.Step(rotate != nil, dt) {
		if _, err := c.engine.RotateActive(*rotate); err != nil {
			result.addError(err)
		} else {
			result.Rotated = true
			result.Clockwise = *rotate
		}
	}

	// A confirm needs exactly one hovered attach point, legal or not.
	ambiguous := confirm && len(c.hovered) != 1
	if ambiguous {
		log.Printf("Cannot place tile: %d attach points hovered, need exactly 1", len(c.hovered))
		result.addError(fmt.Errorf("%w: %d hovered", ErrAmbiguousAttachment, len(c.hovered)))
	}

	if len(c.hovered) == 0 {
		return result
	}

	point := c.points[c.hovered[0]]
	check, err := c.engine.EvaluatePlacement(point.Anchor, point.Side)
	if err != nil {
		result.addError(err)
		return result
	}
	result.Check = &check

	if !confirm || ambiguous || !check.Legal {
		return result
	}

	record, err := c.engine.PlaceActive(point.Anchor, point.Side)
	if err != nil {
		result.addError(err)
		return result
	}
	result.Placement = &record
	c.Refresh()
	return result
}

func (c *Controller) isHovered(h int) bool {
	for _, x := range c.hovered {
		if x == h {
			return true
		}
	}
	return false
}

func (c *Controller) unhover(h int) {
	for i, x := range c.hovered {
		if x == h {
			c.hovered = append(c.hovered[:i], c.hovered[i+1:]...)
			return
		}
	}
}
