package engine

import (
	"errors"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

func TestThrottleWindow(t *testing.T) {
	th := NewThrottle(RotateThrottleWindow)

	var fired []int
	for i := 0; i < 40; i++ {
		if th.Step(true, frame) {
			fired = append(fired, i)
		}
	}

	// Fire, fifteen frames to reach 256ms, one frame to reset, fire again
	want := []int{0, 17, 34}
	if len(fired) != len(want) {
		t.Fatalf("fired on frames %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired on frames %v, want %v", fired, want)
			break
		}
	}
}

func TestThrottleIdle(t *testing.T) {
	th := NewThrottle(RotateThrottleWindow)
	for i := 0; i < 5; i++ {
		if th.Step(false, frame) {
			t.Fatal("idle throttle fired")
		}
	}
	if th.Elapsed() != 0 {
		t.Errorf("idle throttle accumulated %s", th.Elapsed())
	}
	if !th.Step(true, frame) {
		t.Error("first request should fire immediately")
	}
}

func handleFor(t *testing.T, c *Controller, anchor TileID, side Direction) int {
	t.Helper()
	for h, p := range c.AttachPoints() {
		if p.Anchor == anchor && p.Side == side {
			return h
		}
	}
	t.Fatalf("no attach point for tile %d side %s", anchor, side)
	return -1
}

func TestControllerRotatesOncePerTick(t *testing.T) {
	e := newTestEngine(t, scenarioConfig(), 1)
	c := NewController(e)
	if _, err := e.DrawTile(); err != nil {
		t.Fatal(err)
	}

	c.Push(InputEvent{Kind: InputRotateCW}, InputEvent{Kind: InputRotateCW}, InputEvent{Kind: InputRotateCCW})
	result := c.Tick(frame)
	if !result.Rotated || !result.Clockwise {
		t.Fatalf("expected one clockwise rotation, got %+v", result)
	}
	tile, _ := e.ActiveTile()
	if tile.Data.OasisLayout.Connections() != NewDirectionSet(South, West) {
		t.Errorf("connections = %s, want S | W", tile.Data.OasisLayout.Connections())
	}

	c.Push(InputEvent{Kind: InputRotateCW})
	if result := c.Tick(frame); result.Rotated {
		t.Error("rotation inside the throttle window should be dropped")
	}
	if c.Pending() != 0 {
		t.Errorf("queue not drained: %d", c.Pending())
	}
}

func TestControllerPlacesOnConfirm(t *testing.T) {
	e := newTestEngine(t, testTilesetConfig(), 1)
	c := NewController(e)
	if _, err := e.DrawTile(); err != nil {
		t.Fatal(err)
	}

	first := handleFor(t, c, 2, East)
	second := handleFor(t, c, 2, West)

	// Emission order matters: the first hover is withdrawn before confirm
	c.Push(
		InputEvent{Kind: InputHoverEnter, Handle: first},
		InputEvent{Kind: InputHoverExit, Handle: first},
		InputEvent{Kind: InputHoverEnter, Handle: second},
		InputEvent{Kind: InputConfirm},
	)
	result := c.Tick(frame)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if result.Check == nil || !result.Check.Legal {
		t.Fatalf("expected legal check, got %+v", result.Check)
	}
	if result.Placement == nil || result.Placement.Position != (Coordinate{X: 4, Y: 6}) {
		t.Fatalf("placement = %+v", result.Placement)
	}
	if len(c.Hovered()) != 0 {
		t.Error("hover state should reset after placement")
	}
	for _, p := range c.AttachPoints() {
		if p.Target == (Coordinate{X: 4, Y: 6}) {
			t.Errorf("arena still has attach point %+v into the placed cell", p)
		}
	}
}

func TestControllerAmbiguousConfirm(t *testing.T) {
	e := newTestEngine(t, testTilesetConfig(), 1)
	c := NewController(e)
	if _, err := e.DrawTile(); err != nil {
		t.Fatal(err)
	}

	c.Push(
		InputEvent{Kind: InputHoverEnter, Handle: handleFor(t, c, 2, East)},
		InputEvent{Kind: InputHoverEnter, Handle: handleFor(t, c, 3, East)},
		InputEvent{Kind: InputConfirm},
	)
	result := c.Tick(frame)
	if result.Placement != nil {
		t.Fatal("ambiguous confirm must not place")
	}
	if !hasError(result.Err(), ErrAmbiguousAttachment) {
		t.Errorf("expected ErrAmbiguousAttachment, got %v", result.Errors)
	}
	if _, ok := e.ActiveTile(); !ok {
		t.Error("tile should still be in hand")
	}
}

func hasError(errs []error, target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func TestControllerConfirmNeedsOneHover(t *testing.T) {
	type side struct {
		anchor TileID
		dir    Direction
	}
	tests := []struct {
		name  string
		hover []side
	}{
		{"nothing hovered", nil},
		// tile 2 East is illegal for the scenario's first draw
		{"first hovered point illegal", []side{{2, East}, {3, East}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, scenarioConfig(), 1)
			c := NewController(e)
			if _, err := e.DrawTile(); err != nil {
				t.Fatal(err)
			}

			for _, h := range tt.hover {
				c.Push(InputEvent{Kind: InputHoverEnter, Handle: handleFor(t, c, h.anchor, h.dir)})
			}
			c.Push(InputEvent{Kind: InputConfirm})

			result := c.Tick(frame)
			if result.Placement != nil {
				t.Fatal("confirm without exactly one hover must not place")
			}
			if !hasError(result.Err(), ErrAmbiguousAttachment) {
				t.Errorf("expected ErrAmbiguousAttachment, got %v", result.Errors)
			}
			if _, ok := e.ActiveTile(); !ok {
				t.Error("tile should still be in hand")
			}
		})
	}
}

func TestControllerIllegalHover(t *testing.T) {
	e := newTestEngine(t, scenarioConfig(), 1)
	c := NewController(e)
	if _, err := e.DrawTile(); err != nil {
		t.Fatal(err)
	}

	c.Push(InputEvent{Kind: InputHoverEnter, Handle: handleFor(t, c, 2, East)}, InputEvent{Kind: InputConfirm})
	result := c.Tick(frame)
	if result.Check == nil || result.Check.Legal {
		t.Fatalf("expected illegal check, got %+v", result.Check)
	}
	if result.Placement != nil {
		t.Error("illegal placement confirmed")
	}
}

func TestControllerUnknownHandle(t *testing.T) {
	e := newTestEngine(t, testTilesetConfig(), 1)
	c := NewController(e)

	c.Push(InputEvent{Kind: InputHoverEnter, Handle: 999}, InputEvent{Kind: "jump"})
	result := c.Tick(frame)
	if len(result.Errors) != 2 {
		t.Errorf("errors = %v", result.Errors)
	}
	if len(c.Hovered()) != 0 {
		t.Error("unknown handle should not be hovered")
	}
}
