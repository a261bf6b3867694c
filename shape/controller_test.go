package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	events []string
	last   Position
	size   Size
	anchor bool
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		DragStart:   func(p Position) { r.events = append(r.events, "dragStart"); r.last = p },
		DragMove:    func(p Position) { r.events = append(r.events, "dragMove"); r.last = p },
		DragEnd:     func(p Position) { r.events = append(r.events, "dragEnd"); r.last = p },
		ResizeStart: func(s Size) { r.events = append(r.events, "resizeStart"); r.size = s },
		ResizeMove:  func(s Size) { r.events = append(r.events, "resizeMove"); r.size = s },
		ResizeEnd:   func(s Size) { r.events = append(r.events, "resizeEnd"); r.size = s },
		Click:       func(p Position) { r.events = append(r.events, "click"); r.last = p },
		AnchorModeToggle: func(on bool) {
			r.events = append(r.events, "anchor")
			r.anchor = on
		},
	}
}

func newTestController(opts Options) (*Controller, *recorder) {
	rec := &recorder{}
	c := NewController(Position{X: 10, Y: 20}, Size{Width: 100, Height: 100}, rec.callbacks(), opts)
	return c, rec
}

func TestControllerDrag(t *testing.T) {
	c, rec := newTestController(Options{})

	assert.True(t, c.PointerDown(Mouse(110, 120)))
	c.PointerMove(Mouse(160, 170))
	c.PointerUp(Mouse(160, 170))

	assert.Equal(t, []string{"dragStart", "dragMove", "dragEnd"}, rec.events)
	assert.Equal(t, Position{X: 60, Y: 70}, c.Position())
	assert.Equal(t, Position{X: 60, Y: 70}, rec.last)
	assert.False(t, c.IsDragging())
}

func TestControllerClickWithoutMovement(t *testing.T) {
	c, rec := newTestController(Options{})

	c.PointerDown(Mouse(50, 50))
	c.PointerMove(Mouse(50, 50))
	c.PointerUp(Mouse(50, 50))

	assert.Equal(t, []string{"dragStart", "dragMove", "dragEnd", "click"}, rec.events)
	assert.Equal(t, Position{X: 10, Y: 20}, rec.last)
}

func TestControllerSecondaryButtonTogglesAnchorMode(t *testing.T) {
	c, rec := newTestController(Options{})

	ev := &PointerEvent{ClientX: 1, ClientY: 1, Kind: PointerMouse, Button: ButtonSecondary}
	assert.False(t, c.PointerDown(ev))
	assert.True(t, ev.DefaultPrevented())
	assert.True(t, c.AnchorMode())
	assert.True(t, rec.anchor)

	c.PointerDown(&PointerEvent{Kind: PointerMouse, Button: ButtonSecondary})
	assert.False(t, c.AnchorMode())
	assert.Equal(t, []string{"anchor", "anchor"}, rec.events)
	assert.False(t, c.IsDragging())
}

func TestControllerDisabled(t *testing.T) {
	c, rec := newTestController(Options{Disabled: true, Resizable: true})

	assert.False(t, c.PointerDown(Mouse(1, 1)))
	assert.False(t, c.HandleDown(Mouse(1, 1), HandleSE))
	c.PointerUp(Mouse(1, 1))

	assert.Empty(t, rec.events)
	assert.Equal(t, "default", c.CSS(Style{})["cursor"])
}

func TestControllerResize(t *testing.T) {
	c, rec := newTestController(Options{Resizable: true, Constraints: &Constraints{MinWidth: 50}})

	ev := Mouse(0, 0)
	assert.True(t, c.HandleDown(ev, HandleNW))
	assert.True(t, ev.PropagationStopped())

	// A press reaching the body while resizing does not start a drag.
	assert.False(t, c.PointerDown(Mouse(0, 0)))

	c.PointerMove(Mouse(80, 0))
	c.PointerUp(Mouse(80, 0))

	assert.Equal(t, []string{"resizeStart", "resizeMove", "resizeEnd"}, rec.events)
	assert.Equal(t, Size{Width: 50, Height: 100}, c.Size())
	assert.Equal(t, Position{X: 60, Y: 20}, c.Position())
}

func TestControllerNotResizable(t *testing.T) {
	c, _ := newTestController(Options{})
	assert.False(t, c.HandleDown(Mouse(0, 0), HandleSE))
}

func TestControllerCleanup(t *testing.T) {
	c, rec := newTestController(Options{})

	c.PointerDown(Mouse(10, 20))
	c.Cleanup()
	c.Cleanup()
	c.PointerUp(Mouse(10, 20))

	assert.Equal(t, []string{"dragStart", "dragEnd"}, rec.events)
	assert.False(t, c.Active())
}

func TestControllerCSS(t *testing.T) {
	c, _ := newTestController(Options{})

	css := c.CSS(Style{BackgroundColor: "#fff"})
	assert.Equal(t, "10px", css["left"])
	assert.Equal(t, "20px", css["top"])
	assert.Equal(t, "100px", css["width"])
	assert.Equal(t, "#fff", css["backgroundColor"])
	assert.Equal(t, "#312e81", css["borderColor"])
	assert.Equal(t, "8px", css["borderRadius"])
	assert.Equal(t, "grab", css["cursor"])

	c.PointerDown(Mouse(0, 0))
	assert.Equal(t, "grabbing", c.CSS(Style{})["cursor"])
}

func TestLoggingHandlerForwards(t *testing.T) {
	rec := &recorder{}
	h := LoggingHandler{Next: rec.callbacks(), Shape: "shape-1"}

	h.OnDragStart(Position{})
	h.OnDragMove(Position{})
	h.OnDragEnd(Position{})
	h.OnClick(Position{})
	h.OnAnchorModeToggle(true)

	assert.Equal(t, []string{"dragStart", "dragMove", "dragEnd", "click", "anchor"}, rec.events)
}
