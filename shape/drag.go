package shape

// DragBehavior converts pointer events into shape positions. The shape tracks
// the pointer rigidly at the offset captured when the gesture started.
type DragBehavior struct {
	state DragState
}

func NewDragBehavior() *DragBehavior {
	return &DragBehavior{}
}

// StartDrag begins a gesture at the event's client coordinates and returns a
// snapshot of the new state. A touch event without touch points leaves the
// behavior idle and returns a non-dragging state.
func (d *DragBehavior) StartDrag(ev *PointerEvent, current Position) DragState {
	ev.PreventDefault()

	client, ok := ev.Client()
	if !ok {
		return d.state
	}

	d.state = DragState{
		IsDragging: true,
		Offset:     client.Sub(current),
	}
	return d.state
}

// HandleDrag returns the position the shape should take for ev. It reports
// false when state is not an active gesture or the event has no coordinates.
// It does not modify the behavior.
func (d *DragBehavior) HandleDrag(ev *PointerEvent, state DragState) (Position, bool) {
	if !state.IsDragging {
		return Position{}, false
	}

	client, ok := ev.Client()
	if !ok {
		return Position{}, false
	}
	ev.PreventDefault()

	return client.Sub(state.Offset), true
}

// StopDrag ends the gesture. Calling it while idle is a no-op.
func (d *DragBehavior) StopDrag() {
	d.state.IsDragging = false
}

func (d *DragBehavior) Cleanup() {
	d.StopDrag()
}

func (d *DragBehavior) IsDragging() bool {
	return d.state.IsDragging
}

// State returns a copy of the current drag state.
func (d *DragBehavior) State() DragState {
	return d.state
}
