package shape

import "math"

// ResizeBehavior converts pointer events and a selected handle into a new
// size and position, clamped to Constraints.
type ResizeBehavior struct {
	state ResizeState
}

func NewResizeBehavior() *ResizeBehavior {
	return &ResizeBehavior{}
}

// StartResize captures the start size, position and pointer. The event's
// propagation is stopped so the shape underneath does not also start a drag.
func (r *ResizeBehavior) StartResize(ev *PointerEvent, handle ResizeHandle, current Size, position Position) ResizeState {
	ev.PreventDefault()
	ev.StopPropagation()

	client, ok := ev.Client()
	if !ok || !handle.Valid() {
		return r.state
	}

	r.state = ResizeState{
		IsResizing:         true,
		Handle:             handle,
		StartSize:          current,
		StartPosition:      position,
		StartMousePosition: client,
	}
	return r.state
}

// HandleResize computes the size and position for ev relative to the values
// captured in state. A state that is not resizing yields its start values.
func (r *ResizeBehavior) HandleResize(ev *PointerEvent, state ResizeState, constraints *Constraints) ResizeResult {
	unchanged := ResizeResult{Size: state.StartSize, Position: state.StartPosition}
	if !state.IsResizing || state.Handle == HandleNone {
		return unchanged
	}

	client, ok := ev.Client()
	if !ok {
		return unchanged
	}
	ev.PreventDefault()

	d := client.Sub(state.StartMousePosition)
	start, origin := state.StartSize, state.StartPosition

	width, height := start.Width, start.Height
	x, y := origin.X, origin.Y

	switch state.Handle {
	case HandleSE:
		width = start.Width + d.X
		height = start.Height + d.Y
	case HandleSW:
		width = start.Width - d.X
		height = start.Height + d.Y
		x = origin.X + d.X
	case HandleNE:
		width = start.Width + d.X
		height = start.Height - d.Y
		y = origin.Y + d.Y
	case HandleNW:
		width = start.Width - d.X
		height = start.Height - d.Y
		x = origin.X + d.X
		y = origin.Y + d.Y
	case HandleN:
		height = start.Height - d.Y
		y = origin.Y + d.Y
	case HandleS:
		height = start.Height + d.Y
	case HandleE:
		width = start.Width + d.X
	case HandleW:
		width = start.Width - d.X
		x = origin.X + d.X
	}

	c := constraints.withDefaults()
	width = clamp(width, c.MinWidth, c.MaxWidth)
	height = clamp(height, c.MinHeight, c.MaxHeight)

	// At the minimum, keep the opposite edge where it started.
	if state.Handle.West() && width == c.MinWidth {
		x = origin.X + (start.Width - c.MinWidth)
	}
	if state.Handle.North() && height == c.MinHeight {
		y = origin.Y + (start.Height - c.MinHeight)
	}

	return ResizeResult{
		Size:     Size{Width: width, Height: height},
		Position: Position{X: x, Y: y},
	}
}

// StopResize ends the gesture. Calling it while idle is a no-op.
func (r *ResizeBehavior) StopResize() {
	r.state.IsResizing = false
	r.state.Handle = HandleNone
}

func (r *ResizeBehavior) Cleanup() {
	r.StopResize()
}

func (r *ResizeBehavior) IsResizing() bool {
	return r.state.IsResizing
}

// State returns a copy of the current resize state.
func (r *ResizeBehavior) State() ResizeState {
	return r.state
}

// clamp favours lo when the bounds are inverted.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
