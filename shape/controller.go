package shape

// Options configure a Controller.
type Options struct {
	Disabled    bool
	Resizable   bool
	Constraints *Constraints
}

// Controller drives one shape through pointer gestures. A press on the body
// drags, a press on a handle resizes, a secondary-button press toggles anchor
// mode, and a press released without movement is a click.
type Controller struct {
	positions *PositionManager
	sizes     *SizeManager
	drag      *DragBehavior
	resize    *ResizeBehavior
	events    EventHandler
	opts      Options

	dragState   DragState
	resizeState ResizeState
	start       Position
	moved       bool
	anchorMode  bool
}

// NewController returns a controller for a shape at position with size.
// A nil events handler discards all gesture outputs.
func NewController(position Position, size Size, events EventHandler, opts Options) *Controller {
	if events == nil {
		events = Callbacks{}
	}
	return &Controller{
		positions: NewPositionManager(position),
		sizes:     NewSizeManager(size),
		drag:      NewDragBehavior(),
		resize:    NewResizeBehavior(),
		events:    events,
		opts:      opts,
	}
}

// PointerDown handles a press on the shape body and reports whether a drag
// started.
func (c *Controller) PointerDown(ev *PointerEvent) bool {
	if ev.Kind != PointerTouch && ev.Button == ButtonSecondary {
		ev.PreventDefault()
		c.anchorMode = !c.anchorMode
		c.events.OnAnchorModeToggle(c.anchorMode)
		return false
	}
	if c.opts.Disabled || c.Active() {
		return false
	}

	current := c.positions.Position()
	c.dragState = c.drag.StartDrag(ev, current)
	if !c.dragState.IsDragging {
		return false
	}
	c.start = current
	c.moved = false
	c.events.OnDragStart(current)
	return true
}

// HandleDown handles a press on a resize handle and reports whether a resize
// started.
func (c *Controller) HandleDown(ev *PointerEvent, handle ResizeHandle) bool {
	if c.opts.Disabled || !c.opts.Resizable || c.Active() {
		return false
	}

	size := c.sizes.Size()
	c.resizeState = c.resize.StartResize(ev, handle, size, c.positions.Position())
	if !c.resizeState.IsResizing {
		return false
	}
	c.moved = false
	c.events.OnResizeStart(size)
	return true
}

// PointerMove feeds ev into the active gesture, if any.
func (c *Controller) PointerMove(ev *PointerEvent) {
	switch {
	case c.resize.IsResizing():
		res := c.resize.HandleResize(ev, c.resizeState, c.opts.Constraints)
		if res.Size != c.sizes.Size() || res.Position != c.positions.Position() {
			c.moved = true
		}
		c.positions.SetPosition(res.Position)
		c.sizes.SetSize(res.Size)
		c.events.OnResizeMove(res.Size)

	case c.drag.IsDragging():
		p, ok := c.drag.HandleDrag(ev, c.dragState)
		if !ok {
			return
		}
		if p != c.start {
			c.moved = true
		}
		c.positions.SetPosition(p)
		c.events.OnDragMove(p)
	}
}

// PointerUp ends the active gesture. A drag that never moved the shape is
// reported as a click.
func (c *Controller) PointerUp(ev *PointerEvent) {
	switch {
	case c.resize.IsResizing():
		c.endResize()
	case c.drag.IsDragging():
		final := c.endDrag()
		if !c.moved && !c.opts.Disabled {
			c.events.OnClick(final)
		}
	}
}

// Cleanup ends any active gesture without producing a click. It is safe to
// call repeatedly.
func (c *Controller) Cleanup() {
	if c.resize.IsResizing() {
		c.endResize()
	}
	if c.drag.IsDragging() {
		c.endDrag()
	}
	c.drag.Cleanup()
	c.resize.Cleanup()
}

func (c *Controller) endDrag() Position {
	final := c.positions.Position()
	c.drag.StopDrag()
	c.dragState = DragState{}
	c.events.OnDragEnd(final)
	return final
}

func (c *Controller) endResize() {
	final := c.sizes.Size()
	c.resize.StopResize()
	c.resizeState = ResizeState{}
	c.events.OnResizeEnd(final)
}

// Active reports whether a drag or resize gesture is in progress.
func (c *Controller) Active() bool {
	return c.drag.IsDragging() || c.resize.IsResizing()
}

func (c *Controller) IsDragging() bool   { return c.drag.IsDragging() }
func (c *Controller) IsResizing() bool   { return c.resize.IsResizing() }
func (c *Controller) AnchorMode() bool   { return c.anchorMode }
func (c *Controller) Position() Position { return c.positions.Position() }
func (c *Controller) Size() Size         { return c.sizes.Size() }

func (c *Controller) SetPosition(p Position) { c.positions.SetPosition(p) }
func (c *Controller) SetSize(s Size)         { c.sizes.SetSize(s) }

// SetConstraints replaces the bounds used by later resize gestures.
func (c *Controller) SetConstraints(constraints *Constraints) {
	c.opts.Constraints = constraints
}

// CSS renders the shape's positioning style with the given colors.
func (c *Controller) CSS(style Style) map[string]string {
	size := c.sizes.Size()
	style.Width, style.Height = size.Width, size.Height
	return CSS(style, c.positions.Position(), c.drag.IsDragging(), c.opts.Disabled)
}
