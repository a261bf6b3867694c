package shape

import "log/slog"

// EventHandler receives the gesture outputs of a Controller.
type EventHandler interface {
	OnDragStart(p Position)
	OnDragMove(p Position)
	OnDragEnd(p Position)
	OnResizeStart(s Size)
	OnResizeMove(s Size)
	OnResizeEnd(s Size)
	OnClick(p Position)
	OnAnchorModeToggle(enabled bool)
}

// Callbacks adapts plain functions to EventHandler. Nil fields are skipped.
type Callbacks struct {
	DragStart        func(Position)
	DragMove         func(Position)
	DragEnd          func(Position)
	ResizeStart      func(Size)
	ResizeMove       func(Size)
	ResizeEnd        func(Size)
	Click            func(Position)
	AnchorModeToggle func(bool)
}

func (c Callbacks) OnDragStart(p Position) {
	if c.DragStart != nil {
		c.DragStart(p)
	}
}

func (c Callbacks) OnDragMove(p Position) {
	if c.DragMove != nil {
		c.DragMove(p)
	}
}

func (c Callbacks) OnDragEnd(p Position) {
	if c.DragEnd != nil {
		c.DragEnd(p)
	}
}

func (c Callbacks) OnResizeStart(s Size) {
	if c.ResizeStart != nil {
		c.ResizeStart(s)
	}
}

func (c Callbacks) OnResizeMove(s Size) {
	if c.ResizeMove != nil {
		c.ResizeMove(s)
	}
}

func (c Callbacks) OnResizeEnd(s Size) {
	if c.ResizeEnd != nil {
		c.ResizeEnd(s)
	}
}

func (c Callbacks) OnClick(p Position) {
	if c.Click != nil {
		c.Click(p)
	}
}

func (c Callbacks) OnAnchorModeToggle(enabled bool) {
	if c.AnchorModeToggle != nil {
		c.AnchorModeToggle(enabled)
	}
}

// LoggingHandler forwards to Next and logs gesture boundaries at debug level.
// Move events are not logged.
type LoggingHandler struct {
	Next   EventHandler
	Logger *slog.Logger
	Shape  string
}

func (h LoggingHandler) log(event string, args ...any) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("shape "+event, append([]any{"shape", h.Shape}, args...)...)
}

func (h LoggingHandler) OnDragStart(p Position) {
	h.Next.OnDragStart(p)
	h.log("drag start", "x", p.X, "y", p.Y)
}

func (h LoggingHandler) OnDragMove(p Position) { h.Next.OnDragMove(p) }

func (h LoggingHandler) OnDragEnd(p Position) {
	h.Next.OnDragEnd(p)
	h.log("drag end", "x", p.X, "y", p.Y)
}

func (h LoggingHandler) OnResizeStart(s Size) {
	h.Next.OnResizeStart(s)
	h.log("resize start", "width", s.Width, "height", s.Height)
}

func (h LoggingHandler) OnResizeMove(s Size) { h.Next.OnResizeMove(s) }

func (h LoggingHandler) OnResizeEnd(s Size) {
	h.Next.OnResizeEnd(s)
	h.log("resize end", "width", s.Width, "height", s.Height)
}

func (h LoggingHandler) OnClick(p Position) {
	h.Next.OnClick(p)
	h.log("click", "x", p.X, "y", p.Y)
}

func (h LoggingHandler) OnAnchorModeToggle(enabled bool) {
	h.Next.OnAnchorModeToggle(enabled)
	h.log("anchor mode", "enabled", enabled)
}
