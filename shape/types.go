// Package shape contains the pointer-driven manipulation engine for a single
// diagram shape: position and size holders, the drag and resize state
// machines, and the gesture controller that ties them to host callbacks.
package shape

import "strings"

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the component-wise difference p - o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Size is the width and height of a shape.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is an axis-aligned rectangle used for containment checks.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// DragState is captured when a drag gesture begins. Offset is the pointer
// position minus the shape position at gesture start and does not change
// for the lifetime of the gesture.
type DragState struct {
	IsDragging bool     `json:"isDragging"`
	Offset     Position `json:"offset"`
}

// ResizeHandle names one of the eight grips on a shape's bounding box.
type ResizeHandle string

const (
	HandleNone ResizeHandle = ""
	HandleN    ResizeHandle = "n"
	HandleS    ResizeHandle = "s"
	HandleE    ResizeHandle = "e"
	HandleW    ResizeHandle = "w"
	HandleNE   ResizeHandle = "ne"
	HandleNW   ResizeHandle = "nw"
	HandleSE   ResizeHandle = "se"
	HandleSW   ResizeHandle = "sw"
)

// Handles lists every resize handle.
var Handles = []ResizeHandle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}

// Valid reports whether h is one of the eight compass handles.
func (h ResizeHandle) Valid() bool {
	for _, v := range Handles {
		if h == v {
			return true
		}
	}
	return false
}

// West reports whether the handle moves the left edge.
func (h ResizeHandle) West() bool { return strings.Contains(string(h), "w") }

// North reports whether the handle moves the top edge.
func (h ResizeHandle) North() bool { return strings.Contains(string(h), "n") }

// ResizeState is captured once when a resize gesture begins. Every delta in
// the gesture is computed against the three start values.
type ResizeState struct {
	IsResizing         bool         `json:"isResizing"`
	Handle             ResizeHandle `json:"handle"`
	StartSize          Size         `json:"startSize"`
	StartPosition      Position     `json:"startPosition"`
	StartMousePosition Position     `json:"startMousePosition"`
}

// ResizeResult is the size and position produced by one resize move.
type ResizeResult struct {
	Size     Size     `json:"size"`
	Position Position `json:"position"`
}

// Constraints bound the size a resize may produce. Zero fields fall back to
// DefaultConstraints.
type Constraints struct {
	MinWidth  float64 `json:"minWidth,omitempty"`
	MinHeight float64 `json:"minHeight,omitempty"`
	MaxWidth  float64 `json:"maxWidth,omitempty"`
	MaxHeight float64 `json:"maxHeight,omitempty"`
}

// DefaultConstraints apply when no override is supplied.
var DefaultConstraints = Constraints{MinWidth: 50, MinHeight: 30, MaxWidth: 500, MaxHeight: 300}

// withDefaults fills zero fields from DefaultConstraints.
func (c *Constraints) withDefaults() Constraints {
	out := DefaultConstraints
	if c == nil {
		return out
	}
	if c.MinWidth != 0 {
		out.MinWidth = c.MinWidth
	}
	if c.MinHeight != 0 {
		out.MinHeight = c.MinHeight
	}
	if c.MaxWidth != 0 {
		out.MaxWidth = c.MaxWidth
	}
	if c.MaxHeight != 0 {
		out.MaxHeight = c.MaxHeight
	}
	return out
}
