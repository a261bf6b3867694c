package shape

import "math"

// PositionManager owns a single shape's position. Reads and writes copy, so
// callers never hold a reference into the manager's state.
type PositionManager struct {
	position Position
}

func NewPositionManager(initial Position) *PositionManager {
	return &PositionManager{position: initial}
}

func (m *PositionManager) Position() Position {
	return m.position
}

func (m *PositionManager) SetPosition(p Position) {
	m.position = p
}

// UpdatePosition writes x and y in place.
func (m *PositionManager) UpdatePosition(p Position) {
	m.position.X = p.X
	m.position.Y = p.Y
}

func (m *PositionManager) Translate(dx, dy float64) {
	m.position.X += dx
	m.position.Y += dy
}

// DistanceTo returns the Euclidean distance to other.
func (m *PositionManager) DistanceTo(other Position) float64 {
	return math.Hypot(m.position.X-other.X, m.position.Y-other.Y)
}

// IsWithinBounds reports whether the position lies inside b, edges included.
func (m *PositionManager) IsWithinBounds(b Bounds) bool {
	p := m.position
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY
}
