package shape

// DefaultSize is used when a SizeManager is created without a size.
var DefaultSize = Size{Width: 120, Height: 80}

// SizeManager owns a single shape's width and height.
type SizeManager struct {
	size Size
}

func NewSizeManager(initial Size) *SizeManager {
	return &SizeManager{size: initial}
}

func (m *SizeManager) Size() Size {
	return m.size
}

func (m *SizeManager) SetSize(s Size) {
	m.size = s
}

// UpdateSize writes width and height in place.
func (m *SizeManager) UpdateSize(s Size) {
	m.size.Width = s.Width
	m.size.Height = s.Height
}

// Scale multiplies both dimensions by factor.
func (m *SizeManager) Scale(factor float64) {
	m.size.Width *= factor
	m.size.Height *= factor
}

// AspectRatio is width over height. A zero height yields ±Inf or NaN.
func (m *SizeManager) AspectRatio() float64 {
	return m.size.Width / m.size.Height
}

func (m *SizeManager) Area() float64 {
	return m.size.Width * m.size.Height
}

// IsWithinBounds reports whether both dimensions lie in [minSize, maxSize].
func (m *SizeManager) IsWithinBounds(minSize, maxSize Size) bool {
	s := m.size
	return s.Width >= minSize.Width && s.Height >= minSize.Height &&
		s.Width <= maxSize.Width && s.Height <= maxSize.Height
}
