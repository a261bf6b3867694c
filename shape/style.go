package shape

import "fmt"

const (
	defaultBackground   = "#4f46e5"
	defaultBorder       = "#312e81"
	defaultBorderRadius = 8
)

// Style is the presentational state stored with a shape record.
type Style struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	BackgroundColor string  `json:"backgroundColor"`
	BorderColor     string  `json:"borderColor"`
	BorderRadius    float64 `json:"borderRadius"`
}

// Size returns the style's dimensions.
func (s Style) Size() Size {
	return Size{Width: s.Width, Height: s.Height}
}

// NewStyle fills unset fields with the defaults used by rendered shapes.
func NewStyle(s Style) Style {
	if s.Width == 0 {
		s.Width = DefaultSize.Width
	}
	if s.Height == 0 {
		s.Height = DefaultSize.Height
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = defaultBackground
	}
	if s.BorderColor == "" {
		s.BorderColor = defaultBorder
	}
	if s.BorderRadius == 0 {
		s.BorderRadius = defaultBorderRadius
	}
	return s
}

// Cursor returns the CSS cursor for the shape's current interaction state.
func Cursor(dragging, disabled bool) string {
	if disabled {
		return "default"
	}
	if dragging {
		return "grabbing"
	}
	return "grab"
}

// CSS renders the absolute-positioning style map for a shape at p.
func CSS(s Style, p Position, dragging, disabled bool) map[string]string {
	s = NewStyle(s)
	return map[string]string{
		"left":            px(p.X),
		"top":             px(p.Y),
		"width":           px(s.Width),
		"height":          px(s.Height),
		"backgroundColor": s.BackgroundColor,
		"borderColor":     s.BorderColor,
		"borderRadius":    px(s.BorderRadius),
		"cursor":          Cursor(dragging, disabled),
	}
}

func px(v float64) string {
	return fmt.Sprintf("%gpx", v)
}
