package shape

// PointerKind distinguishes mouse from touch input.
type PointerKind string

const (
	PointerMouse PointerKind = "mouse"
	PointerTouch PointerKind = "touch"
)

// ButtonSecondary is the mouse button value of a right click.
const ButtonSecondary = 2

// PointerEvent is a single pointer sample delivered by the host. The engine
// records whether it asked the host to suppress the default action or stop
// propagation; the host applies those after the handler returns.
type PointerEvent struct {
	ClientX float64     `json:"clientX"`
	ClientY float64     `json:"clientY"`
	Kind    PointerKind `json:"kind,omitempty"`
	Button  int         `json:"button,omitempty"`
	Touches []Position  `json:"touches,omitempty"`

	defaultPrevented   bool
	propagationStopped bool
}

// Mouse builds a primary-button mouse event at (x, y).
func Mouse(x, y float64) *PointerEvent {
	return &PointerEvent{ClientX: x, ClientY: y, Kind: PointerMouse}
}

// Touch builds a touch event whose first touch point is at (x, y).
func Touch(x, y float64) *PointerEvent {
	return &PointerEvent{Kind: PointerTouch, Touches: []Position{{X: x, Y: y}}}
}

// Client returns the pointer's client coordinates: the event coordinates for
// a mouse, the first touch point for touch input. It reports false for a
// touch event that carries no touch points.
func (e *PointerEvent) Client() (Position, bool) {
	if e == nil {
		return Position{}, false
	}
	if e.Kind == PointerTouch {
		if len(e.Touches) == 0 {
			return Position{}, false
		}
		return e.Touches[0], true
	}
	return Position{X: e.ClientX, Y: e.ClientY}, true
}

// PreventDefault asks the host to suppress the platform's default action.
func (e *PointerEvent) PreventDefault() {
	if e != nil {
		e.defaultPrevented = true
	}
}

// StopPropagation asks the host not to deliver the event to ancestors.
func (e *PointerEvent) StopPropagation() {
	if e != nil {
		e.propagationStopped = true
	}
}

func (e *PointerEvent) DefaultPrevented() bool   { return e != nil && e.defaultPrevented }
func (e *PointerEvent) PropagationStopped() bool { return e != nil && e.propagationStopped }
