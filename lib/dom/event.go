package dom

// Event types used across the shell.
const (
	EventClick       = "click"
	EventPopState    = "popstate"
	EventStateChange = "state-change"
	EventNavigate    = "navigate"
)

// Event is a dispatched event. Detail carries the payload, mirroring
// CustomEvent.detail.
type Event struct {
	Type    string
	Bubbles bool
	Detail  any

	target           EventTarget
	currentTarget    EventTarget
	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event.
func NewEvent(typ string, detail any, bubbles bool) *Event {
	return &Event{Type: typ, Detail: detail, Bubbles: bubbles}
}

// Target returns the target the event was dispatched on.
func (e *Event) Target() EventTarget { return e.target }

// CurrentTarget returns the target whose listeners are running.
func (e *Event) CurrentTarget() EventTarget { return e.currentTarget }

// SetTarget is used by implementations when dispatch starts. It only sets
// the target once.
func (e *Event) SetTarget(t EventTarget) {
	if e.target == nil {
		e.target = t
	}
}

// SetCurrentTarget is used by implementations while walking the
// propagation path.
func (e *Event) SetCurrentTarget(t EventTarget) { e.currentTarget = t }

// PreventDefault cancels the host's default action.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops delivery to further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }

// MouseDetail is the Detail of click events.
type MouseDetail struct {
	Button   int
	CtrlKey  bool
	MetaKey  bool
	ShiftKey bool
	AltKey   bool
}

// Modified reports whether any modifier key was held.
func (d MouseDetail) Modified() bool {
	return d.CtrlKey || d.MetaKey || d.ShiftKey || d.AltKey
}
