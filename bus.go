package pwashell

import "github.com/pthm/pwashell/lib/dom"

// Bus carries messages between components. Messages are events
// dispatched on the window under their category name and are delivered
// synchronously, in subscription order.
type Bus struct {
	target dom.EventTarget
}

// NewBus creates a bus dispatching on target.
func NewBus(target dom.EventTarget) *Bus {
	return &Bus{target: target}
}

// Dispatch delivers payload to every subscriber of category.
func (b *Bus) Dispatch(category string, payload any) {
	b.target.DispatchEvent(dom.NewEvent(category, payload, false))
}

// Subscribe calls fn with the payload of every message in category.
func (b *Bus) Subscribe(category string, fn func(payload any)) (unsubscribe func()) {
	return b.target.AddEventListener(category, func(e *dom.Event) { fn(e.Detail) })
}

// Publish is Dispatch with a typed payload.
func Publish[T any](b *Bus, category string, payload T) {
	b.Dispatch(category, payload)
}

// Subscribe calls fn for messages in category whose payload is a T.
// Other payloads are ignored.
func Subscribe[T any](b *Bus, category string, fn func(T)) (unsubscribe func()) {
	return b.Subscribe(category, func(payload any) {
		if v, ok := payload.(T); ok {
			fn(v)
		}
	})
}
