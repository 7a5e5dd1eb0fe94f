// Package navigation delivers in-page navigation intents.
//
// A Navigation announces every same-origin navigation before it happens.
// Listeners inspect the destination and may claim it with Intercept; a
// claimed navigation updates history without a page load and runs the
// claimant's handler instead. Browsers with the Navigation API provide a
// native implementation; everywhere else Install falls back to Polyfill,
// which synthesizes intents from link clicks and history traversal.
package navigation

import (
	"context"
	"net/url"
)

// Type is the kind of navigation.
type Type int

const (
	Push Type = iota
	Replace
	Reload
	Traverse
)

func (t Type) String() string {
	switch t {
	case Push:
		return "push"
	case Replace:
		return "replace"
	case Reload:
		return "reload"
	case Traverse:
		return "traverse"
	}
	return "unknown"
}

// Handler performs a claimed navigation. It runs off the UI loop.
type Handler func(ctx context.Context) error

// InterceptOptions configures a claim.
type InterceptOptions struct {
	// Handler runs in place of the page load. It may be nil.
	Handler Handler
}

// NavigateEvent is a one-shot navigation intent.
type NavigateEvent struct {
	Destination    *url.URL
	NavigationType Type

	claimed bool
	handler Handler
}

// NewNavigateEvent creates an intent for dest.
func NewNavigateEvent(dest *url.URL, typ Type) *NavigateEvent {
	return &NavigateEvent{Destination: dest, NavigationType: typ}
}

// Intercept claims the navigation. The last claim wins; nil options claim
// without a handler.
func (e *NavigateEvent) Intercept(opts *InterceptOptions) {
	e.claimed = true
	e.handler = nil
	if opts != nil {
		e.handler = opts.Handler
	}
}

// Claimed reports whether any listener called Intercept.
func (e *NavigateEvent) Claimed() bool { return e.claimed }

// Handler returns the winning claim's handler, or nil.
func (e *NavigateEvent) Handler() Handler { return e.handler }

// Listener observes navigation intents.
type Listener func(*NavigateEvent)

// Navigation is the navigation capability of a window.
type Navigation interface {
	// OnNavigate registers fn for every intent. The returned function
	// removes it.
	OnNavigate(fn Listener) (remove func())

	// Navigate starts a push navigation to u. It reports whether a
	// listener intercepted it; otherwise the page loads normally.
	Navigate(u *url.URL) bool
}

// NativeNavigator is implemented by windows that may provide the
// navigation capability themselves.
type NativeNavigator interface {
	Navigation() (Navigation, bool)
}

// SameOrigin reports whether a and b share scheme and host.
func SameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}
