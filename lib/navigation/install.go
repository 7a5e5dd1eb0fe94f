package navigation

import (
	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/loop"
)

// Install returns the window's native navigation if it has one, and
// otherwise attaches a Polyfill. Call it once per window; a second
// polyfill would deliver every intent twice.
func Install(win dom.Window, q loop.Queue, opts ...Option) Navigation {
	if nn, ok := win.(NativeNavigator); ok {
		if nav, ok := nn.Navigation(); ok {
			return nav
		}
	}
	return NewPolyfill(win, q, opts...)
}
