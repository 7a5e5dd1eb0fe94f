//go:build js && wasm

package jsdom

import (
	"context"
	"log/slog"
	"net/url"
	"syscall/js"

	"github.com/pthm/pwashell/lib/navigation"
)

// Navigation adapts the browser's Navigation API. Intents the browser
// cannot intercept, hash changes and downloads never reach listeners.
type Navigation struct {
	v         js.Value
	logger    *slog.Logger
	listeners []*navEntry
	bridge    js.Func
	bridged   bool
	claimed   bool
}

var _ navigation.Navigation = (*Navigation)(nil)

type navEntry struct{ fn navigation.Listener }

func newNavigation(v js.Value, logger *slog.Logger) *Navigation {
	return &Navigation{v: v, logger: logger}
}

// OnNavigate implements navigation.Navigation.
func (n *Navigation) OnNavigate(fn navigation.Listener) func() {
	e := &navEntry{fn: fn}
	n.listeners = append(n.listeners, e)
	if !n.bridged {
		n.bridge = js.FuncOf(func(this js.Value, args []js.Value) any {
			n.onNavigate(args[0])
			return nil
		})
		n.v.Call("addEventListener", "navigate", n.bridge)
		n.bridged = true
	}
	return func() {
		for i, x := range n.listeners {
			if x == e {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// Navigate implements navigation.Navigation. The navigate event fires
// synchronously, so the claim is known when navigate returns.
func (n *Navigation) Navigate(u *url.URL) bool {
	n.claimed = false
	n.v.Call("navigate", u.String())
	return n.claimed
}

func (n *Navigation) onNavigate(evt js.Value) {
	if !evt.Get("canIntercept").Bool() || evt.Get("hashChange").Bool() || evt.Get("downloadRequest").Truthy() {
		return
	}
	dest, err := url.Parse(evt.Get("destination").Get("url").String())
	if err != nil {
		n.logger.Warn("unparseable navigation destination", "error", err)
		return
	}

	intent := navigation.NewNavigateEvent(dest, navigationType(evt.Get("navigationType").String()))
	for _, e := range append([]*navEntry(nil), n.listeners...) {
		e.fn(intent)
	}
	if !intent.Claimed() {
		return
	}
	n.claimed = true

	opts := map[string]any{}
	if h := intent.Handler(); h != nil {
		var handler js.Func
		handler = js.FuncOf(func(js.Value, []js.Value) any {
			handler.Release()
			return n.promise(intent, h)
		})
		opts["handler"] = handler
	}
	evt.Call("intercept", opts)
}

// promise runs h on a goroutine and settles a promise with its outcome.
func (n *Navigation) promise(intent *navigation.NavigateEvent, h navigation.Handler) js.Value {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) any {
		executor.Release()
		resolve, reject := args[0], args[1]
		go func() {
			if err := h(context.Background()); err != nil {
				n.logger.Error("navigation handler failed",
					"url", intent.Destination.String(),
					"type", intent.NavigationType.String(),
					"error", err)
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke()
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}

func navigationType(s string) navigation.Type {
	switch s {
	case "replace":
		return navigation.Replace
	case "reload":
		return navigation.Reload
	case "traverse":
		return navigation.Traverse
	}
	return navigation.Push
}
