//go:build js && wasm

package jsdom

import (
	"log/slog"
	"net/url"
	"syscall/js"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/navigation"
)

// Window wraps the global browsing context.
type Window struct {
	*target
	doc    *Document
	logger *slog.Logger
	nav    *Navigation
}

var (
	_ dom.Window                 = (*Window)(nil)
	_ navigation.NativeNavigator = (*Window)(nil)
)

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithLogger sets the logger of the native navigation adapter.
func WithLogger(l *slog.Logger) WindowOption {
	return func(w *Window) { w.logger = l }
}

// NewWindow wraps the page's window. Create one per page.
func NewWindow(opts ...WindowOption) *Window {
	r := newRealm()
	g := js.Global()
	w := &Window{target: newTarget(r, g), logger: slog.Default()}
	w.self = w
	w.doc = &Document{target: newTarget(r, g.Get("document")), r: r}
	w.doc.self = w.doc
	r.win, r.doc = w, w.doc
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Window) Document() dom.Document { return w.doc }

// Location returns the parsed location.href.
func (w *Window) Location() *url.URL {
	u, err := url.Parse(w.v.Get("location").Get("href").String())
	if err != nil {
		w.logger.Error("unparseable location", "error", err)
		return &url.URL{}
	}
	return u
}

func (w *Window) History() dom.History { return &History{v: w.v.Get("history")} }

func (w *Window) LocalStorage() dom.Storage { return &Storage{v: w.v.Get("localStorage")} }

func (w *Window) MatchMedia(query string) bool {
	return w.v.Call("matchMedia", query).Get("matches").Bool()
}

// StartViewTransition implements dom.Window with
// document.startViewTransition.
func (w *Window) StartViewTransition(update func()) bool {
	doc := w.doc.v
	if doc.Get("startViewTransition").Type() != js.TypeFunction {
		return false
	}
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		update()
		return nil
	})
	doc.Call("startViewTransition", cb)
	return true
}

func (w *Window) Assign(u *url.URL) {
	w.v.Get("location").Call("assign", u.String())
}

// Navigation returns an adapter for window.navigation when the browser
// has the Navigation API.
func (w *Window) Navigation() (navigation.Navigation, bool) {
	if w.nav != nil {
		return w.nav, true
	}
	v := w.v.Get("navigation")
	if !v.Truthy() {
		return nil, false
	}
	w.nav = newNavigation(v, w.logger)
	return w.nav, true
}

// History wraps window.history.
type History struct{ v js.Value }

func (h *History) PushState(u *url.URL)    { h.v.Call("pushState", nil, "", u.String()) }
func (h *History) ReplaceState(u *url.URL) { h.v.Call("replaceState", nil, "", u.String()) }
func (h *History) Back()                   { h.v.Call("back") }
func (h *History) Forward()                { h.v.Call("forward") }
func (h *History) Length() int             { return h.v.Get("length").Int() }

// Storage wraps a Web Storage object.
type Storage struct{ v js.Value }

func (s *Storage) GetItem(key string) (string, bool) {
	v := s.v.Call("getItem", key)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (s *Storage) SetItem(key, value string) { s.v.Call("setItem", key, value) }
func (s *Storage) RemoveItem(key string)     { s.v.Call("removeItem", key) }
