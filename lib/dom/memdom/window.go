package memdom

import (
	"fmt"
	"net/url"

	"github.com/pthm/pwashell/lib/dom"
)

// Window is an in-memory browsing context. Full page navigations are
// recorded rather than performed, so tests can assert on them.
type Window struct {
	doc             *Document
	loc             *url.URL
	history         *History
	storage         *Storage
	media           map[string]bool
	listeners       listenerSet
	viewTransitions bool
	transitions     int
	loads           []string
}

var _ dom.Window = (*Window)(nil)

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithViewTransitions enables StartViewTransition support.
func WithViewTransitions() WindowOption {
	return func(w *Window) { w.viewTransitions = true }
}

// WithMedia sets the result of a media query.
func WithMedia(query string, matches bool) WindowOption {
	return func(w *Window) { w.media[query] = matches }
}

// NewWindow creates a window showing doc at rawURL.
func NewWindow(rawURL string, doc *Document, opts ...WindowOption) (*Window, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("memdom: parse window url: %w", err)
	}
	w := &Window{
		doc:       doc,
		loc:       u,
		storage:   NewStorage(),
		media:     make(map[string]bool),
		listeners: make(listenerSet),
	}
	w.history = &History{w: w, entries: []*url.URL{clone(u)}}
	doc.window = w
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// MustWindow parses markup and creates a window at rawURL. It panics on
// error and is meant for tests and examples.
func MustWindow(rawURL, markup string, opts ...WindowOption) *Window {
	doc, err := ParseDocument(markup)
	if err != nil {
		panic(err)
	}
	w, err := NewWindow(rawURL, doc, opts...)
	if err != nil {
		panic(err)
	}
	return w
}

// AddEventListener implements dom.EventTarget.
func (w *Window) AddEventListener(typ string, fn dom.Listener) func() {
	return w.listeners.add(typ, fn)
}

// DispatchEvent implements dom.EventTarget.
func (w *Window) DispatchEvent(e *dom.Event) bool {
	e.SetTarget(w)
	e.SetCurrentTarget(w)
	w.listeners.fire(e)
	return !e.DefaultPrevented()
}

// Document implements dom.Window.
func (w *Window) Document() dom.Document { return w.doc }

// Doc returns the concrete document.
func (w *Window) Doc() *Document { return w.doc }

// Location implements dom.Window.
func (w *Window) Location() *url.URL { return clone(w.loc) }

// History implements dom.Window.
func (w *Window) History() dom.History { return w.history }

// LocalStorage implements dom.Window.
func (w *Window) LocalStorage() dom.Storage { return w.storage }

// MatchMedia implements dom.Window.
func (w *Window) MatchMedia(query string) bool { return w.media[query] }

// SetMedia changes the result of a media query.
func (w *Window) SetMedia(query string, matches bool) { w.media[query] = matches }

// StartViewTransition implements dom.Window.
func (w *Window) StartViewTransition(update func()) bool {
	if !w.viewTransitions {
		return false
	}
	w.transitions++
	update()
	return true
}

// Transitions returns how many view transitions ran.
func (w *Window) Transitions() int { return w.transitions }

// Assign implements dom.Window by recording a full page load.
func (w *Window) Assign(u *url.URL) {
	w.loads = append(w.loads, u.String())
	w.history.push(u)
}

// Loads returns the URLs of full page loads, oldest first.
func (w *Window) Loads() []string { return append([]string(nil), w.loads...) }

// Click dispatches a click on el. When no listener prevents it and el is
// inside an anchor, the default action loads the anchor's href.
func (w *Window) Click(el dom.Element, detail dom.MouseDetail) bool {
	e := dom.NewEvent(dom.EventClick, detail, true)
	if !el.DispatchEvent(e) {
		return false
	}
	a := el.Closest("a")
	if a == nil {
		return true
	}
	href, ok := a.Attribute("href")
	if !ok {
		return true
	}
	u, err := w.loc.Parse(href)
	if err != nil {
		return true
	}
	w.Assign(u)
	return true
}

// History is the in-memory session history.
type History struct {
	w       *Window
	entries []*url.URL
	index   int
}

var _ dom.History = (*History)(nil)

// PushState implements dom.History.
func (h *History) PushState(u *url.URL) { h.push(u) }

func (h *History) push(u *url.URL) {
	h.entries = append(h.entries[:h.index+1], clone(u))
	h.index = len(h.entries) - 1
	h.w.loc = clone(u)
}

// ReplaceState implements dom.History.
func (h *History) ReplaceState(u *url.URL) {
	h.entries[h.index] = clone(u)
	h.w.loc = clone(u)
}

// Back implements dom.History.
func (h *History) Back() { h.traverse(-1) }

// Forward implements dom.History.
func (h *History) Forward() { h.traverse(1) }

func (h *History) traverse(delta int) {
	next := h.index + delta
	if next < 0 || next >= len(h.entries) {
		return
	}
	h.index = next
	h.w.loc = clone(h.entries[next])
	h.w.DispatchEvent(dom.NewEvent(dom.EventPopState, nil, false))
}

// Length implements dom.History.
func (h *History) Length() int { return len(h.entries) }

// Storage is an in-memory dom.Storage.
type Storage struct {
	items map[string]string
}

var _ dom.Storage = (*Storage)(nil)

// NewStorage creates empty storage.
func NewStorage() *Storage {
	return &Storage{items: make(map[string]string)}
}

// GetItem implements dom.Storage.
func (s *Storage) GetItem(key string) (string, bool) {
	v, ok := s.items[key]
	return v, ok
}

// SetItem implements dom.Storage.
func (s *Storage) SetItem(key, value string) { s.items[key] = value }

// RemoveItem implements dom.Storage.
func (s *Storage) RemoveItem(key string) { delete(s.items, key) }

func clone(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}
