package navigation

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/loop"
)

// Option configures a Polyfill.
type Option func(*Polyfill)

// WithLogger sets the logger used for handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Polyfill) { p.logger = l }
}

// WithBaseContext sets the function that supplies the context handlers
// run with.
func WithBaseContext(fn func() context.Context) Option {
	return func(p *Polyfill) { p.baseContext = fn }
}

// Polyfill implements Navigation on top of click and popstate events.
//
// A left click without modifiers on an anchor pointing at the same origin
// produces a Push intent. If a listener claims it, the click's default
// action is prevented, the destination is pushed onto history and the
// handler runs off the loop. A popstate produces a Traverse intent for the
// new location; claiming it runs the handler without touching history.
type Polyfill struct {
	win         dom.Window
	queue       loop.Queue
	logger      *slog.Logger
	baseContext func() context.Context

	listeners []*entry
	remove    []func()
}

type entry struct{ fn Listener }

var _ Navigation = (*Polyfill)(nil)

// NewPolyfill attaches a polyfill to win.
func NewPolyfill(win dom.Window, q loop.Queue, opts ...Option) *Polyfill {
	p := &Polyfill{
		win:         win,
		queue:       q,
		logger:      slog.Default(),
		baseContext: context.Background,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.remove = []func(){
		win.Document().AddEventListener(dom.EventClick, p.onClick),
		win.AddEventListener(dom.EventPopState, p.onPopState),
	}
	return p
}

// Close detaches the polyfill from the window.
func (p *Polyfill) Close() {
	for _, fn := range p.remove {
		fn()
	}
	p.remove = nil
}

// OnNavigate implements Navigation.
func (p *Polyfill) OnNavigate(fn Listener) func() {
	e := &entry{fn: fn}
	p.listeners = append(p.listeners, e)
	return func() {
		for i, l := range p.listeners {
			if l == e {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// Navigate implements Navigation. Cross-origin destinations and unclaimed
// intents load the page.
func (p *Polyfill) Navigate(u *url.URL) bool {
	dest := p.win.Location().ResolveReference(u)
	if !SameOrigin(dest, p.win.Location()) {
		p.win.Assign(dest)
		return false
	}
	evt := p.dispatch(dest, Push)
	if !evt.Claimed() {
		p.win.Assign(dest)
		return false
	}
	p.win.History().PushState(dest)
	p.run(evt)
	return true
}

func (p *Polyfill) onClick(e *dom.Event) {
	if e.DefaultPrevented() {
		return
	}
	if m, ok := e.Detail.(dom.MouseDetail); ok && (m.Button != 0 || m.Modified()) {
		return
	}
	el, ok := e.Target().(dom.Element)
	if !ok {
		return
	}
	a := el.Closest("a")
	if a == nil {
		return
	}
	href, ok := a.Attribute("href")
	if !ok {
		return
	}
	if _, ok := a.Attribute("target"); ok {
		return
	}
	if _, ok := a.Attribute("download"); ok {
		return
	}

	loc := p.win.Location()
	dest, err := loc.Parse(href)
	if err != nil {
		p.logger.Warn("ignoring malformed link", "href", href, "error", err)
		return
	}
	if !SameOrigin(dest, loc) {
		return
	}

	evt := p.dispatch(dest, Push)
	if !evt.Claimed() {
		return
	}
	e.PreventDefault()
	p.win.History().PushState(dest)
	p.run(evt)
}

func (p *Polyfill) onPopState(*dom.Event) {
	evt := p.dispatch(p.win.Location(), Traverse)
	if evt.Claimed() {
		p.run(evt)
	}
}

func (p *Polyfill) dispatch(dest *url.URL, typ Type) *NavigateEvent {
	evt := NewNavigateEvent(dest, typ)
	for _, l := range append([]*entry(nil), p.listeners...) {
		l.fn(evt)
	}
	return evt
}

func (p *Polyfill) run(evt *NavigateEvent) {
	h := evt.Handler()
	if h == nil {
		return
	}
	ctx := p.baseContext()
	p.queue.Go(func() func() {
		if err := h(ctx); err != nil {
			p.logger.Error("navigation handler failed",
				"url", evt.Destination.String(),
				"type", evt.NavigationType.String(),
				"error", err)
		}
		return nil
	})
}
