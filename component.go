package pwashell

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/a-h/templ"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/loop"
	"github.com/pthm/pwashell/lib/settings"
	"github.com/pthm/pwashell/lib/state"
)

// Render timing for components that declare a skeleton.
const (
	// SkeletonGrace is how long a pending render may take before the
	// skeleton replaces the current content.
	SkeletonGrace = 500 * time.Millisecond

	// RenderDelay postpones the start of rendering so the browser can
	// paint the page first.
	RenderDelay = 50 * time.Millisecond
)

// Option configures a Component.
type Option func(*Component)

// Isolated renders into an isolated (shadow) root attached to the host
// element instead of the host itself.
func Isolated() Option {
	return func(c *Component) { c.isolated = true }
}

// RerenderOnChange starts a new render cycle after state changes. Changes
// made in the same turn of the loop produce one cycle.
func RerenderOnChange() Option {
	return func(c *Component) { c.rerenderOnChange = true }
}

// Component is the base type embedded by user components.
//
// Components embed *Component to gain state, lifecycle and routing. The
// embedding promotes methods directly onto the user's component type:
//
//	type TodoApp struct {
//	    *pwashell.Component
//	    store *pwashell.LocalStore
//	}
//
//	func NewTodoApp() *TodoApp {
//	    return &TodoApp{Component: pwashell.New("todo-app", pwashell.RerenderOnChange())}
//	}
//
// What a component does is discovered once, when it is bound, from the
// interfaces it implements: Renderer, RenderedHook, Skeletoner,
// Initializer, Routable and Disconnector.
//
// Every method must be called on the UI loop.
type Component struct {
	tag              string
	isolated         bool
	rerenderOnChange bool

	app    *App
	host   dom.Element
	root   dom.Root
	logger *slog.Logger
	st     *state.Node

	renderer     Renderer
	hook         RenderedHook
	skeletoner   Skeletoner
	disconnector Disconnector
	table        *RouteTable

	bound     bool
	connected bool

	// cycle identifies the latest render or transition; completions from
	// older ones are dropped.
	cycle          int
	skeletonTimer  loop.Timer
	renderTimer    loop.Timer
	rerenderQueued bool
	navigating     bool
	// nav identifies the latest route transition.
	nav int

	// page is the render root's markup at connect time, shown when a
	// producer returns no component.
	page     string
	pageSeen bool

	listeners []func()
	conn      []func()
}

// Base is implemented by every type that embeds *Component.
type Base interface {
	base() *Component
}

// New creates a component for the custom element tag.
func New(tag string, opts ...Option) *Component {
	c := &Component{tag: tag}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Component) base() *Component { return c }

// Tag returns the custom element tag name.
func (c *Component) Tag() string { return c.tag }

// IsIsolated reports whether the component renders into an isolated root.
func (c *Component) IsIsolated() bool { return c.isolated }

// App returns the app the component is bound to.
func (c *Component) App() *App { return c.app }

// Host returns the element the component is bound to.
func (c *Component) Host() dom.Element { return c.host }

// RenderRoot returns where content is rendered: the isolated root or the
// host. It is nil until the component connects.
func (c *Component) RenderRoot() dom.Root { return c.root }

// State returns the component's observable state. Changes dispatch
// "state-change" events on the host element.
func (c *Component) State() *state.Node { return c.st }

// Logger returns the component's logger.
func (c *Component) Logger() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// Settings returns the settings of the current page.
func (c *Component) Settings() settings.PageSettings { return c.app.PageSettings() }

// Connected reports whether the component is connected.
func (c *Component) Connected() bool { return c.connected }

// RouteTable returns the compiled routes of a Routable component, or nil.
func (c *Component) RouteTable() *RouteTable { return c.table }

// On listens for events on the host element for as long as the
// component is bound.
func (c *Component) On(typ string, fn dom.Listener) (remove func()) {
	remove = c.host.AddEventListener(typ, fn)
	c.listeners = append(c.listeners, remove)
	return remove
}

// Bind attaches the component to its host element. self is the concrete
// component embedding c; its capabilities are detected here, once. Init
// runs last.
func (c *Component) Bind(ctx context.Context, app *App, host dom.Element, self Base) error {
	if c.bound {
		return fmt.Errorf("pwashell: <%s> is already bound", c.tag)
	}
	if self == nil || self.base() != c {
		return fmt.Errorf("pwashell: <%s>: self must embed this component", c.tag)
	}

	c.app = app
	c.host = host
	c.logger = app.Logger().With("component", c.tag)
	c.st = state.Wrap(host, nil, "")

	c.renderer, _ = self.(Renderer)
	c.hook, _ = self.(RenderedHook)
	c.skeletoner, _ = self.(Skeletoner)
	c.disconnector, _ = self.(Disconnector)
	if r, ok := self.(Routable); ok {
		c.table = r.Routes().Compile()
	}
	c.bound = true

	if init, ok := self.(Initializer); ok {
		init.Init(ctx)
	}
	return nil
}

// Connect runs when the host element enters the document. It prepares the
// render root, subscribes to navigation for routable components and starts
// the first render cycle.
func (c *Component) Connect(ctx context.Context) error {
	if !c.bound {
		return fmt.Errorf("%w: <%s> is not bound", ErrNotConnected, c.tag)
	}
	if c.connected {
		return nil
	}

	if c.isolated {
		c.root = c.host.AttachShadow()
	} else {
		c.root = c.host
	}
	if !c.pageSeen {
		c.page = c.root.InnerHTML()
		c.pageSeen = true
	}
	c.connected = true

	if c.rerenderOnChange {
		c.conn = append(c.conn, c.host.AddEventListener(dom.EventStateChange, func(e *dom.Event) {
			if e.Target() == dom.EventTarget(c.host) {
				c.queueRerender(ctx)
			}
		}))
	}
	if c.table != nil {
		c.conn = append(c.conn, c.app.Navigation().OnNavigate(c.intercept))
	}

	c.startCycle(ctx)
	return nil
}

// Disconnect runs when the host element leaves the document. Pending
// timers are cancelled, navigation is unsubscribed and the state tree is
// discarded.
func (c *Component) Disconnect() {
	if !c.connected {
		return
	}
	c.connected = false
	c.cycle++
	c.stopTimers()
	for _, remove := range c.conn {
		remove()
	}
	c.conn = nil
	c.st = state.Wrap(c.host, nil, "")

	if c.disconnector != nil {
		c.disconnector.Disconnected()
	}
}

// Unbind disconnects the component and removes every listener added with
// On.
func (c *Component) Unbind() {
	c.Disconnect()
	for _, remove := range c.listeners {
		remove()
	}
	c.listeners = nil
}

// Rerender starts a new render cycle. Results of an earlier cycle that
// has not completed are discarded.
func (c *Component) Rerender(ctx context.Context) error {
	if !c.connected {
		return fmt.Errorf("%w: <%s>", ErrNotConnected, c.tag)
	}
	c.startCycle(ctx)
	return nil
}

func (c *Component) queueRerender(ctx context.Context) {
	if c.rerenderQueued {
		return
	}
	c.rerenderQueued = true
	c.app.Queue().Enqueue(func() {
		c.rerenderQueued = false
		if c.connected {
			c.startCycle(ctx)
		}
	}, 0)
}

func (c *Component) skeleton() Skeleton {
	if c.skeletoner == nil {
		return NoSkeleton
	}
	return c.skeletoner.Skeleton()
}

// startCycle begins a render cycle. With a skeleton declared, the
// skeleton is scheduled after SkeletonGrace and rendering starts after
// RenderDelay; otherwise rendering starts immediately.
func (c *Component) startCycle(ctx context.Context) {
	c.cycle++
	cycle := c.cycle
	c.stopTimers()

	sk := c.skeleton()
	if !sk.Enabled() {
		c.render(ctx, cycle)
		return
	}

	q := c.app.Queue()
	c.skeletonTimer = q.Enqueue(func() {
		c.skeletonTimer = nil
		if cycle == c.cycle && c.connected {
			c.inject(sk.Markup())
		}
	}, SkeletonGrace)
	c.renderTimer = q.Enqueue(func() {
		c.renderTimer = nil
		c.render(ctx, cycle)
	}, RenderDelay)
}

// render obtains the component's markup producer on the loop and renders
// it off the loop.
func (c *Component) render(ctx context.Context, cycle int) {
	if cycle != c.cycle || !c.connected {
		return
	}

	var work func(context.Context) (templ.Component, error)
	switch {
	case c.renderer != nil:
		comp := c.renderer.Render(ctx)
		work = func(context.Context) (templ.Component, error) { return comp, nil }
	case c.table != nil:
		m, ok := c.pageRoute()
		if !ok {
			c.stopTimers()
			return
		}
		work = func(ctx context.Context) (templ.Component, error) { return m.Handler(ctx, m.Rest) }
	default:
		c.stopTimers()
		return
	}

	c.app.Queue().Go(func() func() {
		markup, ok, err := renderWork(ctx, work)
		return func() { c.finish(ctx, cycle, markup, ok, err) }
	})
}

// finish injects a completed render. It runs on the loop.
func (c *Component) finish(ctx context.Context, cycle int, markup string, ok bool, err error) {
	if cycle != c.cycle || !c.connected {
		return
	}
	if c.skeletonTimer != nil {
		c.skeletonTimer.Stop()
		c.skeletonTimer = nil
	}
	if err != nil {
		c.app.ReportUnhandled(fmt.Errorf("%w: <%s>: %w", ErrRenderFailed, c.tag, err))
		return
	}
	if !ok {
		if c.root.InnerHTML() != c.page {
			c.inject(c.page)
		}
		return
	}
	c.inject(markup)
	c.scheduleRendered(ctx)
}

func (c *Component) inject(markup string) {
	if err := c.root.SetInnerHTML(markup); err != nil {
		c.app.ReportUnhandled(fmt.Errorf("%w: <%s>: inject: %w", ErrRenderFailed, c.tag, err))
	}
}

func (c *Component) scheduleRendered(ctx context.Context) {
	if c.hook == nil {
		return
	}
	c.app.Queue().Enqueue(func() {
		if c.connected {
			c.hook.Rendered(ctx)
		}
	}, 0)
}

func (c *Component) stopTimers() {
	if c.skeletonTimer != nil {
		c.skeletonTimer.Stop()
		c.skeletonTimer = nil
	}
	if c.renderTimer != nil {
		c.renderTimer.Stop()
		c.renderTimer = nil
	}
}

// renderWork runs a markup producer and renders its result. ok is false
// when the producer returned no component.
func renderWork(ctx context.Context, work func(context.Context) (templ.Component, error)) (markup string, ok bool, err error) {
	comp, err := work(ctx)
	if err != nil {
		return "", false, err
	}
	if comp == nil {
		return "", false, nil
	}
	var buf bytes.Buffer
	if err := comp.Render(ctx, &buf); err != nil {
		return "", false, err
	}
	return buf.String(), true, nil
}
