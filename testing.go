package pwashell

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/dom/memdom"
	"github.com/pthm/pwashell/lib/loop"
)

// DefaultTestURL is the location of harness windows.
const DefaultTestURL = "https://app.test/"

// TestHarness runs components against an in-memory window on a manual
// loop, capturing logs and unhandled errors.
//
// Use it to test components end to end without a browser:
//
//	h := pwashell.NewTestHarness(pwashell.WithMarkup(`<body><todo-app></todo-app></body>`))
//	todo := todo.New()
//	if err := h.Mount(ctx, todo); err != nil {
//	    t.Fatal(err)
//	}
//	h.Settle()
//	if !strings.Contains(h.Content(todo), "No tasks") {
//	    t.Error("missing empty state")
//	}
type TestHarness struct {
	Window   *memdom.Window
	Loop     *loop.Manual
	App      *App
	Registry *Registry

	logs      *syncBuffer
	mu        sync.Mutex
	unhandled []error
}

type harnessConfig struct {
	url      string
	markup   string
	storage  map[string]string
	winOpts  []memdom.WindowOption
	appOpts  []AppOption
	logLevel slog.Level
}

// HarnessOption configures a TestHarness.
type HarnessOption func(*harnessConfig)

// WithURL sets the window location.
func WithURL(u string) HarnessOption {
	return func(c *harnessConfig) { c.url = u }
}

// WithMarkup sets the initial document.
func WithMarkup(markup string) HarnessOption {
	return func(c *harnessConfig) { c.markup = markup }
}

// WithStorage seeds local storage before the app reads its preferences.
func WithStorage(items map[string]string) HarnessOption {
	return func(c *harnessConfig) {
		if c.storage == nil {
			c.storage = make(map[string]string)
		}
		for k, v := range items {
			c.storage[k] = v
		}
	}
}

// WithWindowOptions passes options to the in-memory window.
func WithWindowOptions(opts ...memdom.WindowOption) HarnessOption {
	return func(c *harnessConfig) { c.winOpts = append(c.winOpts, opts...) }
}

// WithAppOptions passes options to NewApp.
func WithAppOptions(opts ...AppOption) HarnessOption {
	return func(c *harnessConfig) { c.appOpts = append(c.appOpts, opts...) }
}

// WithLogLevel sets the minimum level captured. The default is debug.
func WithLogLevel(l slog.Level) HarnessOption {
	return func(c *harnessConfig) { c.logLevel = l }
}

// NewTestHarness creates a window, a manual loop and an app using them.
// Logs go to an in-memory text handler.
func NewTestHarness(opts ...HarnessOption) *TestHarness {
	cfg := &harnessConfig{
		url:      DefaultTestURL,
		markup:   "<html><head></head><body></body></html>",
		logLevel: slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	h := &TestHarness{
		Window:   memdom.MustWindow(cfg.url, cfg.markup, cfg.winOpts...),
		Loop:     loop.NewManual(),
		Registry: NewRegistry(),
		logs:     &syncBuffer{},
	}
	for k, v := range cfg.storage {
		h.Window.LocalStorage().SetItem(k, v)
	}

	logger := slog.New(slog.NewTextHandler(h.logs, &slog.HandlerOptions{Level: cfg.logLevel}))
	appOpts := append([]AppOption{
		WithLogger(logger),
		WithUnhandled(h.recordUnhandled),
	}, cfg.appOpts...)
	h.App = NewApp(h.Window, h.Loop, appOpts...)
	return h
}

// Element returns the first element with the given tag, or nil.
func (h *TestHarness) Element(tag string) dom.Element {
	els := h.Window.Document().ElementsByTagName(tag)
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

// Mount binds comp to the first element named after its tag and connects
// it. Nothing is rendered until the loop is driven.
func (h *TestHarness) Mount(ctx context.Context, comp Base) error {
	c := comp.base()
	el := h.Element(c.Tag())
	if el == nil {
		body := h.Window.Document().Body()
		if err := body.AppendHTML("<" + c.Tag() + "></" + c.Tag() + ">"); err != nil {
			return err
		}
		el = h.Element(c.Tag())
	}
	if err := c.Bind(ctx, h.App, el, comp); err != nil {
		return err
	}
	return c.Connect(ctx)
}

// Upgrade upgrades the whole document through the harness registry.
func (h *TestHarness) Upgrade(ctx context.Context) ([]Base, error) {
	return h.Registry.Upgrade(ctx, h.App, h.Window.Document())
}

// Settle runs every due callback and waits for off-loop work.
func (h *TestHarness) Settle() { h.Loop.Settle() }

// Advance moves virtual time forward.
func (h *TestHarness) Advance(d time.Duration) { h.Loop.Advance(d) }

// Content returns the markup in the component's render root.
func (h *TestHarness) Content(comp Base) string {
	root := comp.base().RenderRoot()
	if root == nil {
		return ""
	}
	return root.InnerHTML()
}

// Click clicks the first element with the given tag whose attribute
// name has value. It reports whether the click was not cancelled.
func (h *TestHarness) Click(tag, name, value string) bool {
	for _, el := range h.Window.Document().ElementsByTagName(tag) {
		if v, ok := el.Attribute(name); ok && v == value {
			return h.Window.Click(el, dom.MouseDetail{})
		}
	}
	return false
}

// Logs returns everything logged so far.
func (h *TestHarness) Logs() string { return h.logs.String() }

// LogLines returns the log lines at level, such as "ERROR".
func (h *TestHarness) LogLines(level string) []string {
	var lines []string
	for _, line := range strings.Split(h.logs.String(), "\n") {
		if strings.Contains(line, "level="+level) {
			lines = append(lines, line)
		}
	}
	return lines
}

// Unhandled returns errors passed to App.ReportUnhandled.
func (h *TestHarness) Unhandled() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.unhandled...)
}

func (h *TestHarness) recordUnhandled(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unhandled = append(h.unhandled, err)
}

// syncBuffer is written from the loop and from off-loop render work.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
