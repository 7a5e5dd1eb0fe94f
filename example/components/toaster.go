package components

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/lib/dom"
)

// ToasterTag is the element name of the toaster.
const ToasterTag = "message-toaster"

// Toast timing. A toast settles shortly after it appears, starts leaving
// at 80% of pwashell.NotificationTimeout and is gone at 100%.
const (
	toastSettle  = 100 * time.Millisecond
	toastTimeout = pwashell.NotificationTimeout * time.Millisecond
	toastLeave   = toastTimeout * 8 / 10
	toastRemove  = toastTimeout - toastLeave
)

type toast struct {
	n     pwashell.Notification
	phase string
}

// MessageToaster shows every notification published on the bus as a
// toast.
type MessageToaster struct {
	*pwashell.Component
	toasts      []*toast
	unsubscribe func()
}

// NewMessageToaster creates the toaster.
func NewMessageToaster() *MessageToaster {
	return &MessageToaster{Component: pwashell.New(ToasterTag)}
}

func (c *MessageToaster) Render(ctx context.Context) templ.Component {
	return pwashell.ToastContainer()
}

// Rendered subscribes to notifications once the container exists.
func (c *MessageToaster) Rendered(ctx context.Context) {
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = pwashell.Subscribe(c.App().Bus(), pwashell.NotificationCategory, func(n pwashell.Notification) {
		c.add(ctx, n)
	})
}

func (c *MessageToaster) Disconnected() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.toasts = nil
}

// Len returns the number of toasts on screen.
func (c *MessageToaster) Len() int { return len(c.toasts) }

func (c *MessageToaster) add(ctx context.Context, n pwashell.Notification) {
	t := &toast{n: n, phase: pwashell.ToastEntering}
	c.toasts = append(c.toasts, t)
	c.draw(ctx)

	q := c.App().Queue()
	q.Enqueue(func() {
		t.phase = pwashell.ToastShown
		c.draw(ctx)
	}, toastSettle)
	q.Enqueue(func() {
		t.phase = pwashell.ToastLeaving
		c.draw(ctx)
		q.Enqueue(func() {
			c.remove(t)
			c.draw(ctx)
		}, toastRemove)
	}, toastLeave)
}

func (c *MessageToaster) remove(t *toast) {
	for i, x := range c.toasts {
		if x == t {
			c.toasts = append(c.toasts[:i:i], c.toasts[i+1:]...)
			return
		}
	}
}

func (c *MessageToaster) draw(ctx context.Context) {
	if !c.Connected() {
		return
	}
	container := c.container()
	if container == nil {
		c.Logger().Warn("toast container missing")
		return
	}
	items := make([]templ.Component, len(c.toasts))
	for i, t := range c.toasts {
		items[i] = pwashell.ToastPhase(t.n, t.phase)
	}
	markup, err := pwashell.RenderString(ctx, pwashell.Join(items...))
	if err == nil {
		err = container.SetInnerHTML(markup)
	}
	if err != nil {
		c.App().ReportUnhandled(err)
	}
}

func (c *MessageToaster) container() dom.Element {
	for _, el := range c.Host().ElementsByTagName("section") {
		if id, _ := el.Attribute("id"); id == "toastContainer" {
			return el
		}
	}
	return nil
}
