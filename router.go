package pwashell

import (
	"context"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/navigation"
)

// intercept claims navigations whose destination matches one of the
// component's routes. Unmatched navigations proceed as page loads.
func (c *Component) intercept(e *navigation.NavigateEvent) {
	if !c.connected {
		return
	}
	m, ok := c.table.Match(e.Destination.Path)
	if !ok {
		return
	}
	m.URL = e.Destination

	c.Logger().Debug("intercepting navigation",
		"url", e.Destination.String(),
		"type", e.NavigationType.String(),
		"route", m.Prefix)

	e.Intercept(&navigation.InterceptOptions{
		Handler: func(ctx context.Context) error {
			c.transition(ctx, m)
			return nil
		},
	})
}

// Navigating reports whether a route transition is in flight. Starting a
// second navigation while one is pending is left to the caller.
func (c *Component) Navigating() bool { return c.navigating }

// transition renders a claimed route. It runs off the loop: the skeleton
// is shown at once, the route handler runs, and the result replaces the
// content inside a view transition. A nil result shows the page's own
// markup. If the handler fails, the error is logged and the content from
// before the navigation is restored.
func (c *Component) transition(ctx context.Context, m Match) {
	ctx, span := c.app.Tracer().Start(ctx, "pwashell.navigate",
		trace.WithAttributes(
			attribute.String("pwashell.component", c.tag),
			attribute.String("pwashell.route", m.Prefix),
			attribute.String("url.path", m.URL.Path),
		))
	defer span.End()

	q := c.app.Queue()
	var (
		root     dom.Root
		previous string
		cycle    int
		nav      int
	)
	q.Call(func() {
		if !c.connected {
			return
		}
		c.cycle++
		c.stopTimers()
		cycle = c.cycle
		root = c.root
		previous = root.InnerHTML()
		c.nav++
		nav = c.nav
		c.navigating = true

		sk := c.skeleton()
		if !sk.Enabled() {
			sk = DefaultSkeleton
		}
		c.inject(sk.Markup())
	})
	if root == nil {
		span.SetStatus(codes.Error, "component disconnected")
		return
	}

	markup, ok, err := renderWork(ctx, func(ctx context.Context) (templ.Component, error) {
		return m.Handler(ctx, m.Rest)
	})

	q.Call(func() {
		if nav == c.nav {
			c.navigating = false
		}
		if cycle != c.cycle || !c.connected {
			return
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.Logger().Error("navigation interception handler failed",
				"url", m.URL.String(),
				"route", m.Prefix,
				"error", err)
			c.restore(root, previous)
			return
		}
		if !ok {
			markup = c.page
		}

		c.app.StartViewTransition(func() {
			if err := root.SetInnerHTML(markup); err != nil {
				c.app.ReportUnhandled(err)
			}
		})
		c.scheduleRendered(ctx)
	})
}

func (c *Component) restore(root dom.Root, previous string) {
	if err := root.SetInnerHTML(previous); err != nil {
		c.app.ReportUnhandled(err)
	}
}

// pageRoute matches the current location, falling back to the page URL
// declared by the document.
func (c *Component) pageRoute() (Match, bool) {
	loc := c.app.Window().Location()
	if m, ok := c.table.Match(loc.Path); ok {
		m.URL = loc
		return m, true
	}

	page := c.app.PageSettings().URL
	if page == "" {
		return Match{}, false
	}
	m, err := c.table.MatchURL(page, loc)
	if err != nil {
		if !IsNoRoute(err) {
			c.Logger().Warn("page url not routable", "url", page, "error", err)
		}
		return Match{}, false
	}
	return m, true
}
