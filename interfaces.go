package pwashell

import (
	"context"

	"github.com/a-h/templ"
)

// Renderer is implemented by components to produce their markup.
//
// Render is called on the UI loop and should only read state; the returned
// component is rendered to markup off the loop, so it may block (fetching
// data, for example). Errors returned while rendering are not handled by
// the component: they reach App.ReportUnhandled.
//
//	func (c *TodoApp) Render(ctx context.Context) templ.Component {
//	    return todoList(c.State().Snapshot())
//	}
type Renderer interface {
	Render(ctx context.Context) templ.Component
}

// RenderedHook is implemented by components that need to run after their
// markup has been injected. Rendered is scheduled through the queue, so it
// runs after the injection's synchronous work completes.
type RenderedHook interface {
	Rendered(ctx context.Context)
}

// Skeletoner is implemented by components that show a placeholder while
// a slow render is pending.
type Skeletoner interface {
	Skeleton() Skeleton
}

// Initializer is implemented by components that set up state before they
// connect. Init runs once, when the component is bound to its element.
type Initializer interface {
	Init(ctx context.Context)
}

// Routable is implemented by components that own in-page sub-routes.
// Navigations to a matching URL are intercepted and rendered by the
// component instead of loading a new page.
type Routable interface {
	Routes() Routes
}

// Disconnector is implemented by components that release resources when
// their element leaves the document.
type Disconnector interface {
	Disconnected()
}
