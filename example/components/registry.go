// Package components holds the custom elements of the example app: a
// todo list, a movie browser, the home screen cards and the toaster.
package components

import (
	"net/http"

	"github.com/pthm/pwashell"
)

// Deps are the dependencies shared by the components.
type Deps struct {
	HTTPClient *http.Client
}

// Define registers every component with reg.
func Define(reg *pwashell.Registry, deps Deps) {
	reg.Define(TodoTag, func() pwashell.Base { return NewTodoApp() })
	reg.Define(MoviesTag, func() pwashell.Base { return NewMoviesAPI(deps.HTTPClient) })
	reg.Define(RouteCardsTag, func() pwashell.Base { return NewRouteCards() })
	reg.Define(ToasterTag, func() pwashell.Base { return NewMessageToaster() })
}
