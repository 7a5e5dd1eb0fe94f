package pwashell

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// RouteHandler renders the sub-route below a matched prefix. rest is the
// remainder of the path after the prefix. A nil component renders the
// page's own markup, as it was when the component connected.
type RouteHandler func(ctx context.Context, rest string) (templ.Component, error)

// Route maps a path prefix to its handler.
type Route struct {
	Prefix  string
	Handler RouteHandler
}

// Routes is a component's route declaration, in declaration order.
//
//	func (c *MoviesAPI) Routes() pwashell.Routes {
//	    return pwashell.NewRoutes().
//	        Handle("/action/movie/", c.movie).
//	        Handle("/action/", c.popular)
//	}
type Routes []Route

// NewRoutes starts an empty declaration.
func NewRoutes() Routes { return nil }

// Handle appends a route.
func (r Routes) Handle(prefix string, h RouteHandler) Routes {
	return append(r, Route{Prefix: prefix, Handler: h})
}

// Compile orders the routes for matching: longest prefix first, equal
// lengths in declaration order.
func (r Routes) Compile() *RouteTable {
	routes := make([]Route, len(r))
	copy(routes, r)
	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].Prefix) > len(routes[j].Prefix)
	})
	return &RouteTable{routes: routes}
}

// RouteTable matches paths against compiled routes.
type RouteTable struct {
	routes []Route
}

// Match is the result of a successful lookup.
type Match struct {
	Prefix  string
	Rest    string
	Handler RouteHandler

	// URL is the resolved destination for MatchURL lookups.
	URL *url.URL
}

// Routes returns the routes in matching order.
func (t *RouteTable) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Len returns the number of routes.
func (t *RouteTable) Len() int { return len(t.routes) }

// Match returns the first route whose prefix starts path.
func (t *RouteTable) Match(path string) (Match, bool) {
	for _, r := range t.routes {
		if strings.HasPrefix(path, r.Prefix) {
			return Match{Prefix: r.Prefix, Rest: path[len(r.Prefix):], Handler: r.Handler}, true
		}
	}
	return Match{}, false
}

// MatchURL resolves raw against base and matches its path. It returns
// ErrInvalidURL for malformed input and ErrNoRoute when nothing matches.
func (t *RouteTable) MatchURL(raw string, base *url.URL) (Match, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Match{}, fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	m, ok := t.Match(u.Path)
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrNoRoute, u.Path)
	}
	m.URL = u
	return m, nil
}
