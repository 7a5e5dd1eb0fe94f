// Package pwashellecho serves a pwashell app from an Echo instance.
//
// Mount the app at the root of an Echo instance:
//
//	e := echo.New()
//	srv := pwashellecho.Mount(e, cfg)
//
// Or below a prefix, sharing a group's middleware:
//
//	g := e.Group("/app", authMiddleware)
//	srv := pwashellecho.MountGroup(g, "/app", cfg)
package pwashellecho

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/pwashell/server"
)

// Mount creates a server for cfg and routes every unmatched request of e
// to it.
//
//	e := echo.New()
//	srv := pwashellecho.Mount(e, cfg)
//
//	// With options:
//	srv := pwashellecho.Mount(e, cfg, server.WithLogger(logger))
func Mount(e *echo.Echo, cfg server.Config, opts ...server.Option) *server.Server {
	srv := server.New(cfg, opts...)
	e.Any("/*", echo.WrapHandler(srv.Handler()))
	return srv
}

// MountGroup creates a server for cfg and routes the requests of g to it.
// prefix must be the group's prefix; it is stripped before the app sees
// the path.
func MountGroup(g *echo.Group, prefix string, cfg server.Config, opts ...server.Option) *server.Server {
	srv := server.New(cfg, opts...)
	prefix = strings.TrimSuffix(prefix, "/")
	g.Any("/*", echo.WrapHandler(http.StripPrefix(prefix, srv.Handler())))
	return srv
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return pwashellecho.Render(c, pwashell.Toast(n))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
