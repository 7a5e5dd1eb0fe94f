package pwashellecho

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/server"
)

func site() fstest.MapFS {
	return fstest.MapFS{
		"index.html":        {Data: []byte("<html><body>home</body></html>")},
		"action/index.html": {Data: []byte("<html><body>action</body></html>")},
	}
}

func opts() []server.Option {
	return []server.Option{
		server.WithFS(site()),
		server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

func do(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMount(t *testing.T) {
	e := echo.New()
	srv := Mount(e, server.Config{AppName: "demo"}, opts()...)
	if srv == nil {
		t.Fatal("Mount returned nil server")
	}

	rec := do(e, "/action/movie/42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "action") {
		t.Errorf("body = %q, want action page", rec.Body.String())
	}
}

func TestMountKeepsOwnRoutes(t *testing.T) {
	e := echo.New()
	e.GET("/api/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	Mount(e, server.Config{AppName: "demo"}, opts()...)

	if got := do(e, "/api/health").Body.String(); got != "ok" {
		t.Errorf("health = %q, want ok", got)
	}
}

func TestMountGroup(t *testing.T) {
	e := echo.New()
	g := e.Group("/app")
	MountGroup(g, "/app/", server.Config{AppName: "demo"}, opts()...)

	rec := do(e, "/app/action/")
	if !strings.Contains(rec.Body.String(), "action") {
		t.Errorf("body = %q, want action page", rec.Body.String())
	}
	rec = do(e, "/app/assets/js/services/app-version.json")
	if !strings.Contains(rec.Body.String(), `"name":"demo"`) {
		t.Errorf("version = %q", rec.Body.String())
	}
}

func TestRender(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Render(c, pwashell.Toast(pwashell.Notification{Level: "info", Text: "hi"})); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<span>hi</span>") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
