// Package server serves a built pwashell app: one HTML page per top-level
// route, the offline manifest and, in development, live reload.
//
// Paths below a page that have no file of their own (client-side
// sub-routes such as /action/movie/42) get the nearest ancestor page, so
// reloading a deep link works.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pthm/pwashell/lib/manifest"
)

// TracerName is the instrumentation scope of request spans.
const TracerName = "github.com/pthm/pwashell/server"

const liveScript = `<script>new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"` +
	LivePath + `").onmessage=function(e){if(e.data==="` + ReloadMessage + `")location.reload()}</script>`

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithFS serves fsys instead of the configured public directory.
func WithFS(fsys fs.FS) Option {
	return func(s *Server) { s.fsys = fsys }
}

// WithTracerProvider sets the provider of request spans. The default is
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp.Tracer(TracerName) }
}

// Server serves the public directory.
type Server struct {
	cfg      Config
	fsys     fs.FS
	logger   *slog.Logger
	tracer   trace.Tracer
	reloader *Reloader

	mu       sync.Mutex
	manifest *manifest.Manifest
}

// New creates a server for cfg.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.GetTracerProvider().Tracer(TracerName)
	}
	if s.fsys == nil {
		s.fsys = os.DirFS(cfg.PublicDir)
	}
	if cfg.LiveReload {
		s.reloader = NewReloader(s.logger)
	}
	return s
}

// Config returns the server configuration.
func (s *Server) Config() Config { return s.cfg }

// Reloader returns the live reload hub, or nil when live reload is off.
func (s *Server) Reloader() *Reloader { return s.reloader }

// Handler returns the HTTP handler of the app.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /"+manifest.ServicesDir+"/"+manifest.FilesName, s.instrument(http.HandlerFunc(s.serveFiles)))
	mux.Handle("GET /"+manifest.ServicesDir+"/"+manifest.VersionName, s.instrument(http.HandlerFunc(s.serveVersion)))
	if s.reloader != nil {
		mux.Handle("GET "+LivePath, s.reloader)
	}
	mux.Handle("/", s.instrument(http.HandlerFunc(s.servePage)))
	return mux
}

// Manifest returns the manifest of the served files, computing it on
// first use and after Invalidate.
func (s *Server) Manifest() (*manifest.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manifest != nil {
		return s.manifest, nil
	}
	m, err := manifest.Build(s.fsys, s.cfg.AppName)
	if err != nil {
		return nil, err
	}
	s.manifest = m
	return m, nil
}

// Invalidate drops the cached manifest.
func (s *Server) Invalidate() {
	s.mu.Lock()
	s.manifest = nil
	s.mu.Unlock()
}

// Run serves until ctx is cancelled, then shuts down gracefully. With
// live reload enabled the public directory is watched.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", s.cfg.Addr, "dir", s.cfg.PublicDir, "live_reload", s.cfg.LiveReload)

	if s.reloader != nil {
		go func() {
			err := Watch(ctx, s.cfg.PublicDir, s.logger, func() {
				s.Invalidate()
				s.reloader.Broadcast(ctx)
			})
			if err != nil {
				s.logger.Error("live reload stopped", "error", err)
			}
		}()
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) serveFiles(w http.ResponseWriter, r *http.Request) {
	m, err := s.Manifest()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, m)
}

func (s *Server) serveVersion(w http.ResponseWriter, r *http.Request) {
	m, err := s.Manifest()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, manifest.Version{Name: m.Name, Version: m.Version})
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if s.reloader != nil && strings.HasSuffix(name, ".html") {
		s.serveLive(w, r, name)
		return
	}
	http.ServeFileFS(w, r, s.fsys, name)
}

// resolve maps a URL path to a file: the file itself, the directory's
// index.html, or the index.html of the nearest ancestor directory.
func (s *Server) resolve(urlPath string) (string, bool) {
	p := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if p == "" {
		p = "."
	}

	if info, err := fs.Stat(s.fsys, p); err == nil {
		if !info.IsDir() {
			return p, true
		}
		if index := path.Join(p, "index.html"); s.isFile(index) {
			return index, true
		}
		return "", false
	}

	// client-side sub-route: walk up to the nearest page
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		if index := path.Join(dir, "index.html"); s.isFile(index) {
			return index, true
		}
		if dir == "." {
			return "", false
		}
	}
}

func (s *Server) isFile(name string) bool {
	info, err := fs.Stat(s.fsys, name)
	return err == nil && !info.IsDir()
}

// serveLive serves an HTML page with the live reload client injected.
func (s *Server) serveLive(w http.ResponseWriter, r *http.Request, name string) {
	body, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if i := bytes.LastIndex(body, []byte("</body>")); i >= 0 {
		body = append(body[:i:i], append([]byte(liveScript), body[i:]...)...)
	} else {
		body = append(body, liveScript...)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	trace.SpanFromContext(r.Context()).RecordError(err)
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_ = json.NewEncoder(w).Encode(v)
}

// instrument wraps a handler with a server span and a request log line.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	r.wrote = true
	return r.ResponseWriter.Write(p)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
