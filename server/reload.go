package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/fsnotify/fsnotify"
)

// LivePath is where pages connect for reload notifications.
const LivePath = "/_pwashell/live"

// ReloadMessage is sent to every page when the public directory changes.
const ReloadMessage = "reload"

const (
	writeWait     = 5 * time.Second
	debounceDelay = 100 * time.Millisecond
)

// Reloader tells connected pages to reload.
type Reloader struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewReloader creates a reloader with no clients.
func NewReloader(logger *slog.Logger) *Reloader {
	return &Reloader{logger: logger, clients: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request and keeps the connection until the page
// goes away. Messages from pages are ignored.
func (rl *Reloader) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		rl.logger.Warn("live reload upgrade failed", "error", err)
		return
	}

	rl.mu.Lock()
	rl.clients[conn] = struct{}{}
	count := len(rl.clients)
	rl.mu.Unlock()
	rl.logger.Debug("live reload client connected", "clients", count)

	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	rl.mu.Lock()
	delete(rl.clients, conn)
	rl.mu.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
}

// Clients returns the number of connected pages.
func (rl *Reloader) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Broadcast sends ReloadMessage to every connected page. Pages that cannot
// be written to are dropped.
func (rl *Reloader) Broadcast(ctx context.Context) {
	rl.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(rl.clients))
	for c := range rl.clients {
		conns = append(conns, c)
	}
	rl.mu.Unlock()

	for _, c := range conns {
		wctx, cancel := context.WithTimeout(ctx, writeWait)
		err := c.Write(wctx, websocket.MessageText, []byte(ReloadMessage))
		cancel()
		if err != nil {
			rl.logger.Debug("dropping live reload client", "error", err)
			rl.mu.Lock()
			delete(rl.clients, c)
			rl.mu.Unlock()
			c.CloseNow()
		}
	}
}

// Watch calls onChange after files under dir change, grouping bursts of
// events. It blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, logger *slog.Logger, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addRecursive(w, dir); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		trigger = make(chan struct{}, 1)
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if hidden(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(w, ev.Name)
				}
			}
			logger.Debug("public file changed", "path", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
