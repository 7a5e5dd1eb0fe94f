//go:build js && wasm

// Command example runs the example app in the browser.
//
//	GOOS=js GOARCH=wasm go build -o public/app.wasm ./
//	pwashell serve --dir public --live-reload
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/driver/jsdom"
	"github.com/pthm/pwashell/example/app"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := app.Config{
		// Tasks are signed, not secret; the key only detects tampering.
		StorageKey: []byte("pwashell-example"),
		HTTPClient: http.DefaultClient,
		Logger:     logger,
	}
	opts, err := app.Options(cfg)
	if err != nil {
		logger.Error("configuring app", "error", err)
		os.Exit(1)
	}

	win := jsdom.NewWindow(jsdom.WithLogger(logger))
	if _, _, err := pwashell.Start(context.Background(), win, jsdom.NewQueue(), app.Registry(cfg), opts...); err != nil {
		logger.Error("starting app", "error", err)
	}
	select {}
}
