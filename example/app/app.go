// Package app assembles the example app: embedded settings and
// translations, the codec for stored tasks and the component registry.
package app

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/text/language"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/example/components"
	"github.com/pthm/pwashell/lib/encoding"
	"github.com/pthm/pwashell/lib/i18n"
	"github.com/pthm/pwashell/lib/settings"
)

var (
	//go:embed settings.yaml
	settingsYAML []byte

	//go:embed locale.yaml
	localeYAML []byte
)

// Config selects what the app is built with.
type Config struct {
	// StorageKey protects tasks kept in local storage.
	StorageKey []byte

	// Settings are extra settings documents merged over the embedded ones.
	Settings [][]byte

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Options returns the app options for cfg.
func Options(cfg Config) ([]pwashell.AppOption, error) {
	docs := []io.Reader{bytes.NewReader(settingsYAML)}
	for _, s := range cfg.Settings {
		docs = append(docs, bytes.NewReader(s))
	}
	set, err := settings.Load(docs...)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	loc, err := i18n.New(language.English, bytes.NewReader(localeYAML))
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	codec, err := encoding.NewCodec(cfg.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	opts := []pwashell.AppOption{
		pwashell.WithSettings(set),
		pwashell.WithLocalizer(loc),
		pwashell.WithCodec(codec),
	}
	if cfg.Logger != nil {
		opts = append(opts, pwashell.WithLogger(cfg.Logger))
	}
	return opts, nil
}

// Registry returns a registry defining every example component.
func Registry(cfg Config) *pwashell.Registry {
	reg := pwashell.NewRegistry()
	components.Define(reg, components.Deps{HTTPClient: cfg.HTTPClient})
	return reg
}
