package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/pwashell"
	"github.com/pthm/pwashell/lib/i18n"
)

func TestEmbeddedSettings(t *testing.T) {
	opts, err := Options(Config{StorageKey: []byte("k")})
	require.NoError(t, err)
	h := pwashell.NewTestHarness(pwashell.WithAppOptions(opts...))

	set := h.App.Settings()
	assert.Equal(t, []string{"message-toaster", "route-cards", "movies-api", "todo-app"}, set.Modules)
	assert.True(t, set.AppMenu[3].IsSeparator())

	cards := set.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "/action/", cards[0].Href)
	assert.Equal(t, "/flow/", cards[1].Href)
}

func TestSettingsOverride(t *testing.T) {
	opts, err := Options(Config{
		StorageKey: []byte("k"),
		Settings:   [][]byte{[]byte("routes:\n  /action/:\n    tmdb: {endPoint: \"http://localhost:9999/\"}\n")},
	})
	require.NoError(t, err)
	h := pwashell.NewTestHarness(pwashell.WithAppOptions(opts...))

	var cfg struct {
		EndPoint   string `yaml:"endPoint"`
		CDNBaseURL string `yaml:"cdnBaseUrl"`
	}
	require.NoError(t, h.App.Settings().Page("/action/").Decode("tmdb", &cfg))
	assert.Equal(t, "http://localhost:9999/", cfg.EndPoint)
	assert.Equal(t, "https://image.tmdb.org/t/p/", cfg.CDNBaseURL)
}

func TestBadSettingsFail(t *testing.T) {
	_, err := Options(Config{Settings: [][]byte{[]byte("routes: [")}})
	assert.Error(t, err)
}

func TestTranslations(t *testing.T) {
	opts, err := Options(Config{StorageKey: []byte("k")})
	require.NoError(t, err)
	h := pwashell.NewTestHarness(
		pwashell.WithStorage(map[string]string{i18n.StorageKey: "nl-BE"}),
		pwashell.WithAppOptions(opts...),
	)

	assert.Equal(t, "Taak toegevoegd...", h.App.Localize("Task added..."))
	assert.Equal(t, "Untranslated", h.App.Localize("Untranslated"))
}

func TestRegistryUpgradesPage(t *testing.T) {
	opts, err := Options(Config{StorageKey: []byte("k")})
	require.NoError(t, err)
	h := pwashell.NewTestHarness(
		pwashell.WithMarkup(`<html><body><route-cards></route-cards><message-toaster></message-toaster></body></html>`),
		pwashell.WithAppOptions(opts...),
	)
	h.Registry = Registry(Config{})

	created, err := h.Upgrade(context.Background())
	require.NoError(t, err)
	assert.Len(t, created, 2)
	h.Settle()

	assert.Contains(t, h.Element("route-cards").InnerHTML(), `href="/flow/"`)
}
