package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appYAML = `
modules: [svg-icon, app-menu]
appMenu:
  - {name: Home, route: /, icon: home}
  - {type: separator}
routes:
  /: {}
  /flow/:
    card: {index: 3, title: Flow}
  /power/:
    card: {index: 0, title: Power}
  /action/:
    card: {index: 2, title: Action}
    tmdb:
      endPoint: https://api.themoviedb.org/3/
      cdnBaseUrl: https://image.tmdb.org/t/p/
`

const demoYAML = `
modules: [message-toaster]
appMenu:
  - {name: About, route: /about/, icon: about, tooltip: About}
routes:
  /action/:
    guidance:
      title: Action
      features: [SPA sub-routes]
  /about/: {}
`

func TestLoadMergesDocuments(t *testing.T) {
	s, err := Parse(appYAML, demoYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"svg-icon", "app-menu", "message-toaster"}, s.Modules)
	require.Len(t, s.AppMenu, 3)
	assert.True(t, s.AppMenu[1].IsSeparator())
	assert.Equal(t, "About", s.AppMenu[2].Name)

	action := s.Page("/action/")
	assert.Equal(t, "/action/", action.URL)
	assert.Contains(t, action.Values, "card")
	assert.Contains(t, action.Values, "tmdb")
	assert.Contains(t, action.Values, "guidance")
	assert.Contains(t, s.Routes, "/about/")
}

func TestMerge(t *testing.T) {
	dst := map[string]any{
		"a":    map[string]any{"x": 1, "list": []any{"p"}},
		"keep": true,
		"over": "old",
	}
	Merge(dst, map[string]any{
		"a":    map[string]any{"y": 2, "list": []any{"q"}},
		"over": "new",
		"new":  map[string]any{"z": 3},
	})

	assert.Equal(t, map[string]any{
		"a":    map[string]any{"x": 1, "y": 2, "list": []any{"p", "q"}},
		"keep": true,
		"over": "new",
		"new":  map[string]any{"z": 3},
	}, dst)
}

func TestPageDecode(t *testing.T) {
	s, err := Parse(appYAML)
	require.NoError(t, err)

	var tmdb struct {
		EndPoint   string `yaml:"endPoint"`
		CDNBaseURL string `yaml:"cdnBaseUrl"`
	}
	require.NoError(t, s.Page("/action/").Decode("tmdb", &tmdb))
	assert.Equal(t, "https://api.themoviedb.org/3/", tmdb.EndPoint)
	assert.Equal(t, "https://image.tmdb.org/t/p/", tmdb.CDNBaseURL)

	unknown := s.Page("/nowhere/")
	assert.Empty(t, unknown.Values)
	require.NoError(t, unknown.Decode("tmdb", &tmdb))
}

func TestCardsSortedByIndex(t *testing.T) {
	s, err := Parse(appYAML)
	require.NoError(t, err)

	cards := s.Cards()
	require.Len(t, cards, 3)
	assert.Equal(t, Card{ID: "power", Href: "/power/", Title: "Power", Index: 0}, cards[0])
	assert.Equal(t, "action", cards[1].ID)
	assert.Equal(t, "flow", cards[2].ID)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	app := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(app, []byte(appYAML), 0o644))

	s, err := LoadFiles(app)
	require.NoError(t, err)
	assert.Len(t, s.Modules, 2)

	_, err = LoadFiles(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse("modules: [unterminated")
	assert.Error(t, err)
}

func TestEmptyDocument(t *testing.T) {
	s, err := Parse("")
	require.NoError(t, err)
	assert.NotNil(t, s.Routes)
	assert.Empty(t, s.Cards())
}
