// Package settings loads the application settings shared by every page.
//
// Settings are YAML documents with three sections:
//
//	modules: [svg-icon, app-menu, message-toaster]
//	appMenu:
//	  - {name: Home, route: /, icon: home}
//	routes:
//	  /action/:
//	    card: {index: 2, title: Action}
//	    tmdb: {endPoint: "https://api.themoviedb.org/3/"}
//
// Several documents can be layered with Load; later documents are deep
// merged into earlier ones (maps merge key by key, lists concatenate).
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MenuItem is an entry of the main menu.
type MenuItem struct {
	Name    string `yaml:"name,omitempty"`
	Route   string `yaml:"route,omitempty"`
	Icon    string `yaml:"icon,omitempty"`
	Tooltip string `yaml:"tooltip,omitempty"`
	Type    string `yaml:"type,omitempty"`
}

// IsSeparator reports whether the item only separates groups.
func (m MenuItem) IsSeparator() bool { return m.Type == "separator" }

// Settings is the merged application configuration.
type Settings struct {
	Modules []string                  `yaml:"modules"`
	AppMenu []MenuItem                `yaml:"appMenu"`
	Routes  map[string]map[string]any `yaml:"routes"`
}

// Load decodes and deep merges YAML documents in order.
func Load(docs ...io.Reader) (*Settings, error) {
	merged := map[string]any{}
	for i, r := range docs {
		var doc map[string]any
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("settings: decode document %d: %w", i, err)
		}
		Merge(merged, doc)
	}

	raw, err := yaml.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("settings: encode merged: %w", err)
	}
	s := &Settings{}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("settings: decode merged: %w", err)
	}
	if s.Routes == nil {
		s.Routes = map[string]map[string]any{}
	}
	return s, nil
}

// LoadFiles reads and merges the named files.
func LoadFiles(paths ...string) (*Settings, error) {
	docs := make([]io.Reader, 0, len(paths))
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
		docs = append(docs, bytes.NewReader(b))
	}
	return Load(docs...)
}

// Parse is Load for in-memory documents.
func Parse(docs ...string) (*Settings, error) {
	readers := make([]io.Reader, len(docs))
	for i, d := range docs {
		readers[i] = strings.NewReader(d)
	}
	return Load(readers...)
}

// Merge deep merges src into dst. Nested maps merge recursively, lists
// are appended and every other value in src replaces the one in dst.
func Merge(dst, src map[string]any) {
	for k, sv := range src {
		switch v := sv.(type) {
		case map[string]any:
			dv, ok := dst[k].(map[string]any)
			if !ok {
				dv = map[string]any{}
				dst[k] = dv
			}
			Merge(dv, v)
		case []any:
			dv, _ := dst[k].([]any)
			dst[k] = append(append([]any(nil), dv...), v...)
		default:
			dst[k] = sv
		}
	}
}

// PageSettings is the configuration of one MPA page.
type PageSettings struct {
	URL    string
	Values map[string]any
}

// Page returns the settings of the route registered for url. Unknown
// routes yield empty values.
func (s *Settings) Page(url string) PageSettings {
	values := map[string]any{}
	for k, v := range s.Routes[url] {
		values[k] = v
	}
	return PageSettings{URL: url, Values: values}
}

// Decode copies the named section into out, which must be a pointer.
// A missing section leaves out untouched.
func (p PageSettings) Decode(section string, out any) error {
	v, ok := p.Values[section]
	if !ok {
		return nil
	}
	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("settings: encode %s: %w", section, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("settings: decode %s: %w", section, err)
	}
	return nil
}

// Card links to a page from the home screen.
type Card struct {
	ID    string `yaml:"id"`
	Href  string `yaml:"href"`
	Title string `yaml:"title"`
	Index int    `yaml:"index"`
}

// Cards returns the routes that declare a card, ordered by index. Routes
// with equal indexes keep path order.
func (s *Settings) Cards() []Card {
	routes := make([]string, 0, len(s.Routes))
	for r := range s.Routes {
		routes = append(routes, r)
	}
	sort.Strings(routes)

	var cards []Card
	for _, r := range routes {
		var c Card
		if err := s.Page(r).Decode("card", &c); err != nil || c.Title == "" {
			continue
		}
		c.Href = r
		c.ID = strings.ReplaceAll(r, "/", "")
		cards = append(cards, c)
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Index < cards[j].Index })
	return cards
}
