package pwashell

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nop(context.Context, string) (templ.Component, error) { return nil, nil }

func TestLongestPrefixWins(t *testing.T) {
	table := NewRoutes().
		Handle("/action/", nop).
		Handle("/action/movie/", nop).
		Compile()

	tests := []struct {
		path   string
		prefix string
		rest   string
	}{
		{"/action/movie/42", "/action/movie/", "42"},
		{"/action/", "/action/", ""},
		{"/action/tv/1", "/action/", "tv/1"},
		{"/action/movie/", "/action/movie/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := table.Match(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.prefix, m.Prefix)
			assert.Equal(t, tt.rest, m.Rest)
			assert.NotNil(t, m.Handler)
		})
	}
}

func TestNoMatch(t *testing.T) {
	table := NewRoutes().Handle("/action/", nop).Compile()

	_, ok := table.Match("/about/")
	assert.False(t, ok)
	_, ok = table.Match("/action")
	assert.False(t, ok)
}

func TestEqualLengthKeepsDeclarationOrder(t *testing.T) {
	table := NewRoutes().
		Handle("/a/", nop).
		Handle("/b/", nop).
		Handle("/longer/", nop).
		Handle("/c/", nop).
		Compile()

	var prefixes []string
	for _, r := range table.Routes() {
		prefixes = append(prefixes, r.Prefix)
	}
	assert.Equal(t, []string{"/longer/", "/a/", "/b/", "/c/"}, prefixes)
	assert.Equal(t, 4, table.Len())
}

func TestCompileDoesNotReorderDeclaration(t *testing.T) {
	routes := NewRoutes().Handle("/a/", nop).Handle("/abc/", nop)
	routes.Compile()
	assert.Equal(t, "/a/", routes[0].Prefix)
}

func TestMatchURL(t *testing.T) {
	table := NewRoutes().Handle("/action/movie/", nop).Compile()
	base, _ := url.Parse("https://app.test/index.html")

	m, err := table.MatchURL("/action/movie/42?lang=de", base)
	require.NoError(t, err)
	assert.Equal(t, "42", m.Rest)
	assert.Equal(t, "https://app.test/action/movie/42?lang=de", m.URL.String())

	_, err = table.MatchURL("/about/", base)
	assert.True(t, IsNoRoute(err))

	_, err = table.MatchURL("http://[::1", base)
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.False(t, IsNoRoute(err))
}

func TestLongestPrefixProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("match is the longest declared prefix of the path", prop.ForAll(
		func(segments []string, pick int, suffix string) bool {
			var routes Routes
			prefix := "/"
			for _, s := range segments {
				prefix += s + "/"
				routes = routes.Handle(prefix, nop)
			}
			// declare in reverse to make order irrelevant
			for i, j := 0, len(routes)-1; i < j; i, j = i+1, j-1 {
				routes[i], routes[j] = routes[j], routes[i]
			}
			chosen := routes[pick%len(routes)].Prefix
			path := chosen + suffix

			want := ""
			for _, r := range routes {
				if strings.HasPrefix(path, r.Prefix) && len(r.Prefix) > len(want) {
					want = r.Prefix
				}
			}

			m, ok := routes.Compile().Match(path)
			return ok && m.Prefix == want && m.Prefix+m.Rest == path
		},
		gen.SliceOfN(3, gen.Identifier()),
		gen.IntRange(0, 100),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
