package navigation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/dom/memdom"
	"github.com/pthm/pwashell/lib/loop"
)

const page = `<html><body><main>
<a id="local" href="/action/movie/42"><span id="label">movie</span></a>
<a id="remote" href="https://elsewhere.test/">remote</a>
<a id="blank" href="/action/" target="_blank">blank</a>
<a id="file" href="/file.zip" download>file</a>
<a id="nohref">nothing</a>
<a id="malformed" href="http://[::1">broken</a>
</main></body></html>`

type fixture struct {
	win  *memdom.Window
	q    *loop.Manual
	nav  *Polyfill
	logs *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	win := memdom.MustWindow("https://app.test/action/", page)
	q := loop.NewManual()
	nav := NewPolyfill(win, q, WithLogger(slog.New(slog.NewTextHandler(logs, nil))))
	t.Cleanup(nav.Close)
	return &fixture{win: win, q: q, nav: nav, logs: logs}
}

func (f *fixture) click(id string, detail dom.MouseDetail) bool {
	return f.win.Click(f.win.Document().ElementByID(id), detail)
}

func TestUnclaimedClickLoadsPage(t *testing.T) {
	f := newFixture(t)
	var seen []*NavigateEvent
	f.nav.OnNavigate(func(e *NavigateEvent) { seen = append(seen, e) })

	f.click("label", dom.MouseDetail{})

	require.Len(t, seen, 1)
	assert.Equal(t, Push, seen[0].NavigationType)
	assert.Equal(t, "/action/movie/42", seen[0].Destination.Path)
	assert.Equal(t, []string{"https://app.test/action/movie/42"}, f.win.Loads())
}

func TestClaimedClickPushesAndRunsHandler(t *testing.T) {
	f := newFixture(t)
	ran := make(chan string, 1)
	f.nav.OnNavigate(func(e *NavigateEvent) {
		e.Intercept(&InterceptOptions{Handler: func(ctx context.Context) error {
			ran <- e.Destination.Path
			return nil
		}})
	})

	f.click("label", dom.MouseDetail{})
	f.q.Settle()

	assert.Empty(t, f.win.Loads())
	assert.Equal(t, "/action/movie/42", f.win.Location().Path)
	assert.Equal(t, 2, f.win.History().Length())
	assert.Equal(t, "/action/movie/42", <-ran)
}

func TestClicksThatAreNotIntercepted(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		detail dom.MouseDetail
		loads  int
	}{
		{"cross origin", "remote", dom.MouseDetail{}, 1},
		{"target attribute", "blank", dom.MouseDetail{}, 1},
		{"download attribute", "file", dom.MouseDetail{}, 1},
		{"no href", "nohref", dom.MouseDetail{}, 0},
		{"middle button", "local", dom.MouseDetail{Button: 1}, 1},
		{"ctrl click", "local", dom.MouseDetail{CtrlKey: true}, 1},
		{"meta click", "local", dom.MouseDetail{MetaKey: true}, 1},
		{"shift click", "local", dom.MouseDetail{ShiftKey: true}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			intents := 0
			f.nav.OnNavigate(func(e *NavigateEvent) {
				intents++
				e.Intercept(nil)
			})

			f.click(tt.id, tt.detail)
			assert.Zero(t, intents)
			assert.Len(t, f.win.Loads(), tt.loads)
		})
	}
}

func TestMalformedLinkIsLoggedAndIgnored(t *testing.T) {
	f := newFixture(t)
	intents := 0
	f.nav.OnNavigate(func(e *NavigateEvent) {
		intents++
		e.Intercept(nil)
	})

	f.click("malformed", dom.MouseDetail{})
	f.q.Settle()

	assert.Zero(t, intents)
	assert.Empty(t, f.win.Loads())
	assert.Equal(t, "/action/", f.win.Location().Path)
	assert.Equal(t, 1, strings.Count(f.logs.String(), "level=WARN"))
	assert.Contains(t, f.logs.String(), "ignoring malformed link")
}

func TestAlreadyPreventedClickIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.win.Document().ElementByID("local").AddEventListener(dom.EventClick, func(e *dom.Event) { e.PreventDefault() })
	intents := 0
	f.nav.OnNavigate(func(*NavigateEvent) { intents++ })

	f.click("label", dom.MouseDetail{})
	assert.Zero(t, intents)
}

func TestLastClaimWins(t *testing.T) {
	f := newFixture(t)
	var ran []string
	f.nav.OnNavigate(func(e *NavigateEvent) {
		e.Intercept(&InterceptOptions{Handler: func(context.Context) error {
			ran = append(ran, "first")
			return nil
		}})
	})
	f.nav.OnNavigate(func(e *NavigateEvent) {
		e.Intercept(&InterceptOptions{Handler: func(context.Context) error {
			ran = append(ran, "second")
			return nil
		}})
	})

	f.click("label", dom.MouseDetail{})
	f.q.Settle()
	assert.Equal(t, []string{"second"}, ran)
}

func TestClaimWithoutHandler(t *testing.T) {
	f := newFixture(t)
	f.nav.OnNavigate(func(e *NavigateEvent) { e.Intercept(nil) })

	f.click("label", dom.MouseDetail{})
	assert.Empty(t, f.win.Loads())
	assert.Equal(t, "/action/movie/42", f.win.Location().Path)
	assert.Zero(t, f.q.Pending())
}

func TestHandlerErrorIsLoggedOnce(t *testing.T) {
	f := newFixture(t)
	calls := 0
	f.nav.OnNavigate(func(e *NavigateEvent) {
		e.Intercept(&InterceptOptions{Handler: func(context.Context) error {
			calls++
			return errors.New("backend down")
		}})
	})

	f.click("label", dom.MouseDetail{})
	f.q.Settle()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, strings.Count(f.logs.String(), "navigation handler failed"))
	assert.Contains(t, f.logs.String(), "backend down")
}

func TestPopStateProducesTraverse(t *testing.T) {
	f := newFixture(t)
	var types []Type
	var paths []string
	f.nav.OnNavigate(func(e *NavigateEvent) {
		types = append(types, e.NavigationType)
		paths = append(paths, e.Destination.Path)
		e.Intercept(&InterceptOptions{Handler: func(context.Context) error { return nil }})
	})

	f.click("label", dom.MouseDetail{})
	f.win.History().Back()
	f.q.Settle()

	assert.Equal(t, []Type{Push, Traverse}, types)
	assert.Equal(t, []string{"/action/movie/42", "/action/"}, paths)
	assert.Equal(t, 2, f.win.History().Length())
}

func TestProgrammaticNavigate(t *testing.T) {
	f := newFixture(t)
	remove := f.nav.OnNavigate(func(e *NavigateEvent) {
		if e.Destination.Path == "/action/movie/7" {
			e.Intercept(nil)
		}
	})

	assert.True(t, f.nav.Navigate(&url.URL{Path: "/action/movie/7"}))
	assert.Equal(t, "/action/movie/7", f.win.Location().Path)

	assert.False(t, f.nav.Navigate(&url.URL{Path: "/home/"}))
	assert.Equal(t, []string{"https://app.test/home/"}, f.win.Loads())

	remove()
	assert.False(t, f.nav.Navigate(&url.URL{Path: "/action/movie/7"}))
}

func TestCloseDetaches(t *testing.T) {
	f := newFixture(t)
	intents := 0
	f.nav.OnNavigate(func(*NavigateEvent) { intents++ })
	f.nav.Close()

	f.click("label", dom.MouseDetail{})
	assert.Zero(t, intents)
}

type nativeWindow struct {
	*memdom.Window
	nav Navigation
}

func (w nativeWindow) Navigation() (Navigation, bool) { return w.nav, w.nav != nil }

func TestInstallPrefersNative(t *testing.T) {
	win := memdom.MustWindow("https://app.test/", page)
	q := loop.NewManual()

	native := NewPolyfill(memdom.MustWindow("https://other.test/", page), q)
	assert.Same(t, native, Install(nativeWindow{Window: win, nav: native}, q))

	fallback := Install(nativeWindow{Window: win}, q)
	_, ok := fallback.(*Polyfill)
	assert.True(t, ok)
	assert.NotSame(t, native, fallback)
}
