package pwashell

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/pthm/pwashell/lib/dom/memdom"
	"github.com/pthm/pwashell/lib/encoding"
	"github.com/pthm/pwashell/lib/i18n"
	"github.com/pthm/pwashell/lib/settings"
)

func TestAnimationsFollowReducedMotion(t *testing.T) {
	h := NewTestHarness(WithWindowOptions(memdom.WithMedia("(prefers-reduced-motion: reduce)", true)))
	assert.False(t, h.App.UseAnimations())

	h = NewTestHarness()
	assert.True(t, h.App.UseAnimations())
}

func TestStoredAnimationPreferenceWins(t *testing.T) {
	h := NewTestHarness(
		WithStorage(map[string]string{"use-animations": "1"}),
		WithWindowOptions(memdom.WithMedia("(prefers-reduced-motion: reduce)", true)),
	)
	assert.True(t, h.App.UseAnimations())

	h.App.SetUseAnimations(false)
	v, _ := h.Window.LocalStorage().GetItem("use-animations")
	assert.Equal(t, "0", v)
	attr, _ := h.Window.Document().DocumentElement().Attribute("data-use-animations")
	assert.Equal(t, "0", attr)
}

func TestViewTransitionFallsBackToImmediateUpdate(t *testing.T) {
	h := NewTestHarness()
	ran := false
	h.App.StartViewTransition(func() { ran = true })
	assert.True(t, ran)
	assert.Zero(t, h.Window.Transitions())

	h = NewTestHarness(WithWindowOptions(memdom.WithViewTransitions()))
	h.App.StartViewTransition(func() {})
	assert.Equal(t, 1, h.Window.Transitions())
}

func TestAppearance(t *testing.T) {
	h := NewTestHarness(WithWindowOptions(memdom.WithMedia("(prefers-color-scheme: dark)", true)))
	assert.Equal(t, AppearanceSystem, h.App.Appearance())
	assert.Equal(t, AppearanceDark, h.App.ColorScheme())

	h.App.SetAppearance(AppearanceLight)
	assert.Equal(t, AppearanceLight, h.App.Appearance())
	assert.Equal(t, AppearanceLight, h.App.ColorScheme())
	v, ok := h.Window.LocalStorage().GetItem("appearance")
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	h.App.SetAppearance(AppearanceSystem)
	_, ok = h.Window.LocalStorage().GetItem("appearance")
	assert.False(t, ok)
	assert.Equal(t, AppearanceDark, h.App.ColorScheme())
}

func TestStoredAppearanceIsApplied(t *testing.T) {
	h := NewTestHarness(WithStorage(map[string]string{"appearance": "dark"}))
	root := h.Window.Document().DocumentElement()
	v, _ := root.Attribute("data-color-scheme")
	assert.Equal(t, "dark", v)
}

func TestPageSettings(t *testing.T) {
	s, err := settings.Parse(`
routes:
  /action/:
    card:
      title: Movies
      index: 2
`)
	require.NoError(t, err)
	h := NewTestHarness(
		WithMarkup(`<html data-url="/action/"><body></body></html>`),
		WithAppOptions(WithSettings(s)),
	)

	page := h.App.PageSettings()
	assert.Equal(t, "/action/", page.URL)
	var card settings.Card
	require.NoError(t, page.Decode("card", &card))
	assert.Equal(t, "Movies", card.Title)
}

func TestLanguageIsRestoredAndStored(t *testing.T) {
	loc, err := i18n.Parse(language.English, `
de:
  Task added: Aufgabe hinzugefügt
`)
	require.NoError(t, err)
	h := NewTestHarness(
		WithStorage(map[string]string{"language": "de"}),
		WithAppOptions(WithLocalizer(loc)),
	)
	assert.Equal(t, "Aufgabe hinzugefügt", h.App.Localize("Task added"))

	h.App.SetLanguage("en")
	v, _ := h.Window.LocalStorage().GetItem("language")
	assert.Equal(t, "en", v)
	assert.Equal(t, "Task added", h.App.Localize("Task added"))
}

func TestNavigationIsResolvedOnce(t *testing.T) {
	h := NewTestHarness()
	assert.Same(t, h.App.Navigation(), h.App.Navigation())
}

func TestLocalStoreRequiresCodec(t *testing.T) {
	h := NewTestHarness()
	_, err := h.App.LocalStore(encoding.Signed)
	assert.Error(t, err)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	codec, err := encoding.NewCodec([]byte("test-key"))
	require.NoError(t, err)
	h := NewTestHarness(WithAppOptions(WithCodec(codec)))
	store, err := h.App.LocalStore(encoding.Sealed)
	require.NoError(t, err)

	type item struct {
		Title string
		Done  bool
	}
	require.NoError(t, store.Save("todos", []item{{"milk", false}, {"eggs", true}}))

	var got []item
	ok, err := store.Load("todos", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []item{{"milk", false}, {"eggs", true}}, got)

	raw, _ := h.Window.LocalStorage().GetItem("todos")
	assert.False(t, strings.Contains(raw, "milk"), "sealed values must be opaque")

	store.Remove("todos")
	ok, err = store.Load("todos", &got)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStoreRejectsTamperedValue(t *testing.T) {
	codec, err := encoding.NewCodec([]byte("test-key"))
	require.NoError(t, err)
	h := NewTestHarness(WithAppOptions(WithCodec(codec)))
	store, err := h.App.LocalStore(encoding.Signed)
	require.NoError(t, err)

	h.Window.LocalStorage().SetItem("todos", "garbage")
	var got []string
	ok, err := store.Load("todos", &got)
	assert.False(t, ok)
	assert.True(t, IsDecodeError(err))
}

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	h := NewTestHarness()
	var got []string
	h.App.Bus().Subscribe("ping", func(p any) { got = append(got, "a:"+p.(string)) })
	remove := h.App.Bus().Subscribe("ping", func(p any) { got = append(got, "b:"+p.(string)) })

	h.App.Bus().Dispatch("ping", "1")
	remove()
	h.App.Bus().Dispatch("ping", "2")
	h.App.Bus().Dispatch("other", "3")

	assert.Equal(t, []string{"a:1", "b:1", "a:2"}, got)
}

func TestTypedSubscribeIgnoresOtherPayloads(t *testing.T) {
	h := NewTestHarness()
	var got []Notification
	Subscribe(h.App.Bus(), NotificationCategory, func(n Notification) { got = append(got, n) })

	h.App.Bus().Dispatch(NotificationCategory, "not a notification")
	Notify(h.App.Bus(), "", "Saved")
	Notify(h.App.Bus(), NotifyError, "Failed")

	assert.Equal(t, []Notification{{NotifyInfo, "Saved"}, {NotifyError, "Failed"}}, got)
}

func TestReportUnhandledIgnoresNil(t *testing.T) {
	h := NewTestHarness()
	h.App.ReportUnhandled(nil)
	assert.Empty(t, h.Unhandled())
	assert.Empty(t, h.LogLines("ERROR"))
}
