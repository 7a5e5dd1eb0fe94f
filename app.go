package pwashell

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/pthm/pwashell/lib/dom"
	"github.com/pthm/pwashell/lib/encoding"
	"github.com/pthm/pwashell/lib/i18n"
	"github.com/pthm/pwashell/lib/loop"
	"github.com/pthm/pwashell/lib/navigation"
	"github.com/pthm/pwashell/lib/settings"
)

// TracerName is the instrumentation scope of the shell's spans.
const TracerName = "github.com/pthm/pwashell"

// Storage keys and media queries used by the app.
const (
	storageAnimations = "use-animations"
	storageAppearance = "appearance"

	mediaReducedMotion = "(prefers-reduced-motion: reduce)"
	mediaDark          = "(prefers-color-scheme: dark)"
)

// Appearance is the user's light/dark preference.
type Appearance string

const (
	AppearanceSystem Appearance = "system-default"
	AppearanceLight  Appearance = "light"
	AppearanceDark   Appearance = "dark"
)

// App is the page-wide context shared by every component: window, loop,
// navigation, settings, localization and the message bus.
type App struct {
	win       dom.Window
	queue     loop.Queue
	logger    *slog.Logger
	tracer    trace.Tracer
	nav       navigation.Navigation
	settings  *settings.Settings
	localizer *i18n.Localizer
	codec     *encoding.Codec
	bus       *Bus
	unhandled func(error)
}

// AppOption configures an App.
type AppOption func(*App)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) { a.logger = l }
}

// WithTracerProvider sets the tracer provider for navigation spans. The
// default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) AppOption {
	return func(a *App) { a.tracer = tp.Tracer(TracerName) }
}

// WithNavigation supplies the navigation capability instead of resolving
// it from the window.
func WithNavigation(nav navigation.Navigation) AppOption {
	return func(a *App) { a.nav = nav }
}

// WithSettings sets the application settings.
func WithSettings(s *settings.Settings) AppOption {
	return func(a *App) { a.settings = s }
}

// WithLocalizer sets the localizer.
func WithLocalizer(l *i18n.Localizer) AppOption {
	return func(a *App) { a.localizer = l }
}

// WithCodec sets the codec local stores use.
func WithCodec(c *encoding.Codec) AppOption {
	return func(a *App) { a.codec = c }
}

// WithUnhandled adds a sink for errors nothing else handles. They are
// always logged.
func WithUnhandled(fn func(error)) AppOption {
	return func(a *App) { a.unhandled = fn }
}

// NewApp creates the app for win. Navigation is resolved exactly once
// here: the window's native implementation when available, the polyfill
// otherwise. Appearance, animation and language preferences are applied
// to the document.
func NewApp(win dom.Window, q loop.Queue, opts ...AppOption) *App {
	a := &App{win: win, queue: q}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.tracer == nil {
		a.tracer = otel.GetTracerProvider().Tracer(TracerName)
	}
	if a.settings == nil {
		a.settings = &settings.Settings{Routes: map[string]map[string]any{}}
	}
	if a.localizer == nil {
		a.localizer, _ = i18n.New(language.English)
	}
	if a.nav == nil {
		a.nav = navigation.Install(win, q, navigation.WithLogger(a.logger))
	}
	a.bus = NewBus(win)

	a.applyAppearance()
	a.applyAnimations()
	if lang, ok := win.LocalStorage().GetItem(i18n.StorageKey); ok {
		a.localizer.SetLanguage(lang)
	}
	return a
}

func (a *App) Window() dom.Window                { return a.win }
func (a *App) Queue() loop.Queue                 { return a.queue }
func (a *App) Logger() *slog.Logger              { return a.logger }
func (a *App) Tracer() trace.Tracer              { return a.tracer }
func (a *App) Navigation() navigation.Navigation { return a.nav }
func (a *App) Settings() *settings.Settings      { return a.settings }
func (a *App) Localizer() *i18n.Localizer        { return a.localizer }
func (a *App) Bus() *Bus                         { return a.bus }

// PageSettings returns the settings of the page, identified by the
// document element's data-url attribute.
func (a *App) PageSettings() settings.PageSettings {
	url, _ := a.win.Document().DocumentElement().Attribute("data-url")
	return a.settings.Page(url)
}

// Localize translates s into the active language.
func (a *App) Localize(s string) string { return a.localizer.Localize(s) }

// SetLanguage activates and remembers the preferred language.
func (a *App) SetLanguage(pref string) language.Tag {
	tag := a.localizer.SetLanguage(pref)
	a.win.LocalStorage().SetItem(i18n.StorageKey, tag.String())
	return tag
}

// UseAnimations reports whether view transitions are animated.
func (a *App) UseAnimations() bool {
	v, _ := a.root().Attribute("data-use-animations")
	return v != "0"
}

// SetUseAnimations changes and remembers the animation preference.
func (a *App) SetUseAnimations(on bool) {
	v := "0"
	if on {
		v = "1"
	}
	a.root().SetAttribute("data-use-animations", v)
	a.win.LocalStorage().SetItem(storageAnimations, v)
}

// applyAnimations uses the stored preference, or the reduced-motion
// media query when none is stored.
func (a *App) applyAnimations() {
	v, ok := a.win.LocalStorage().GetItem(storageAnimations)
	if !ok {
		a.SetUseAnimations(!a.win.MatchMedia(mediaReducedMotion))
		return
	}
	a.SetUseAnimations(v != "0")
}

// Appearance returns the appearance preference.
func (a *App) Appearance() Appearance {
	v, ok := a.root().Attribute("data-appearance")
	if !ok {
		return AppearanceSystem
	}
	return Appearance(v)
}

// SetAppearance changes and remembers the appearance preference. The
// color scheme follows it, or the system when it is AppearanceSystem.
func (a *App) SetAppearance(ap Appearance) {
	root := a.root()
	root.SetAttribute("data-appearance", string(ap))
	if ap == AppearanceSystem {
		a.win.LocalStorage().RemoveItem(storageAppearance)
		root.SetAttribute("data-color-scheme", string(a.systemScheme()))
		return
	}
	a.win.LocalStorage().SetItem(storageAppearance, string(ap))
	root.SetAttribute("data-color-scheme", string(ap))
}

// ColorScheme returns the effective scheme, light or dark.
func (a *App) ColorScheme() Appearance {
	if v, ok := a.root().Attribute("data-color-scheme"); ok {
		return Appearance(v)
	}
	return a.systemScheme()
}

func (a *App) applyAppearance() {
	saved, ok := a.win.LocalStorage().GetItem(storageAppearance)
	if !ok {
		saved = string(AppearanceSystem)
	}
	a.SetAppearance(Appearance(saved))
}

func (a *App) systemScheme() Appearance {
	if a.win.MatchMedia(mediaDark) {
		return AppearanceDark
	}
	return AppearanceLight
}

// StartViewTransition runs update inside an animated view transition when
// animations are enabled and the host supports them, and immediately
// otherwise.
func (a *App) StartViewTransition(update func()) {
	if a.UseAnimations() && a.win.StartViewTransition(update) {
		return
	}
	update()
}

// ReportUnhandled receives errors no caller handles, such as render
// failures. They are logged at error level and passed to the sink set
// with WithUnhandled.
func (a *App) ReportUnhandled(err error) {
	if err == nil {
		return
	}
	a.logger.Error("unhandled error", "error", err)
	if a.unhandled != nil {
		a.unhandled(err)
	}
}

// LocalStore returns a store persisting values in the window's local
// storage. It fails if the app has no codec.
func (a *App) LocalStore(mode encoding.Mode) (*LocalStore, error) {
	if a.codec == nil {
		return nil, errNoCodec
	}
	return NewLocalStore(a.win.LocalStorage(), a.codec, mode), nil
}

func (a *App) root() dom.Element { return a.win.Document().DocumentElement() }
