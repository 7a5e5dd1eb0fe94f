// Package pwashell is the app shell of a multi-page progressive web app:
// custom-element components with observable state, skeleton-aware
// rendering and client-side routing on top of the Navigation API.
//
// # Components
//
// Components embed *Component and are defined on a Registry by tag name.
// Upgrade binds a fresh component to every matching element and connects
// it:
//
//	type TodoApp struct {
//	    *pwashell.Component
//	}
//
//	reg := pwashell.NewRegistry()
//	reg.Define("todo-app", func() pwashell.Base {
//	    return &TodoApp{Component: pwashell.New("todo-app", pwashell.RerenderOnChange())}
//	})
//	reg.Upgrade(ctx, app, app.Window().Document())
//
// What a component does is discovered when it is bound, from the
// interfaces it implements:
//   - Renderer: Render(ctx) returns the templ.Component to inject
//   - Skeletoner: Skeleton() declares placeholder markup for slow renders
//   - RenderedHook: Rendered(ctx) runs after content is injected
//   - Initializer: Init(ctx) runs once, after binding
//   - Routable: Routes() declares client-side routes
//   - Disconnector: Disconnected() runs when the element leaves the page
//
// # Rendering
//
// Templ rendering runs off the UI loop. A component declaring a skeleton
// starts rendering after RenderDelay; if the result is not ready within
// SkeletonGrace the skeleton is shown until it is. Components without a
// skeleton render immediately.
//
// # State
//
// Each component owns a state tree (lib/state). Every mutation dispatches
// one bubbling "state-change" event on the host element carrying the full
// path of the change. With RerenderOnChange the component rerenders once
// per loop turn after changes.
//
// # Routing
//
// A Routable component claims navigations whose path starts with one of
// its route prefixes; the longest prefix wins. The claimed navigation
// shows the skeleton at once, runs the route handler off the loop and
// swaps the result in inside a view transition. A failing handler is
// logged once and the previous content comes back.
//
// Navigation is resolved once per App: the host's native implementation
// when it has one, lib/navigation's polyfill otherwise.
//
// # Communication
//
// Components talk through the App's Bus. Notifications are one such
// category:
//
//	pwashell.Notify(c.App().Bus(), pwashell.NotifySuccess, "Saved")
//
// # Threading
//
// Everything touching the document or component state runs on the UI
// loop (lib/loop). Tests drive a loop.Manual in virtual time; see
// NewTestHarness.
package pwashell
