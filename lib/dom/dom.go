// Package dom defines the host surface the shell renders into.
//
// The interfaces mirror the small slice of the browser DOM the core needs:
// event targets with bubbling, elements with markup-based content, an
// isolated (shadow) render root, history, storage and media queries. The
// memdom package implements them in memory on golang.org/x/net/html; the
// js driver implements them on the real browser through syscall/js.
//
// Implementations are not safe for concurrent use. Everything runs on the
// UI loop.
package dom

import "net/url"

// Listener handles a dispatched event.
type Listener func(*Event)

// EventTarget receives listeners and dispatches events to them.
type EventTarget interface {
	// AddEventListener registers fn for events of type typ. The returned
	// function removes the registration.
	AddEventListener(typ string, fn Listener) (remove func())

	// DispatchEvent delivers e to this target and, when e.Bubbles, to its
	// ancestors. It returns false if a listener called PreventDefault.
	DispatchEvent(e *Event) bool
}

// Root is something content can be rendered into: an element or an
// isolated render root attached to one.
type Root interface {
	EventTarget

	// InnerHTML serializes the current content.
	InnerHTML() string

	// SetInnerHTML parses markup and replaces the content with it.
	SetInnerHTML(markup string) error

	// AppendHTML parses markup and appends the resulting nodes.
	AppendHTML(markup string) error
}

// Element is a node in the document tree.
type Element interface {
	Root

	TagName() string
	Attribute(name string) (string, bool)
	SetAttribute(name, value string)
	RemoveAttribute(name string)

	// Parent returns the parent element, or nil at the top of the tree.
	Parent() Element

	// Closest returns the nearest inclusive ancestor with the given tag
	// name, or nil.
	Closest(tag string) Element

	// ElementsByTagName returns descendants with the given tag name in
	// document order.
	ElementsByTagName(tag string) []Element

	// AttachShadow creates the isolated render root for this element. A
	// second call returns the existing root.
	AttachShadow() Root

	// ShadowRoot returns the isolated render root, or nil.
	ShadowRoot() Root
}

// Document is the page.
type Document interface {
	EventTarget

	DocumentElement() Element
	Body() Element
	ElementsByTagName(tag string) []Element
	ElementByID(id string) Element
}

// History is the session history of the window.
type History interface {
	// PushState adds an entry for u and makes it current without loading it.
	PushState(u *url.URL)

	// ReplaceState replaces the current entry.
	ReplaceState(u *url.URL)

	// Back moves to the previous entry and fires popstate on the window.
	Back()

	// Forward moves to the next entry and fires popstate on the window.
	Forward()

	Length() int
}

// Storage is the window's persistent key/value storage.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
	RemoveItem(key string)
}

// Window is the top-level browsing context.
type Window interface {
	EventTarget

	Document() Document

	// Location returns a copy of the current URL.
	Location() *url.URL

	History() History
	LocalStorage() Storage

	// MatchMedia reports whether the media query matches.
	MatchMedia(query string) bool

	// StartViewTransition runs update inside an animated view transition.
	// It returns false, without calling update, if the host has no view
	// transition support.
	StartViewTransition(update func()) bool

	// Assign performs a full page navigation to u.
	Assign(u *url.URL)
}
