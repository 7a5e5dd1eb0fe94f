//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/pthm/pwashell/lib/dom"
)

// Element wraps a browser element.
type Element struct {
	*target
	r      *realm
	shadow *ShadowRoot
}

var _ dom.Element = (*Element)(nil)

// Value returns the underlying JavaScript element.
func (el *Element) Value() js.Value { return el.v }

func (el *Element) InnerHTML() string { return el.v.Get("innerHTML").String() }

func (el *Element) SetInnerHTML(markup string) error {
	return catch(func() { el.v.Set("innerHTML", markup) })
}

func (el *Element) AppendHTML(markup string) error {
	return catch(func() { el.v.Call("insertAdjacentHTML", "beforeend", markup) })
}

func (el *Element) TagName() string { return lower(el.v.Get("tagName")) }

func (el *Element) Attribute(name string) (string, bool) {
	if !el.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return el.v.Call("getAttribute", name).String(), true
}

func (el *Element) SetAttribute(name, value string) { el.v.Call("setAttribute", name, value) }

func (el *Element) RemoveAttribute(name string) { el.v.Call("removeAttribute", name) }

func (el *Element) Parent() dom.Element {
	if p := el.r.element(el.v.Get("parentElement")); p != nil {
		return p
	}
	return nil
}

func (el *Element) Closest(tag string) dom.Element {
	if c := el.r.element(el.v.Call("closest", tag)); c != nil {
		return c
	}
	return nil
}

func (el *Element) ElementsByTagName(tag string) []dom.Element {
	return el.r.elementList(el.v.Call("getElementsByTagName", tag))
}

// AttachShadow implements dom.Element with an open shadow root.
func (el *Element) AttachShadow() dom.Root {
	if root := el.ShadowRoot(); root != nil {
		return root
	}
	v := el.v.Call("attachShadow", map[string]any{"mode": "open"})
	el.shadow = &ShadowRoot{target: newTarget(el.r, v)}
	el.shadow.self = el.shadow
	return el.shadow
}

func (el *Element) ShadowRoot() dom.Root {
	if el.shadow == nil {
		v := el.v.Get("shadowRoot")
		if !v.Truthy() {
			return nil
		}
		el.shadow = &ShadowRoot{target: newTarget(el.r, v)}
		el.shadow.self = el.shadow
	}
	return el.shadow
}

// ShadowRoot wraps an open shadow root.
type ShadowRoot struct {
	*target
}

var _ dom.Root = (*ShadowRoot)(nil)

func (s *ShadowRoot) InnerHTML() string { return s.v.Get("innerHTML").String() }

func (s *ShadowRoot) SetInnerHTML(markup string) error {
	return catch(func() { s.v.Set("innerHTML", markup) })
}

// AppendHTML parses markup in a template, since shadow roots have no
// insertAdjacentHTML.
func (s *ShadowRoot) AppendHTML(markup string) error {
	return catch(func() {
		tpl := js.Global().Get("document").Call("createElement", "template")
		tpl.Set("innerHTML", markup)
		s.v.Call("append", tpl.Get("content"))
	})
}

// Document wraps window.document.
type Document struct {
	*target
	r *realm
}

var _ dom.Document = (*Document)(nil)

func (d *Document) DocumentElement() dom.Element {
	return d.r.element(d.v.Get("documentElement"))
}

func (d *Document) Body() dom.Element { return d.r.element(d.v.Get("body")) }

func (d *Document) ElementsByTagName(tag string) []dom.Element {
	return d.r.elementList(d.v.Call("getElementsByTagName", tag))
}

func (d *Document) ElementByID(id string) dom.Element {
	if el := d.r.element(d.v.Call("getElementById", id)); el != nil {
		return el
	}
	return nil
}
