package memdom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pthm/pwashell/lib/dom"
)

// Element is an element of a Document.
type Element struct {
	doc *Document
	n   *html.Node
}

var _ dom.Element = (*Element)(nil)

// AddEventListener implements dom.EventTarget.
func (el *Element) AddEventListener(typ string, fn dom.Listener) func() {
	return el.doc.listenersOf(el.n).add(typ, fn)
}

// DispatchEvent implements dom.EventTarget.
func (el *Element) DispatchEvent(e *dom.Event) bool {
	return el.doc.dispatch(el.n, e)
}

// InnerHTML implements dom.Root.
func (el *Element) InnerHTML() string { return innerHTML(el.n) }

// SetInnerHTML implements dom.Root.
func (el *Element) SetInnerHTML(markup string) error {
	return setContent(el.doc, el.n, el.n, markup, true)
}

// AppendHTML implements dom.Root.
func (el *Element) AppendHTML(markup string) error {
	return setContent(el.doc, el.n, el.n, markup, false)
}

// TagName returns the lower-case tag name.
func (el *Element) TagName() string { return el.n.Data }

// Attribute implements dom.Element.
func (el *Element) Attribute(name string) (string, bool) { return attr(el.n, name) }

// SetAttribute implements dom.Element.
func (el *Element) SetAttribute(name, value string) {
	for i, a := range el.n.Attr {
		if a.Namespace == "" && a.Key == name {
			el.n.Attr[i].Val = value
			return
		}
	}
	el.n.Attr = append(el.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute implements dom.Element.
func (el *Element) RemoveAttribute(name string) {
	for i, a := range el.n.Attr {
		if a.Namespace == "" && a.Key == name {
			el.n.Attr = append(el.n.Attr[:i], el.n.Attr[i+1:]...)
			return
		}
	}
}

// Parent implements dom.Element.
func (el *Element) Parent() dom.Element {
	p := el.n.Parent
	if p == nil || p.Type != html.ElementNode || el.doc.hosts[p] != nil {
		return nil
	}
	return el.doc.element(p)
}

// Closest implements dom.Element.
func (el *Element) Closest(tag string) dom.Element {
	tag = strings.ToLower(tag)
	for cur := el.n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if el.doc.hosts[cur] != nil {
			return nil
		}
		if cur.Data == tag {
			return el.doc.element(cur)
		}
	}
	return nil
}

// ElementsByTagName implements dom.Element.
func (el *Element) ElementsByTagName(tag string) []dom.Element {
	return el.doc.byTag(el.n, tag)
}

// AttachShadow implements dom.Element.
func (el *Element) AttachShadow() dom.Root {
	if sr, ok := el.doc.shadows[el.n]; ok {
		return sr
	}
	sr := &ShadowRoot{
		doc:  el.doc,
		n:    &html.Node{Type: html.ElementNode, Data: "#shadow-root"},
		host: el,
	}
	el.doc.shadows[el.n] = sr
	el.doc.hosts[sr.n] = el.n
	return sr
}

// ShadowRoot implements dom.Element.
func (el *Element) ShadowRoot() dom.Root {
	if sr, ok := el.doc.shadows[el.n]; ok {
		return sr
	}
	return nil
}

// String renders the element itself, for debugging.
func (el *Element) String() string {
	var sb strings.Builder
	_ = html.Render(&sb, el.n)
	return sb.String()
}

// ShadowRoot is an isolated render root attached to a host element.
type ShadowRoot struct {
	doc  *Document
	n    *html.Node
	host *Element
}

var _ dom.Root = (*ShadowRoot)(nil)

// Host returns the element the root is attached to.
func (sr *ShadowRoot) Host() dom.Element { return sr.host }

// AddEventListener implements dom.EventTarget.
func (sr *ShadowRoot) AddEventListener(typ string, fn dom.Listener) func() {
	return sr.doc.listenersOf(sr.n).add(typ, fn)
}

// DispatchEvent implements dom.EventTarget.
func (sr *ShadowRoot) DispatchEvent(e *dom.Event) bool {
	return sr.doc.dispatch(sr.n, e)
}

// InnerHTML implements dom.Root.
func (sr *ShadowRoot) InnerHTML() string { return innerHTML(sr.n) }

// SetInnerHTML implements dom.Root.
func (sr *ShadowRoot) SetInnerHTML(markup string) error {
	return setContent(sr.doc, sr.n, fragmentContext(), markup, true)
}

// AppendHTML implements dom.Root.
func (sr *ShadowRoot) AppendHTML(markup string) error {
	return setContent(sr.doc, sr.n, fragmentContext(), markup, false)
}

// ElementsByTagName returns elements inside the root.
func (sr *ShadowRoot) ElementsByTagName(tag string) []dom.Element {
	return sr.doc.byTag(sr.n, tag)
}

func fragmentContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
}

func innerHTML(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

func setContent(doc *Document, n, context *html.Node, markup string, replace bool) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("memdom: parse fragment: %w", err)
	}
	if replace {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			doc.forget(c)
			c = next
		}
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}
