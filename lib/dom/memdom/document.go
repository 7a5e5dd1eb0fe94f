// Package memdom is an in-memory implementation of the dom interfaces,
// built on golang.org/x/net/html. It backs the test harness and lets the
// shell render pages outside a browser.
package memdom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pthm/pwashell/lib/dom"
)

type entry struct {
	fn      dom.Listener
	removed bool
}

type listenerSet map[string][]*entry

func (s listenerSet) add(typ string, fn dom.Listener) func() {
	e := &entry{fn: fn}
	s[typ] = append(s[typ], e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		list := s[typ]
		for i, cur := range list {
			if cur == e {
				s[typ] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (s listenerSet) fire(e *dom.Event) {
	list := append([]*entry(nil), s[e.Type]...)
	for _, l := range list {
		if !l.removed {
			l.fn(e)
		}
	}
}

// Document is an in-memory page.
type Document struct {
	root      *html.Node
	window    *Window
	elements  map[*html.Node]*Element
	shadows   map[*html.Node]*ShadowRoot
	hosts     map[*html.Node]*html.Node
	listeners map[*html.Node]listenerSet
}

var _ dom.Document = (*Document)(nil)

// NewDocument creates an empty document with head and body.
func NewDocument() *Document {
	doc, err := ParseDocument("<!DOCTYPE html><html><head></head><body></body></html>")
	if err != nil {
		panic(fmt.Sprintf("memdom: %v", err))
	}
	return doc
}

// ParseDocument parses a full HTML page.
func ParseDocument(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("memdom: parse document: %w", err)
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		shadows:   make(map[*html.Node]*ShadowRoot),
		hosts:     make(map[*html.Node]*html.Node),
		listeners: make(map[*html.Node]listenerSet),
	}, nil
}

// AddEventListener implements dom.EventTarget.
func (d *Document) AddEventListener(typ string, fn dom.Listener) func() {
	return d.listenersOf(d.root).add(typ, fn)
}

// DispatchEvent implements dom.EventTarget.
func (d *Document) DispatchEvent(e *dom.Event) bool {
	return d.dispatch(d.root, e)
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() dom.Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return d.element(c)
		}
	}
	return nil
}

// Body returns the <body> element.
func (d *Document) Body() dom.Element {
	if n := findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Body }); n != nil {
		return d.element(n)
	}
	return nil
}

// ElementsByTagName implements dom.Document.
func (d *Document) ElementsByTagName(tag string) []dom.Element {
	return d.byTag(d.root, tag)
}

// ElementByID implements dom.Document.
func (d *Document) ElementByID(id string) dom.Element {
	n := findFirst(d.root, func(n *html.Node) bool {
		v, ok := attr(n, "id")
		return ok && v == id
	})
	if n == nil {
		return nil
	}
	return d.element(n)
}

// Render serializes the whole document.
func (d *Document) Render() string {
	var sb strings.Builder
	_ = html.Render(&sb, d.root)
	return sb.String()
}

func (d *Document) element(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, n: n}
	d.elements[n] = el
	return el
}

func (d *Document) listenersOf(n *html.Node) listenerSet {
	s, ok := d.listeners[n]
	if !ok {
		s = make(listenerSet)
		d.listeners[n] = s
	}
	return s
}

func (d *Document) target(n *html.Node) dom.EventTarget {
	switch {
	case n == d.root:
		return d
	case n.Type == html.ElementNode && d.hosts[n] != nil:
		return d.shadows[d.hosts[n]]
	default:
		return d.element(n)
	}
}

// dispatch walks from n to the document, crossing shadow boundaries to
// the host, then to the window.
func (d *Document) dispatch(n *html.Node, e *dom.Event) bool {
	e.SetTarget(d.target(n))
	for cur := n; cur != nil; {
		if s, ok := d.listeners[cur]; ok {
			e.SetCurrentTarget(d.target(cur))
			s.fire(e)
		}
		if !e.Bubbles || e.PropagationStopped() {
			return !e.DefaultPrevented()
		}
		switch {
		case cur.Parent != nil:
			cur = cur.Parent
		case d.hosts[cur] != nil:
			cur = d.hosts[cur]
		default:
			cur = nil
		}
	}
	if d.window != nil {
		e.SetCurrentTarget(d.window)
		d.window.listeners.fire(e)
	}
	return !e.DefaultPrevented()
}

// forget drops bookkeeping for a detached subtree.
func (d *Document) forget(n *html.Node) {
	walk(n, func(c *html.Node) {
		delete(d.elements, c)
		delete(d.listeners, c)
		if sr, ok := d.shadows[c]; ok {
			d.forget(sr.n)
			delete(d.hosts, sr.n)
			delete(d.shadows, c)
		}
	})
}

func (d *Document) byTag(n *html.Node, tag string) []dom.Element {
	tag = strings.ToLower(tag)
	var out []dom.Element
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(x *html.Node) {
			if x.Type == html.ElementNode && x.Data == tag {
				out = append(out, d.element(x))
			}
		})
	}
	return out
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
