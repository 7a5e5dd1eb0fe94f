//go:build js && wasm

package jsdom

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/pthm/pwashell/lib/dom"
)

const (
	idProp     = "__pwashellID"
	detailProp = "__pwashellDetail"
)

// Node types of the DOM standard.
const (
	nodeElement  = 1
	nodeDocument = 9
	nodeFragment = 11
)

// realm keeps one wrapper per JavaScript node, so wrappers can be
// compared and used as map keys.
type realm struct {
	win      *Window
	doc      *Document
	nextID   int
	elements map[int]*Element
	details  map[int]*dom.Event
}

func newRealm() *realm {
	return &realm{
		elements: make(map[int]*Element),
		details:  make(map[int]*dom.Event),
	}
}

func (r *realm) id(v js.Value) int {
	id := v.Get(idProp)
	if id.Type() == js.TypeNumber {
		return id.Int()
	}
	r.nextID++
	v.Set(idProp, r.nextID)
	return r.nextID
}

// element returns the wrapper of v, or nil.
func (r *realm) element(v js.Value) *Element {
	if !v.Truthy() {
		return nil
	}
	id := r.id(v)
	if el, ok := r.elements[id]; ok {
		return el
	}
	el := &Element{target: newTarget(r, v), r: r}
	el.target.self = el
	r.elements[id] = el
	return el
}

// wrap returns the event target for v.
func (r *realm) wrap(v js.Value) dom.EventTarget {
	if !v.Truthy() {
		return nil
	}
	if v.Equal(js.Global()) {
		return r.win
	}
	switch v.Get("nodeType").Int() {
	case nodeElement:
		return r.element(v)
	case nodeDocument:
		return r.doc
	case nodeFragment:
		if host := r.element(v.Get("host")); host != nil {
			return host.ShadowRoot()
		}
	}
	return nil
}

func (r *realm) elementList(coll js.Value) []dom.Element {
	n := coll.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.element(coll.Index(i)))
	}
	return out
}

// catch converts a JavaScript exception thrown by fn into an error.
func catch(fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if jsErr, ok := rec.(js.Error); ok {
				err = fmt.Errorf("jsdom: %s", jsErr.Error())
				return
			}
			panic(rec)
		}
	}()
	fn()
	return nil
}

func lower(v js.Value) string { return strings.ToLower(v.String()) }
