//go:build js && wasm

package jsdom

import (
	"syscall/js"

	"github.com/pthm/pwashell/lib/dom"
)

type listener struct{ fn dom.Listener }

// target bridges one JavaScript event target. A single JavaScript
// listener per event type fans out to the Go listeners.
type target struct {
	r         *realm
	v         js.Value
	self      dom.EventTarget
	listeners map[string][]*listener
	bridges   map[string]js.Func
}

func newTarget(r *realm, v js.Value) *target {
	return &target{
		r:         r,
		v:         v,
		listeners: make(map[string][]*listener),
		bridges:   make(map[string]js.Func),
	}
}

// AddEventListener implements dom.EventTarget.
func (t *target) AddEventListener(typ string, fn dom.Listener) func() {
	l := &listener{fn: fn}
	t.listeners[typ] = append(t.listeners[typ], l)
	if _, ok := t.bridges[typ]; !ok {
		bridge := js.FuncOf(func(this js.Value, args []js.Value) any {
			t.fire(typ, args[0])
			return nil
		})
		t.bridges[typ] = bridge
		t.v.Call("addEventListener", typ, bridge)
	}
	return func() { t.remove(typ, l) }
}

func (t *target) remove(typ string, l *listener) {
	ls := t.listeners[typ]
	for i, x := range ls {
		if x == l {
			t.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(t.listeners[typ]) > 0 {
		return
	}
	delete(t.listeners, typ)
	if bridge, ok := t.bridges[typ]; ok {
		t.v.Call("removeEventListener", typ, bridge)
		bridge.Release()
		delete(t.bridges, typ)
	}
}

// DispatchEvent implements dom.EventTarget. The event is dispatched in
// the browser, so JavaScript listeners see it too; Go listeners receive
// e itself.
func (t *target) DispatchEvent(e *dom.Event) bool {
	e.SetTarget(t.self)
	id := t.r.nextDetail(e)
	defer delete(t.r.details, id)

	init := map[string]any{"bubbles": e.Bubbles, "cancelable": true}
	if s, ok := e.Detail.(string); ok {
		init["detail"] = s
	}
	evt := js.Global().Get("CustomEvent").New(e.Type, init)
	evt.Set(detailProp, id)
	return t.v.Call("dispatchEvent", evt).Bool() && !e.DefaultPrevented()
}

func (r *realm) nextDetail(e *dom.Event) int {
	r.nextID++
	r.details[r.nextID] = e
	return r.nextID
}

// fire runs the Go listeners for a JavaScript event.
func (t *target) fire(typ string, evt js.Value) {
	e := t.event(typ, evt)
	e.SetCurrentTarget(t.self)
	for _, l := range append([]*listener(nil), t.listeners[typ]...) {
		l.fn(e)
		if e.DefaultPrevented() {
			evt.Call("preventDefault")
		}
	}
	if e.PropagationStopped() {
		evt.Call("stopPropagation")
	}
}

// event returns the Go event for evt: the dispatched one for events sent
// from Go, a new one otherwise.
func (t *target) event(typ string, evt js.Value) *dom.Event {
	if id := evt.Get(detailProp); id.Type() == js.TypeNumber {
		if e, ok := t.r.details[id.Int()]; ok {
			return e
		}
	}

	var detail any
	switch typ {
	case dom.EventClick:
		detail = dom.MouseDetail{
			Button:   evt.Get("button").Int(),
			CtrlKey:  evt.Get("ctrlKey").Bool(),
			MetaKey:  evt.Get("metaKey").Bool(),
			ShiftKey: evt.Get("shiftKey").Bool(),
			AltKey:   evt.Get("altKey").Bool(),
		}
	default:
		if d := evt.Get("detail"); d.Type() == js.TypeString {
			detail = d.String()
		}
	}
	e := dom.NewEvent(typ, detail, evt.Get("bubbles").Bool())
	e.SetTarget(t.r.wrap(evt.Get("target")))
	if evt.Get("defaultPrevented").Bool() {
		e.PreventDefault()
	}
	return e
}
