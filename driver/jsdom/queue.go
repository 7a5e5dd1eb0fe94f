//go:build js && wasm

package jsdom

import (
	"syscall/js"
	"time"

	"github.com/pthm/pwashell/lib/loop"
)

// Queue is a loop.Queue on the browser's event loop.
type Queue struct {
	global js.Value
}

var _ loop.Queue = (*Queue)(nil)

// NewQueue creates a queue scheduling through setTimeout.
func NewQueue() *Queue {
	return &Queue{global: js.Global()}
}

// Enqueue implements loop.Queue.
func (q *Queue) Enqueue(fn func(), delay time.Duration) loop.Timer {
	t := &timer{q: q}
	t.cb = js.FuncOf(func(js.Value, []js.Value) any {
		if t.done {
			return nil
		}
		t.done = true
		t.cb.Release()
		fn()
		return nil
	})
	t.id = q.global.Call("setTimeout", t.cb, delay.Milliseconds())
	return t
}

// Go implements loop.Queue. Goroutines share the browser's single
// thread and yield whenever they block.
func (q *Queue) Go(work func() func()) {
	go func() {
		if cont := work(); cont != nil {
			q.Enqueue(cont, 0)
		}
	}()
}

// Call implements loop.Queue.
func (q *Queue) Call(fn func()) {
	done := make(chan struct{})
	q.Enqueue(func() {
		defer close(done)
		fn()
	}, 0)
	<-done
}

type timer struct {
	q    *Queue
	id   js.Value
	cb   js.Func
	done bool
}

func (t *timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.q.global.Call("clearTimeout", t.id)
	t.cb.Release()
	return true
}
