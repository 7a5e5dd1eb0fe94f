// Package loop provides the single UI loop every component runs on.
//
// All DOM and state work happens on the loop. Blocking work (fetching data,
// rendering templates) runs on its own goroutine through Go and posts its
// continuation back, so the loop itself never blocks:
//
//	q.Go(func() func() {
//	    data, err := fetch(ctx)
//	    return func() { root.SetInnerHTML(render(data, err)) }
//	})
//
// Three implementations exist: Loop (a goroutine driven by real timers),
// Manual (virtual time for deterministic tests) and the js driver's queue
// backed by setTimeout.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Queue schedules work on the UI loop.
type Queue interface {
	// Enqueue runs fn on the loop after the current synchronous work
	// completes, once delay has elapsed. A zero delay runs fn on the next turn.
	Enqueue(fn func(), delay time.Duration) Timer

	// Go runs work off the loop. The returned continuation, if non-nil,
	// is posted back to the loop.
	Go(work func() func())

	// Call runs fn on the loop and waits for it to return. It must only be
	// called from off-loop goroutines (inside work passed to Go).
	Call(fn func())
}

// Timer is a pending Enqueue callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Loop is a Queue driven by a dedicated goroutine and real timers.
// Call Run to start processing.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// New creates a loop. Tasks accumulate until Run is called.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Run processes tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for _, fn := range l.drain() {
			fn()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	tasks := l.tasks
	l.tasks = nil
	return tasks
}

func (l *Loop) post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Enqueue implements Queue.
func (l *Loop) Enqueue(fn func(), delay time.Duration) Timer {
	t := &realTimer{}
	run := func() {
		if t.fired.CompareAndSwap(false, true) {
			fn()
		}
	}
	if delay <= 0 {
		l.post(run)
		return t
	}
	t.timer = time.AfterFunc(delay, func() { l.post(run) })
	return t
}

// Go implements Queue.
func (l *Loop) Go(work func() func()) {
	go func() {
		if cont := work(); cont != nil {
			l.post(cont)
		}
	}()
}

// Call implements Queue.
func (l *Loop) Call(fn func()) {
	done := make(chan struct{})
	l.post(func() {
		defer close(done)
		fn()
	})
	<-done
}

type realTimer struct {
	fired atomic.Bool
	timer *time.Timer
}

func (t *realTimer) Stop() bool {
	if !t.fired.CompareAndSwap(false, true) {
		return false
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	return true
}
