package loop

import (
	"sync"
	"time"
)

// Manual is a Queue with virtual time. Nothing runs until the test drives
// it with Flush, Advance or Settle, which makes skeleton and debounce
// timings deterministic:
//
//	q := loop.NewManual()
//	comp.Connect(ctx)
//	q.Advance(50 * time.Millisecond) // render starts
//	q.Settle()                       // wait for the off-loop render
//
// Driving methods must be called from a single test goroutine.
type Manual struct {
	mu       sync.Mutex
	cond     *sync.Cond
	now      time.Duration
	seq      uint64
	pending  []*manualTimer
	inflight int
}

// NewManual creates a manual queue at virtual time zero.
func NewManual() *Manual {
	m := &Manual{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

type manualTimer struct {
	m    *Manual
	at   time.Duration
	seq  uint64
	fn   func()
	done bool
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.m.remove(t)
	return true
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Enqueue implements Queue.
func (m *Manual) Enqueue(fn func(), delay time.Duration) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedule(fn, delay)
}

func (m *Manual) schedule(fn func(), delay time.Duration) *manualTimer {
	if delay < 0 {
		delay = 0
	}
	m.seq++
	t := &manualTimer{m: m, at: m.now + delay, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	m.cond.Broadcast()
	return t
}

// Go implements Queue.
func (m *Manual) Go(work func() func()) {
	m.mu.Lock()
	m.inflight++
	m.mu.Unlock()
	go func() {
		cont := work()
		m.mu.Lock()
		defer m.mu.Unlock()
		m.inflight--
		if cont != nil {
			m.schedule(cont, 0)
		}
		m.cond.Broadcast()
	}()
}

// Call implements Queue. The callback runs the next time the test drives
// the queue with Flush, Advance or Settle.
func (m *Manual) Call(fn func()) {
	done := make(chan struct{})
	m.Enqueue(func() {
		defer close(done)
		fn()
	}, 0)
	<-done
}

// Flush runs every callback due at the current virtual time, including
// callbacks enqueued while flushing.
func (m *Manual) Flush() {
	for {
		t := m.next(m.Now())
		if t == nil {
			return
		}
		t.fn()
	}
}

// Advance moves virtual time forward by d, running timers in order of
// their due time as it goes.
func (m *Manual) Advance(d time.Duration) {
	target := m.Now() + d
	for {
		m.Flush()
		m.mu.Lock()
		t := m.earliest()
		if t == nil || t.at > target {
			m.now = target
			m.mu.Unlock()
			m.Flush()
			return
		}
		m.now = t.at
		m.mu.Unlock()
	}
}

// Settle runs due callbacks and waits for off-loop work started with Go
// until nothing is left in flight. Work blocked on something only the
// test can release must be released before calling Settle.
func (m *Manual) Settle() {
	for {
		m.Flush()
		m.mu.Lock()
		if m.inflight == 0 && m.dueLocked() == nil {
			m.mu.Unlock()
			return
		}
		for m.inflight > 0 && m.dueLocked() == nil {
			m.cond.Wait()
		}
		m.mu.Unlock()
	}
}

// Pending reports how many callbacks are scheduled and not yet run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Manual) next(now time.Duration) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.dueLocked()
	if t == nil || t.at > now {
		return nil
	}
	t.done = true
	m.remove(t)
	return t
}

func (m *Manual) dueLocked() *manualTimer {
	t := m.earliest()
	if t == nil || t.at > m.now {
		return nil
	}
	return t
}

func (m *Manual) earliest() *manualTimer {
	var best *manualTimer
	for _, t := range m.pending {
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) remove(t *manualTimer) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}
