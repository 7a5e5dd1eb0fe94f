package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualRunsInDueOrder(t *testing.T) {
	q := NewManual()
	var got []string

	q.Enqueue(func() { got = append(got, "late") }, 500*time.Millisecond)
	q.Enqueue(func() { got = append(got, "soon") }, 50*time.Millisecond)
	q.Enqueue(func() { got = append(got, "now") }, 0)

	q.Flush()
	assert.Equal(t, []string{"now"}, got)

	q.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"now", "soon"}, got)
	assert.Equal(t, 100*time.Millisecond, q.Now())

	q.Advance(time.Second)
	assert.Equal(t, []string{"now", "soon", "late"}, got)
}

func TestManualSameInstantKeepsEnqueueOrder(t *testing.T) {
	q := NewManual()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.Enqueue(func() { got = append(got, i) }, 10*time.Millisecond)
	}
	q.Advance(10 * time.Millisecond)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestManualStop(t *testing.T) {
	q := NewManual()
	ran := false
	timer := q.Enqueue(func() { ran = true }, 500*time.Millisecond)

	q.Advance(100 * time.Millisecond)
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	q.Advance(time.Second)
	assert.False(t, ran)
	assert.Zero(t, q.Pending())
}

func TestManualStopAfterRun(t *testing.T) {
	q := NewManual()
	timer := q.Enqueue(func() {}, 0)
	q.Flush()
	assert.False(t, timer.Stop())
}

func TestManualGoPostsContinuation(t *testing.T) {
	q := NewManual()
	var result string

	q.Go(func() func() {
		value := "computed off loop"
		return func() { result = value }
	})
	q.Settle()

	assert.Equal(t, "computed off loop", result)
}

func TestManualCallFromWork(t *testing.T) {
	q := NewManual()
	var steps []string

	q.Go(func() func() {
		q.Call(func() { steps = append(steps, "call") })
		return func() { steps = append(steps, "continuation") }
	})
	q.Settle()

	assert.Equal(t, []string{"call", "continuation"}, steps)
}

func TestManualAdvanceRunsNestedEnqueue(t *testing.T) {
	q := NewManual()
	var got []time.Duration
	q.Enqueue(func() {
		got = append(got, q.Now())
		q.Enqueue(func() { got = append(got, q.Now()) }, 20*time.Millisecond)
	}, 10*time.Millisecond)

	q.Advance(50 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 30 * time.Millisecond}, got)
}

func TestLoopRunsTasksAndTimers(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	done := make(chan string, 3)
	l.Enqueue(func() { done <- "delayed" }, 20*time.Millisecond)
	l.Enqueue(func() { done <- "immediate" }, 0)

	require.Equal(t, "immediate", <-done)
	require.Equal(t, "delayed", <-done)

	var calls atomic.Int32
	l.Go(func() func() {
		l.Call(func() { calls.Add(1) })
		return func() { done <- "continuation" }
	})
	require.Equal(t, "continuation", <-done)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoopStopPreventsRun(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = l.Run(ctx) }()

	var ran atomic.Bool
	timer := l.Enqueue(func() { ran.Store(true) }, 30*time.Millisecond)
	assert.True(t, timer.Stop())

	done := make(chan struct{})
	l.Enqueue(func() { close(done) }, 60*time.Millisecond)
	<-done
	assert.False(t, ran.Load())
}
