// Package sched provides a cooperative timer queue: callbacks are registered
// with a due time and executed by Poll on the engine tick, never by background
// goroutines. With an injected clock the whole timer surface is deterministic.
package sched

import (
	"container/heap"
	"time"

	"github.com/noleforte/DRAW-sub001/logging"
)

// Timer is a handle for a scheduled callback.
type Timer struct {
	id       uint64
	due      time.Time
	fn       func(now time.Time)
	canceled bool
	index    int
}

// Queue holds pending timers ordered by due time.
type Queue struct {
	clock  logging.Clock
	timers timerHeap
	nextID uint64
}

// New constructs a queue reading time from the given clock.
func New(clock logging.Clock) *Queue {
	if clock == nil {
		clock = logging.SystemClock{}
	}
	q := &Queue{clock: clock}
	heap.Init(&q.timers)
	return q
}

// Schedule registers fn to run once the delay elapses and returns its handle.
func (q *Queue) Schedule(delay time.Duration, fn func(now time.Time)) *Timer {
	if fn == nil {
		return nil
	}
	q.nextID++
	timer := &Timer{
		id:  q.nextID,
		due: q.clock.Now().Add(delay),
		fn:  fn,
	}
	heap.Push(&q.timers, timer)
	return timer
}

// Cancel marks a timer so it will never fire. Safe to call twice.
func (q *Queue) Cancel(timer *Timer) {
	if timer != nil {
		timer.canceled = true
	}
}

// Reset cancels every pending timer. Called on match reset so no stale
// callback leaks into the next match.
func (q *Queue) Reset() {
	for _, timer := range q.timers {
		timer.canceled = true
	}
	q.timers = q.timers[:0]
}

// Len reports the number of pending (possibly canceled) timers.
func (q *Queue) Len() int {
	return len(q.timers)
}

// Poll runs every timer due at or before now, in due order. Ties fire in
// scheduling order. Callbacks may schedule new timers; timers scheduled for a
// past instant fire within the same poll.
func (q *Queue) Poll(now time.Time) int {
	fired := 0
	for len(q.timers) > 0 {
		next := q.timers[0]
		if next.canceled {
			heap.Pop(&q.timers)
			continue
		}
		if next.due.After(now) {
			break
		}
		heap.Pop(&q.timers)
		next.fn(now)
		fired++
	}
	return fired
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].id < h[j].id
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	timer := x.(*Timer)
	timer.index = len(*h)
	*h = append(*h, timer)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	timer := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return timer
}
