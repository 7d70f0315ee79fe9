package core

import "sync"

// DefaultQueueSize is the event buffer used by the engine.
const DefaultQueueSize = 256

// Queue is the single ordered event stream the frame loop consumes.
// Any goroutine may push; only the loop goroutine waits.
type Queue struct {
	ch        chan Event
	closed    chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:     make(chan Event, size),
		closed: make(chan struct{}),
	}
}

// Push enqueues e, blocking while the buffer is full.
// Returns false once the queue has been closed.
func (q *Queue) Push(e Event) bool {
	select {
	case <-q.closed:
		return false
	default:
	}
	select {
	case q.ch <- e:
		return true
	case <-q.closed:
		return false
	}
}

// TryPush enqueues e only if there is room. Timer ticks use it so a slow
// frame drops ticks instead of piling them up.
func (q *Queue) TryPush(e Event) bool {
	select {
	case <-q.closed:
		return false
	default:
	}
	select {
	case q.ch <- e:
		return true
	default:
		return false
	}
}

// Wait blocks until the next event is available.
func (q *Queue) Wait() Event {
	return <-q.ch
}

// Empty reports whether no events are pending.
func (q *Queue) Empty() bool {
	return len(q.ch) == 0
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close releases blocked producers. Pending events are dropped.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
}
