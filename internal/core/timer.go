package core

import (
	"sync"
	"time"
)

// Timer pushes a TimerTick into a queue at a fixed interval.
type Timer struct {
	interval time.Duration
	queue    *Queue
	stop     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewTimer creates a stopped timer ticking at interval.
func NewTimer(interval time.Duration, q *Queue) *Timer {
	return &Timer{
		interval: interval,
		queue:    q,
		stop:     make(chan struct{}),
	}
}

// Start begins ticking in a background goroutine.
func (t *Timer) Start() {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case now := <-ticker.C:
				t.queue.TryPush(TimerTick{At: now})
			}
		}
	}()
}

// Stop halts the timer and waits for its goroutine to exit. Safe to call twice.
func (t *Timer) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
	t.wg.Wait()
}
