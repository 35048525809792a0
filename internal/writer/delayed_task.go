package writer

import (
	"context"
	"sync"
	"time"
)

// DelayedTask runs fn once after a delay. Rescheduling replaces the pending
// run; a timer that fires after being replaced or cancelled is ignored.
type DelayedTask struct {
	fn func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool

	// running counts timer-driven runs of fn still in progress; settled is
	// closed when it drops back to zero.
	running int
	settled chan struct{}
}

func NewDelayedTask(fn func()) *DelayedTask {
	return &DelayedTask{fn: fn}
}

// Reschedule cancels any pending run and schedules fn after d.
func (t *DelayedTask) Reschedule(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.pending = true
	t.timer = time.AfterFunc(d, func() { t.expire(gen) })
}

// Cancel drops the pending run and reports whether there was one.
func (t *DelayedTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	was := t.pending
	t.stopLocked()
	return was
}

// Fire runs a pending fn immediately on the caller's goroutine.
func (t *DelayedTask) Fire() bool {
	t.mu.Lock()
	was := t.pending
	t.stopLocked()
	t.mu.Unlock()

	if was {
		t.fn()
	}
	return was
}

func (t *DelayedTask) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Settle waits for a run started by the timer to return. A run that has
// already left the pending state is not visible to Pending or Fire, so
// callers that need its effects wait here.
func (t *DelayedTask) Settle(ctx context.Context) error {
	t.mu.Lock()
	ch := t.settled
	t.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *DelayedTask) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.timer = nil
	if t.running == 0 {
		t.settled = make(chan struct{})
	}
	t.running++
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running--
		if t.running == 0 {
			close(t.settled)
			t.settled = nil
		}
		t.mu.Unlock()
	}()
	t.fn()
}

func (t *DelayedTask) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.pending = false
}
