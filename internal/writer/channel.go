package writer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultDelay = time.Second

// Options configure a Channel.
type Options[T any] struct {
	Name  string
	Delay time.Duration

	// Snapshot returns the freshest local state. It is called at dispatch
	// time, never when the write was requested.
	Snapshot func() T
	Write    func(ctx context.Context, snapshot T) error

	OnSuccess func(snapshot T)
	OnFailure func(err error)

	Logger *zap.Logger
}

// Channel schedules the writes of one editing surface. At most one write is
// in flight; requests made during a flight collapse into a single follow-up
// write carrying the freshest snapshot.
type Channel[T any] struct {
	opts Options[T]
	ctx  context.Context
	task *DelayedTask
	log  *zap.Logger

	mu       sync.Mutex
	inFlight bool
	followUp bool
	editing  bool
	deferred bool
	lastErr  error
	idle     chan struct{}
}

// NewChannel creates a channel. Writes run with ctx's values but are never
// cancelled by it.
func NewChannel[T any](ctx context.Context, opts Options[T]) *Channel[T] {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &Channel[T]{
		opts: opts,
		ctx:  context.WithoutCancel(ctx),
		log:  log.With(zap.String("channel", opts.Name)),
	}
	c.task = NewDelayedTask(c.dispatch)
	return c
}

// Now writes immediately, dropping any pending debounced write.
func (c *Channel[T]) Now() {
	c.task.Cancel()
	c.mu.Lock()
	c.deferred = false
	c.mu.Unlock()
	c.dispatch()
}

// Schedule requests a trailing debounced write. While an edit is held the
// request is deferred until EndEdit.
func (c *Channel[T]) Schedule() {
	c.mu.Lock()
	if c.editing {
		c.deferred = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.task.Reschedule(c.opts.Delay)
}

// BeginEdit holds saves while a field is being edited.
func (c *Channel[T]) BeginEdit() {
	c.mu.Lock()
	c.editing = true
	c.mu.Unlock()
	if c.task.Cancel() {
		c.mu.Lock()
		c.deferred = true
		c.mu.Unlock()
	}
}

// EndEdit releases the hold. A confirmed edit dispatches the deferred save
// immediately; an abandoned one falls back to the debounce.
func (c *Channel[T]) EndEdit(confirm bool) {
	c.mu.Lock()
	c.editing = false
	deferred := c.deferred
	c.deferred = false
	c.mu.Unlock()

	if !deferred {
		return
	}
	if confirm {
		c.dispatch()
		return
	}
	c.task.Reschedule(c.opts.Delay)
}

// Retry re-dispatches after a failed write.
func (c *Channel[T]) Retry() bool {
	c.mu.Lock()
	failed := c.lastErr != nil
	c.mu.Unlock()
	if failed {
		c.dispatch()
	}
	return failed
}

func (c *Channel[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Pending reports whether a write is scheduled, deferred or in flight.
func (c *Channel[T]) Pending() bool {
	c.mu.Lock()
	busy := c.inFlight || c.deferred
	c.mu.Unlock()
	return busy || c.task.Pending()
}

// Flush dispatches any scheduled or deferred write without waiting for the
// delay, then waits until the channel is idle or ctx is done.
func (c *Channel[T]) Flush(ctx context.Context) error {
	fired := c.task.Fire()
	// A timer that expired just before Fire may not have dispatched yet.
	if err := c.task.Settle(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	deferred := c.deferred
	c.deferred = false
	c.mu.Unlock()
	if deferred && !fired {
		c.dispatch()
	}

	c.mu.Lock()
	idle := c.idle
	inFlight := c.inFlight
	c.mu.Unlock()
	if !inFlight {
		return c.LastError()
	}

	select {
	case <-idle:
		return c.LastError()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Channel[T]) dispatch() {
	c.mu.Lock()
	if c.inFlight {
		c.followUp = true
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.idle = make(chan struct{})
	c.mu.Unlock()

	go c.run()
}

func (c *Channel[T]) run() {
	for {
		snap := c.opts.Snapshot()
		err := c.opts.Write(c.ctx, snap)
		if err != nil {
			err = fmt.Errorf("%s write: %w: %w", c.opts.Name, ErrPersistenceFailure, err)
			c.log.Warn("write failed", zap.Error(err))
		}

		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()

		if err != nil {
			if c.opts.OnFailure != nil {
				c.opts.OnFailure(err)
			}
		} else if c.opts.OnSuccess != nil {
			c.opts.OnSuccess(snap)
		}

		c.mu.Lock()
		if c.followUp {
			c.followUp = false
			c.mu.Unlock()
			continue
		}
		c.inFlight = false
		close(c.idle)
		c.mu.Unlock()
		return
	}
}
