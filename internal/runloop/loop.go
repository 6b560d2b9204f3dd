// Package runloop provides the serial executor that owns an editor's state.
//
// Every engine in an editor instance is touched from exactly one goroutine:
// the loop. Asynchronous work (gate predicates, suggestion fetches, debounce
// timers) runs elsewhere and posts its continuation back with Post, so state
// mutation stays strictly ordered and needs no locks.
package runloop

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// PanicHandler is called when a posted task panics.
type PanicHandler func(recovered any, stack []byte)

// Loop executes posted tasks one at a time in FIFO order.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool

	wake chan struct{}
	done chan struct{}

	running atomic.Bool

	panicHandler PanicHandler

	executed atomic.Uint64
	panicked atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithPanicHandler sets the handler invoked when a task panics.
// The loop keeps running after a recovered panic.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *Loop) {
		if h != nil {
			l.panicHandler = h
		}
	}
}

// New creates a loop. Call Start before posting work that must run.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
		panicHandler: func(any, []byte) {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start launches the loop goroutine.
func (l *Loop) Start() error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	go l.run()
	return nil
}

// Stop prevents further posts, lets already queued tasks finish and waits
// for the loop goroutine to exit or ctx to end.
func (l *Loop) Stop(ctx context.Context) error {
	if !l.running.Load() {
		return ErrNotRunning
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrNotRunning
	}
	l.stopped = true
	l.mu.Unlock()
	l.signal()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues fn for execution on the loop. It never blocks and is safe to
// call from any goroutine, including the loop itself. It returns false if
// the loop has been stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	l.signal()
	return true
}

// Do runs fn on the loop and waits for it to return.
// Do must not be called from a task already running on the loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats reports how many tasks ran and how many of them panicked.
func (l *Loop) Stats() (executed, panicked uint64) {
	return l.executed.Load(), l.panicked.Load()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	defer close(l.done)

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		stopped := l.stopped
		l.mu.Unlock()

		for _, fn := range batch {
			l.execute(fn)
		}

		if len(batch) > 0 {
			continue
		}
		if stopped {
			return
		}
		<-l.wake
	}
}

func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.panicked.Add(1)
			l.panicHandler(r, debug.Stack())
		}
	}()
	l.executed.Add(1)
	fn()
}

// String implements fmt.Stringer for debugging.
func (l *Loop) String() string {
	executed, panicked := l.Stats()
	return fmt.Sprintf("runloop(running=%t executed=%d panicked=%d)", l.running.Load(), executed, panicked)
}
