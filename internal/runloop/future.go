package runloop

import (
	"context"
	"sync"
)

// Future is a single-assignment result that completes asynchronously.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
}

// NewFuture returns an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve sets the value. Only the first call has any effect.
func (f *Future[T]) Resolve(v T) {
	f.once.Do(func() {
		f.value = v
		close(f.done)
	})
}

// Done is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Value returns the resolved value and whether the future has completed.
func (f *Future[T]) Value() (T, bool) {
	select {
	case <-f.done:
		return f.value, true
	default:
		var zero T
		return zero, false
	}
}

// Wait blocks until the future resolves or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then runs fn on loop l after the future resolves.
func (f *Future[T]) Then(l *Loop, fn func(T)) {
	go func() {
		<-f.done
		l.Post(func() { fn(f.value) })
	}()
}
