package call

import (
	"context"
	"sync"
)

// Future is the write-once completion handle for one logical call.
// It resolves to a value or an error exactly once; a second resolution
// attempt is a no-op and reports false. Listeners added after
// resolution run immediately.
//
// Listeners execute inline on the resolving goroutine. Callers that
// need heavy continuations should hop to their own goroutine.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	resolved  bool
	value     T
	err       error
	listeners []func(T, error)
	onCancel  []func()
}

// NewFuture returns an unresolved future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve completes the future with a value. It reports whether this
// call won the resolution.
func (f *Future[T]) Resolve(v T) bool {
	return f.complete(v, nil)
}

// Reject completes the future with an error.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.complete(zero, err)
}

func (f *Future[T]) complete(v T, err error) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.resolved = true
	f.value, f.err = v, err
	listeners := f.listeners
	f.listeners = nil
	f.onCancel = nil
	close(f.done)
	f.mu.Unlock()

	for _, fn := range listeners {
		fn(v, err)
	}
	return true
}

// Cancel rejects the future with ErrCancelled. Cancellation hooks run
// before the resolution so a source operation can stop in-flight work
// first. Cancelling twice, or after resolution, is a no-op.
func (f *Future[T]) Cancel() bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	hooks := f.onCancel
	f.onCancel = nil
	f.mu.Unlock()

	for _, h := range hooks {
		h()
	}
	var zero T
	return f.complete(zero, ErrCancelled)
}

// OnCancel registers a hook invoked when Cancel wins the resolution.
// Hooks registered after resolution never run.
func (f *Future[T]) OnCancel(h func()) {
	f.mu.Lock()
	if !f.resolved {
		f.onCancel = append(f.onCancel, h)
	}
	f.mu.Unlock()
}

// Listen registers a continuation. If the future is already resolved
// the continuation runs inline before Listen returns. All listeners
// observe the same resolution.
func (f *Future[T]) Listen(fn func(T, error)) {
	f.mu.Lock()
	if !f.resolved {
		f.listeners = append(f.listeners, fn)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	fn(v, err)
}

// Done is closed when the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether the future has a terminal result.
func (f *Future[T]) Resolved() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Get blocks until the future resolves or ctx ends.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
