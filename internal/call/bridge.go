package call

import "context"

// Result pairs a value with an error for channel-based delivery. This
// is the transport-native asynchronous convention; Future is the
// caller-facing one. The bridge functions below translate between the
// two without losing values, errors, or cancellation.
type Result[T any] struct {
	Value T
	Err   error
}

// FromChannel bridges the channel-and-cancel convention into a Future.
// The first result on ch resolves the future; ctx ending first
// surfaces as cancellation on the future. Cancelling the returned
// future cancels the source via the supplied cancel function.
//
// Bridging the same source more than once is allowed when the source
// fans out; each derived future resolves independently.
func FromChannel[T any](ctx context.Context, ch <-chan Result[T], cancel context.CancelFunc) *Future[T] {
	f := NewFuture[T]()
	if cancel != nil {
		f.OnCancel(cancel)
	}
	go func() {
		select {
		case r, ok := <-ch:
			if !ok {
				f.Reject(&InternalError{Reason: "result channel closed without a result"})
				return
			}
			if r.Err != nil {
				f.Reject(r.Err)
				return
			}
			f.Resolve(r.Value)
		case <-ctx.Done():
			f.Cancel()
		}
	}()
	return f
}

// ToChannel bridges a Future into the channel-and-cancel convention.
// The returned channel delivers the resolution exactly once and is
// then closed; the returned cancel function cancels the future.
// Calling ToChannel repeatedly on one future is allowed; every derived
// channel observes the same resolution.
func ToChannel[T any](f *Future[T]) (<-chan Result[T], context.CancelFunc) {
	ch := make(chan Result[T], 1)
	f.Listen(func(v T, err error) {
		ch <- Result[T]{Value: v, Err: err}
		close(ch)
	})
	return ch, func() { f.Cancel() }
}
