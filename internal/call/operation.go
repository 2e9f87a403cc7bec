// Package call implements the retrying unary call engine: a state
// machine that submits one attempt at a time against a Transport,
// classifies the terminal status of each attempt, backs off and
// resubmits on transient failures, and resolves a write-once Future
// exactly once per logical call.
package call

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/janhicken/cloud-bigtable-client/internal/metrics"
)

// Options configures one Operation. Transport is required; nil
// Scheduler, Clock and Classifier fall back to the system scheduler,
// the system clock and the default retryable set.
type Options struct {
	Backoff    BackoffConfig
	Classifier *Classifier
	Transport  Transport
	Scheduler  Scheduler
	Clock      Clock

	// AttemptTimeout bounds each individual attempt; zero means no
	// per-attempt deadline.
	AttemptTimeout time.Duration

	// Metadata is attached to every attempt of the call.
	Metadata metadata.MD

	// Rand supplies the jitter source; nil means math/rand.
	Rand func() float64
}

type opState int

const (
	stateIdle opState = iota
	stateInFlight
	stateBackoff
	stateSucceeded
	stateFailed
	stateCancelled
)

// Operation drives the full lifecycle of one logical unary call. All
// state transitions for one instance are serialized by its mutex, and
// the write-once Future is the terminal guard: whichever path reaches
// a terminal state first wins, and every later signal observes the
// terminal state and no-ops. Attempts are tagged with their attempt
// number so a straggling callback from a superseded attempt is
// detected as stale and discarded.
//
// Attempts are strictly sequential: attempt N+1 is never submitted
// before attempt N has reported a terminal retryable outcome.
type Operation[T any] struct {
	opts   Options
	req    Request
	future *Future[T]

	mu          sync.Mutex
	state       opState
	attempts    int // completed attempts; only ever increases
	seq         int // attempt number of the current submission
	value       T
	gotValue    bool
	msgs        int
	stopAttempt func()
	timer       Timer
}

// NewOperation builds the engine for one logical call. Start must be
// called exactly once per instance.
func NewOperation[T any](req Request, opts Options) *Operation[T] {
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Classifier == nil {
		opts.Classifier = NewClassifier(DefaultRetryableCodes)
	}
	if opts.Backoff == (BackoffConfig{}) {
		opts.Backoff = DefaultBackoffConfig
	}
	return &Operation[T]{
		opts:   opts,
		req:    req,
		future: NewFuture[T](),
	}
}

// Start submits the first attempt and returns the unresolved handle
// immediately. Cancelling the handle cancels the in-flight attempt or
// pending backoff timer and resolves it with ErrCancelled.
func (o *Operation[T]) Start(ctx context.Context) *Future[T] {
	o.future.OnCancel(func() { o.cancel() })

	o.mu.Lock()
	if o.state != stateIdle {
		o.mu.Unlock()
		return o.future
	}
	o.state = stateInFlight
	o.submitLocked(ctx)
	o.mu.Unlock()
	return o.future
}

// Attempts reports the number of completed attempts so far.
func (o *Operation[T]) Attempts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempts
}

func (o *Operation[T]) submitLocked(ctx context.Context) {
	o.seq++
	seq := o.seq
	o.msgs = 0
	o.gotValue = false
	var zero T
	o.value = zero

	ac := AttemptContext{
		Attempt:  seq,
		Timeout:  o.opts.AttemptTimeout,
		Metadata: o.opts.Metadata,
	}
	cb := Callbacks{
		OnMessage: func(v any) { o.onMessage(seq, v) },
		OnTerminal: func(code codes.Code, trailers metadata.MD, err error) {
			o.onTerminal(ctx, seq, code, err)
		},
	}
	metrics.CallAttempts.WithLabelValues(o.req.Method).Inc()
	o.stopAttempt = o.opts.Transport.Submit(ctx, o.req, ac, cb)
}

// onMessage records the value delivered for the current attempt. A
// second value on a unary attempt is a protocol violation and fails
// the call.
func (o *Operation[T]) onMessage(seq int, v any) {
	o.mu.Lock()
	if seq != o.seq || o.state != stateInFlight {
		o.mu.Unlock()
		return
	}
	o.msgs++
	if o.msgs > 1 {
		o.attempts++
		stop := o.stopAttempt
		o.stopAttempt = nil
		o.state = stateFailed
		o.mu.Unlock()
		if stop != nil {
			stop()
		}
		o.finish("internal", errDuplicateValue())
		return
	}
	tv, ok := v.(T)
	if !ok {
		o.attempts++
		stop := o.stopAttempt
		o.stopAttempt = nil
		o.state = stateFailed
		o.mu.Unlock()
		if stop != nil {
			stop()
		}
		o.finish("internal", &InternalError{Reason: "unexpected response type for unary call"})
		return
	}
	o.value = tv
	o.gotValue = true
	o.mu.Unlock()
}

// onTerminal handles the authoritative end of one attempt. Stale
// signals, tagged with a superseded attempt number or arriving after a
// terminal state, are discarded: they denote a race, not a fault.
func (o *Operation[T]) onTerminal(ctx context.Context, seq int, code codes.Code, err error) {
	o.mu.Lock()
	if seq != o.seq || o.state != stateInFlight {
		o.mu.Unlock()
		return
	}
	o.stopAttempt = nil
	o.attempts++

	if code == codes.OK {
		if !o.gotValue {
			// An OK status with no payload is never a valid empty
			// result.
			o.state = stateFailed
			o.mu.Unlock()
			o.finish("internal", errNoValue())
			return
		}
		v := o.value
		o.state = stateSucceeded
		o.mu.Unlock()
		metrics.CallOutcomes.WithLabelValues(o.req.Method, "success").Inc()
		o.future.Resolve(v)
		return
	}

	if o.opts.Classifier.Classify(code) == OutcomeRetryable {
		decision := NextDelay(o.attempts, o.opts.Backoff, o.opts.Clock.Now(), o.opts.Rand)
		if !decision.Retry {
			attempts := o.attempts
			o.state = stateFailed
			o.mu.Unlock()
			o.finish("exhausted", &ExhaustedError{Attempts: attempts, LastStatus: code, last: err})
			return
		}
		delay := decision.Delay
		if hint, ok := RetryDelayHint(err); ok {
			delay = hint
			// The hint bypasses NextDelay's deadline check, so it gets
			// its own.
			if dl := o.opts.Backoff.Deadline; !dl.IsZero() && o.opts.Clock.Now().Add(delay).After(dl) {
				attempts := o.attempts
				o.state = stateFailed
				o.mu.Unlock()
				o.finish("exhausted", &ExhaustedError{Attempts: attempts, LastStatus: code, last: err})
				return
			}
		}
		o.state = stateBackoff
		o.timer = o.opts.Scheduler.Schedule(delay, func() { o.resubmit(ctx) })
		attempts := o.attempts
		o.mu.Unlock()
		metrics.CallRetries.WithLabelValues(o.req.Method, code.String()).Inc()
		slog.Debug("retrying call",
			"method", o.req.Method,
			"attempt", attempts,
			"status", code.String(),
			"delay", delay)
		return
	}

	o.state = stateFailed
	o.mu.Unlock()
	if err == nil {
		err = status.Error(code, "call failed")
	}
	o.finish("permanent", err)
}

// resubmit fires on the backoff timer and submits the next attempt. A
// cancellation that raced the timer leaves the operation terminal, in
// which case the resubmission is dropped.
func (o *Operation[T]) resubmit(ctx context.Context) {
	o.mu.Lock()
	if o.state != stateBackoff {
		o.mu.Unlock()
		return
	}
	o.timer = nil
	o.state = stateInFlight
	o.submitLocked(ctx)
	o.mu.Unlock()
}

// cancel runs as the future's cancellation hook, before the handle
// resolves with ErrCancelled. Marking the state terminal here
// guarantees no attempt is submitted after cancellation.
func (o *Operation[T]) cancel() {
	o.mu.Lock()
	if o.state == stateSucceeded || o.state == stateFailed || o.state == stateCancelled {
		o.mu.Unlock()
		return
	}
	o.state = stateCancelled
	stop := o.stopAttempt
	o.stopAttempt = nil
	timer := o.timer
	o.timer = nil
	o.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if stop != nil {
		stop()
	}
	metrics.CallOutcomes.WithLabelValues(o.req.Method, "cancelled").Inc()
}

func (o *Operation[T]) finish(outcome string, err error) {
	metrics.CallOutcomes.WithLabelValues(o.req.Method, outcome).Inc()
	o.future.Reject(err)
}
