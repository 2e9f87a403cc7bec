package call

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
)

// Request is one logical call as the transport sees it: a method name
// for logging and metrics, and an invoke closure wrapping the
// underlying stub call. The engine treats the payload as opaque and
// resubmits it unchanged on every attempt.
type Request struct {
	Method string
	Invoke func(ctx context.Context) (any, error)
}

// AttemptContext carries the per-attempt call parameters.
type AttemptContext struct {
	// Attempt is the 1-based attempt number for this submission.
	Attempt int

	// Timeout bounds this attempt; zero means no per-attempt deadline.
	Timeout time.Duration

	// Metadata is the call-scoped outgoing metadata, identical across
	// attempts.
	Metadata metadata.MD
}

// Callbacks receives the asynchronous attempt signals. OnMessage fires
// at most once per well-behaved unary attempt, before OnTerminal;
// OnTerminal fires exactly once per submitted attempt and is the
// authoritative end of the attempt.
type Callbacks struct {
	OnMessage  func(value any)
	OnTerminal func(code codes.Code, trailers metadata.MD, err error)
}

// Transport submits one attempt of a call. Implementations deliver the
// outcome through cb from any goroutine. The returned stop function
// abandons the attempt; a terminal signal arriving after stop is
// tagged with a stale attempt number and discarded by the engine.
type Transport interface {
	Submit(ctx context.Context, req Request, ac AttemptContext, cb Callbacks) (stop func())
}
