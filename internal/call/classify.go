package call

import (
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Outcome classifies a terminal attempt status.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomePermanent
)

// DefaultRetryableCodes lists the transient conditions retried by
// default: service unavailable, per-attempt deadline expiry, overload,
// and contention aborts.
var DefaultRetryableCodes = []codes.Code{
	codes.Unavailable,
	codes.DeadlineExceeded,
	codes.ResourceExhausted,
	codes.Aborted,
}

// Classifier decides whether a terminal status ends the call or earns
// another attempt. The retryable set is configuration data, not code;
// every code outside the set is a permanent failure. Classifier values
// are immutable and safe for unsynchronized concurrent use.
type Classifier struct {
	retryable map[codes.Code]struct{}
}

// NewClassifier builds a Classifier from an explicit retryable
// allow-list.
func NewClassifier(retryable []codes.Code) *Classifier {
	m := make(map[codes.Code]struct{}, len(retryable))
	for _, c := range retryable {
		m[c] = struct{}{}
	}
	return &Classifier{retryable: m}
}

// Classify maps a terminal status code to an Outcome.
func (c *Classifier) Classify(code codes.Code) Outcome {
	if code == codes.OK {
		return OutcomeSuccess
	}
	if _, ok := c.retryable[code]; ok {
		return OutcomeRetryable
	}
	return OutcomePermanent
}

// RetryDelayHint extracts a server-suggested retry delay from a
// RetryInfo status detail, when present. The hint overrides the
// computed backoff for the next attempt.
func RetryDelayHint(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	s, ok := status.FromError(err)
	if !ok || s == nil {
		return 0, false
	}
	for _, d := range s.Details() {
		if ri, ok := d.(*errdetails.RetryInfo); ok && ri.GetRetryDelay() != nil {
			return ri.GetRetryDelay().AsDuration(), true
		}
	}
	return 0, false
}
