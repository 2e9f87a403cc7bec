package call

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

// ErrCancelled resolves a call whose caller cancelled the handle
// before a terminal outcome arrived.
var ErrCancelled = errors.New("call cancelled")

// InternalError reports a transport protocol violation: a terminal OK
// status with no value delivered, more than one value on a unary call,
// or a value of an unexpected type. It signals a transport bug, not a
// request problem.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return "internal consistency error: " + e.Reason
}

func errNoValue() error {
	return &InternalError{Reason: "no value received for unary call"}
}

func errDuplicateValue() error {
	return &InternalError{Reason: "more than one value received for unary call"}
}

// ExhaustedError resolves a call whose retryable failures outlasted
// the retry budget. It is distinct from the last failure itself so
// callers can tell "gave up" from "rejected".
type ExhaustedError struct {
	Attempts   int
	LastStatus codes.Code
	last       error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts, last status %s", e.Attempts, e.LastStatus)
}

// Unwrap exposes the failure of the final attempt.
func (e *ExhaustedError) Unwrap() error {
	return e.last
}

// IsExhausted reports whether err is a retries-exhausted failure.
func IsExhausted(err error) bool {
	var ee *ExhaustedError
	return errors.As(err, &ee)
}
