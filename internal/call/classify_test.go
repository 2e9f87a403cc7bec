package call

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
)

func TestClassify_DefaultSet(t *testing.T) {
	c := NewClassifier(DefaultRetryableCodes)

	if got := c.Classify(codes.OK); got != OutcomeSuccess {
		t.Errorf("OK: expected success, got %v", got)
	}
	for _, code := range []codes.Code{codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted} {
		if got := c.Classify(code); got != OutcomeRetryable {
			t.Errorf("%s: expected retryable, got %v", code, got)
		}
	}
	for _, code := range []codes.Code{codes.PermissionDenied, codes.InvalidArgument, codes.NotFound, codes.Internal} {
		if got := c.Classify(code); got != OutcomePermanent {
			t.Errorf("%s: expected permanent, got %v", code, got)
		}
	}
}

func TestClassify_ConfiguredSet(t *testing.T) {
	c := NewClassifier([]codes.Code{codes.Unavailable})

	if got := c.Classify(codes.Unavailable); got != OutcomeRetryable {
		t.Errorf("UNAVAILABLE: expected retryable, got %v", got)
	}
	// DeadlineExceeded is retryable by default but not in this set.
	if got := c.Classify(codes.DeadlineExceeded); got != OutcomePermanent {
		t.Errorf("DEADLINE_EXCEEDED: expected permanent, got %v", got)
	}
}

func TestClassify_EmptySet(t *testing.T) {
	c := NewClassifier(nil)

	if got := c.Classify(codes.Unavailable); got != OutcomePermanent {
		t.Errorf("empty set: expected permanent, got %v", got)
	}
	if got := c.Classify(codes.OK); got != OutcomeSuccess {
		t.Errorf("empty set: OK must stay success, got %v", got)
	}
}

func TestRetryDelayHint(t *testing.T) {
	s, err := status.New(codes.Unavailable, "overloaded").WithDetails(&errdetails.RetryInfo{
		RetryDelay: durationpb.New(3 * time.Second),
	})
	if err != nil {
		t.Fatalf("failed to build status: %v", err)
	}

	hint, ok := RetryDelayHint(s.Err())
	if !ok {
		t.Fatal("expected a retry delay hint")
	}
	if hint != 3*time.Second {
		t.Errorf("expected 3s hint, got %v", hint)
	}
}

func TestRetryDelayHint_Absent(t *testing.T) {
	if _, ok := RetryDelayHint(status.Error(codes.Unavailable, "plain")); ok {
		t.Error("expected no hint on a plain status error")
	}
	if _, ok := RetryDelayHint(errors.New("not a status")); ok {
		t.Error("expected no hint on a non-status error")
	}
	if _, ok := RetryDelayHint(nil); ok {
		t.Error("expected no hint on nil error")
	}
}
