package call

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFuture_ResolveOnce(t *testing.T) {
	f := NewFuture[string]()

	if !f.Resolve("first") {
		t.Fatal("first resolution should win")
	}
	if f.Resolve("second") {
		t.Error("second resolution should be a no-op")
	}
	if f.Reject(errors.New("boom")) {
		t.Error("rejection after resolution should be a no-op")
	}

	v, err := f.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "first" {
		t.Errorf("expected %q, got %q", "first", v)
	}
}

func TestFuture_ListenersSeeSameResult(t *testing.T) {
	f := NewFuture[int]()

	var before, after int
	f.Listen(func(v int, err error) { before = v })

	f.Resolve(42)

	// Listener attached after resolution runs inline.
	f.Listen(func(v int, err error) { after = v })

	if before != 42 || after != 42 {
		t.Errorf("expected both listeners to see 42, got %d and %d", before, after)
	}
}

func TestFuture_CancelIdempotent(t *testing.T) {
	f := NewFuture[int]()

	hookCalls := 0
	f.OnCancel(func() { hookCalls++ })

	if !f.Cancel() {
		t.Fatal("first cancel should win")
	}
	if f.Cancel() {
		t.Error("second cancel should be a no-op")
	}
	if hookCalls != 1 {
		t.Errorf("expected 1 hook call, got %d", hookCalls)
	}

	_, err := f.Get(context.Background())
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

func TestFuture_CancelAfterResolveIsNoop(t *testing.T) {
	f := NewFuture[int]()
	f.Resolve(7)

	hookCalled := false
	f.OnCancel(func() { hookCalled = true })

	if f.Cancel() {
		t.Error("cancel after resolution should be a no-op")
	}
	if hookCalled {
		t.Error("cancel hook must not run after resolution")
	}

	v, err := f.Get(context.Background())
	if err != nil || v != 7 {
		t.Errorf("resolution changed by cancel: v=%d err=%v", v, err)
	}
}

func TestFuture_GetHonorsContext(t *testing.T) {
	f := NewFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline error, got %v", err)
	}
}

func TestFuture_DoneClosesOnResolve(t *testing.T) {
	f := NewFuture[int]()

	select {
	case <-f.Done():
		t.Fatal("done closed before resolution")
	default:
	}

	f.Resolve(1)

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("done not closed after resolution")
	}
}
