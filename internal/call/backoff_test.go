package call

import (
	"testing"
	"time"
)

func noJitterConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		MaxAttempts:  5,
	}
}

func TestNextDelay_ExponentialGrowth(t *testing.T) {
	cfg := noJitterConfig()
	now := time.Now()

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}
	for i, expected := range want {
		d := NextDelay(i+1, cfg, now, nil)
		if !d.Retry {
			t.Fatalf("attempt %d: expected retry, got exhausted", i+1)
		}
		if d.Delay != expected {
			t.Errorf("attempt %d: expected delay %v, got %v", i+1, expected, d.Delay)
		}
	}
}

func TestNextDelay_Monotonic(t *testing.T) {
	cfg := noJitterConfig()
	cfg.MaxAttempts = 20
	now := time.Now()

	prev := time.Duration(0)
	for k := 1; k < cfg.MaxAttempts; k++ {
		d := NextDelay(k, cfg, now, nil)
		if !d.Retry {
			t.Fatalf("attempt %d: unexpected exhaustion", k)
		}
		if d.Delay < prev {
			t.Errorf("attempt %d: delay %v decreased below %v", k, d.Delay, prev)
		}
		if d.Delay > cfg.MaxDelay {
			t.Errorf("attempt %d: delay %v exceeds cap %v", k, d.Delay, cfg.MaxDelay)
		}
		prev = d.Delay
	}
}

func TestNextDelay_CappedAtMax(t *testing.T) {
	cfg := noJitterConfig()
	cfg.MaxAttempts = 50

	d := NextDelay(30, cfg, time.Now(), nil)
	if !d.Retry {
		t.Fatal("expected retry")
	}
	if d.Delay != cfg.MaxDelay {
		t.Errorf("expected delay capped at %v, got %v", cfg.MaxDelay, d.Delay)
	}
}

func TestNextDelay_ExhaustedByAttempts(t *testing.T) {
	cfg := noJitterConfig()

	d := NextDelay(5, cfg, time.Now(), nil)
	if d.Retry {
		t.Errorf("expected exhaustion at max attempts, got retry with delay %v", d.Delay)
	}
}

func TestNextDelay_ExhaustedByDeadline(t *testing.T) {
	cfg := noJitterConfig()
	now := time.Now()
	cfg.Deadline = now.Add(50 * time.Millisecond) // first delay is 100ms

	d := NextDelay(1, cfg, now, nil)
	if d.Retry {
		t.Errorf("expected deadline exhaustion, got retry with delay %v", d.Delay)
	}
}

func TestNextDelay_DeadlineAllowsEarlyRetry(t *testing.T) {
	cfg := noJitterConfig()
	now := time.Now()
	cfg.Deadline = now.Add(10 * time.Second)

	d := NextDelay(1, cfg, now, nil)
	if !d.Retry {
		t.Error("expected retry within deadline")
	}
}

func TestNextDelay_JitterBounds(t *testing.T) {
	cfg := noJitterConfig()
	cfg.JitterFraction = 0.2

	base := 100 * time.Millisecond
	lo := time.Duration(float64(base) * 0.8)
	hi := time.Duration(float64(base) * 1.2)

	for _, r := range []float64{0, 0.25, 0.5, 0.75, 1} {
		rv := r
		d := NextDelay(1, cfg, time.Now(), func() float64 { return rv })
		if !d.Retry {
			t.Fatalf("rnd=%v: unexpected exhaustion", rv)
		}
		if d.Delay < lo || d.Delay > hi {
			t.Errorf("rnd=%v: delay %v outside jitter bounds [%v, %v]", rv, d.Delay, lo, hi)
		}
	}
}

func TestNextDelay_JitterNeverExceedsMax(t *testing.T) {
	cfg := noJitterConfig()
	cfg.JitterFraction = 0.5
	cfg.MaxAttempts = 50

	// Deep attempt, computed delay already at the cap; max jitter must
	// not push it over.
	d := NextDelay(30, cfg, time.Now(), func() float64 { return 1 })
	if !d.Retry {
		t.Fatal("unexpected exhaustion")
	}
	if d.Delay > cfg.MaxDelay {
		t.Errorf("jittered delay %v exceeds cap %v", d.Delay, cfg.MaxDelay)
	}
}
