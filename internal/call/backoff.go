package call

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig holds the retry budget for one logical call.
type BackoffConfig struct {
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	Multiplier     float64
	MaxAttempts    int
	JitterFraction float64   // ±fraction of the computed delay, e.g. 0.2
	Deadline       time.Time // zero means no absolute deadline
}

// DefaultBackoffConfig provides sensible defaults.
var DefaultBackoffConfig = BackoffConfig{
	InitialDelay:   100 * time.Millisecond,
	MaxDelay:       60 * time.Second,
	Multiplier:     2.0,
	MaxAttempts:    5,
	JitterFraction: 0.2,
}

// RetryDecision is the outcome of consulting the backoff policy after
// a retryable failure: either wait Delay and try again, or stop.
type RetryDecision struct {
	Retry bool
	Delay time.Duration
}

// NextDelay computes the delay before the next attempt, or reports
// exhaustion. attemptsMade counts completed attempts and is at least 1
// when the policy is consulted. The delay grows as
// InitialDelay * Multiplier^(attemptsMade-1), capped at MaxDelay, with
// bounded random jitter so concurrent operations do not retry in
// lockstep. Exhausted when attemptsMade reaches MaxAttempts or the
// delay would overrun the absolute deadline.
//
// Pure function: the time source and jitter source are parameters. A
// nil rnd falls back to math/rand.
func NextDelay(attemptsMade int, cfg BackoffConfig, now time.Time, rnd func() float64) RetryDecision {
	if attemptsMade >= cfg.MaxAttempts {
		return RetryDecision{}
	}

	d := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attemptsMade-1))
	if d > float64(cfg.MaxDelay) {
		d = float64(cfg.MaxDelay)
	}

	if cfg.JitterFraction > 0 {
		if rnd == nil {
			rnd = rand.Float64
		}
		// Random value in ±JitterFraction of the computed delay,
		// clamped back into [0, MaxDelay].
		d += (rnd()*2 - 1) * cfg.JitterFraction * d
		if d < 0 {
			d = 0
		}
		if d > float64(cfg.MaxDelay) {
			d = float64(cfg.MaxDelay)
		}
	}

	delay := time.Duration(d)
	if !cfg.Deadline.IsZero() && now.Add(delay).After(cfg.Deadline) {
		return RetryDecision{}
	}
	return RetryDecision{Retry: true, Delay: delay}
}
