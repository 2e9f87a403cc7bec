package call

import "time"

// Timer is a scheduled backoff entry that can be stopped before it
// fires.
type Timer interface {
	// Stop cancels the timer, reporting whether it was stopped before
	// firing.
	Stop() bool
}

// Scheduler schedules backoff continuations. An operation never blocks
// a goroutine waiting out a retry delay; it hands the resubmission to
// a Scheduler and returns.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// SystemScheduler returns a Scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}

type systemScheduler struct{}

func (systemScheduler) Schedule(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
