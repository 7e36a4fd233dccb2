package game

import "time"

// Scheduler runs a function once after a delay and hands back a cancel func.
// The session never keeps a reference past cancellation, so a cancelled task
// must not run.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

// NewScheduler returns the wall-clock scheduler used in production.
func NewScheduler() Scheduler { return timerScheduler{} }

func (timerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
