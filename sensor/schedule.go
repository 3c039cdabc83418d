package sensor

import "time"

type CancelFunc func()

// Scheduler plants a one-shot callback at a wall-clock instant. The
// returned CancelFunc is safe to call after the callback has fired.
type Scheduler interface {
	Schedule(at time.Time, fn func()) CancelFunc
}

type wallClockScheduler struct{}

func NewWallClockScheduler() Scheduler {
	return wallClockScheduler{}
}

func (wallClockScheduler) Schedule(at time.Time, fn func()) CancelFunc {
	t := time.AfterFunc(time.Until(at), fn)
	return func() { t.Stop() }
}
