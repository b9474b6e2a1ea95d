package hover

import "time"

// Timer is a cancelable scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it before it ran.
	Stop() bool
}

// Scheduler arms single-shot timers.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer heap.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
