package timeutil

import "time"

// Sleeper abstracts time.Sleep so callers can inject a fake clock in
// tests instead of actually blocking.
type Sleeper interface {
	Sleep(d time.Duration)
}

// RealSleeper is the production Sleeper, backed by time.Sleep.
type RealSleeper struct{}

func NewRealSleeper() RealSleeper {
	return RealSleeper{}
}

func (RealSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}
