package util

import "time"

// Clock abstracts time for components that sleep (mock providers simulate
// network latency through it) so tests can run without real delays.
type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

type RealClock struct{}

func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (RealClock) Now() time.Time                         { return time.Now() }

// ZeroClock fires timers immediately. Test helper.
type ZeroClock struct{}

func (ZeroClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (ZeroClock) Now() time.Time { return time.Time{} }
