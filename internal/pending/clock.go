package pending

import "time"

// Clock abstracts timer creation so bounded waits can be driven by a fake
// clock in tests instead of wall-clock sleeps.
type Clock interface {
	// NewTimer returns a timer that fires once after d.
	NewTimer(d time.Duration) Timer
}

// Timer is a single-shot timer. Stop must be safe to call after the timer
// has fired.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

// SystemClock is the default Clock, backed by the runtime timer.
type SystemClock struct{}

func (SystemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) C() <-chan time.Time { return s.t.C }
func (s systemTimer) Stop() bool          { return s.t.Stop() }
