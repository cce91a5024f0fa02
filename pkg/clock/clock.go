// Package clock abstracts the profiler's notion of "now" so that
// measurements can be driven by the system monotonic clock, the wall
// clock, or a fake clock in tests.
package clock

import (
	"sync"
	"time"
)

// Clock produces monotonic instants as a duration since an arbitrary,
// clock-private epoch. Instants from the same Clock are comparable
// arithmetically; instants from different Clocks are not. Swapping the
// clock of a profiler while timers are in flight is a caller error.
type Clock interface {
	Now() time.Duration
}

// processEpoch anchors the system clock. time.Since uses the runtime's
// monotonic reading, so System is immune to wall-clock adjustments.
var processEpoch = time.Now()

type systemClock struct{}

func (systemClock) Now() time.Duration {
	return time.Since(processEpoch)
}

// System returns the default monotonic clock.
func System() Clock {
	return systemClock{}
}

type wallClock struct{}

func (wallClock) Now() time.Duration {
	return time.Duration(time.Now().UnixNano())
}

// Wall returns a clock reporting duration since the Unix epoch. Unlike
// System it moves with wall-clock adjustments, which makes it suitable
// for correlating output across processes but not strictly monotonic.
func Wall() Clock {
	return wallClock{}
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Duration
}

// NewFake returns a fake clock starting at zero.
func NewFake() *Fake {
	return &Fake{}
}

// Now returns the fake clock's current instant.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now += d
}

// Set moves the clock to an absolute instant. Setting the clock
// backwards breaks the monotonicity assumption of elapsed-time
// computation and is only useful for testing misuse paths.
func (f *Fake) Set(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = d
}
