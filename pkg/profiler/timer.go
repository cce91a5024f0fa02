package profiler

import (
	"errors"
	"time"

	"github.com/Werfer02/profiler/pkg/clock"
)

// ErrNotStarted is returned by Timer.Stop when Start was never called.
var ErrNotStarted = errors.New("profiler: timer stopped before start")

// Timer is the minimal start/stop measurement primitive every other
// timer kind builds on. It is not safe for concurrent use; each
// goroutine measures with its own Timer.
type Timer struct {
	clk     clock.Clock
	begin   time.Duration
	started bool
}

// NewTimer returns an unstarted timer reading from clk. A nil clk
// falls back to the system clock.
func NewTimer(clk clock.Clock) *Timer {
	if clk == nil {
		clk = clock.System()
	}
	return &Timer{clk: clk}
}

// Start captures the current instant. Calling Start again resets the
// measurement.
func (t *Timer) Start() {
	t.begin = t.clk.Now()
	t.started = true
}

// Stop returns the elapsed time since the last Start without resetting
// it, so repeated Stops each report elapsed-since-start. Stopping a
// timer that was never started returns ErrNotStarted and a zero
// duration.
func (t *Timer) Stop() (time.Duration, error) {
	if !t.started {
		return 0, ErrNotStarted
	}
	return t.clk.Now() - t.begin, nil
}
