package profiler

import (
	"errors"
	"testing"
	"time"

	"github.com/Werfer02/profiler/pkg/clock"
)

func TestTimerExactElapsed(t *testing.T) {
	fake := clock.NewFake()
	tests := []time.Duration{0, time.Nanosecond, 10 * time.Millisecond, 3 * time.Second, time.Hour}

	for _, d := range tests {
		tm := NewTimer(fake)
		tm.Start()
		fake.Advance(d)
		got, err := tm.Stop()
		if err != nil {
			t.Fatalf("Stop after Start: %v", err)
		}
		if got != d {
			t.Errorf("advanced %v, Stop returned %v", d, got)
		}
	}
}

func TestTimerStopBeforeStart(t *testing.T) {
	tm := NewTimer(clock.NewFake())
	d, err := tm.Stop()
	if !errors.Is(err, ErrNotStarted) {
		t.Fatalf("Stop before Start returned err %v, want ErrNotStarted", err)
	}
	if d != 0 {
		t.Errorf("Stop before Start returned %v, want 0", d)
	}
}

// Stop measures since the last Start, not since the last Stop.
func TestTimerRepeatedStop(t *testing.T) {
	fake := clock.NewFake()
	tm := NewTimer(fake)
	tm.Start()

	fake.Advance(10 * time.Millisecond)
	if got, _ := tm.Stop(); got != 10*time.Millisecond {
		t.Errorf("first Stop = %v, want 10ms", got)
	}

	fake.Advance(5 * time.Millisecond)
	if got, _ := tm.Stop(); got != 15*time.Millisecond {
		t.Errorf("second Stop = %v, want 15ms", got)
	}
}

func TestTimerRestart(t *testing.T) {
	fake := clock.NewFake()
	tm := NewTimer(fake)

	tm.Start()
	fake.Advance(time.Second)
	tm.Start()
	fake.Advance(100 * time.Millisecond)

	if got, _ := tm.Stop(); got != 100*time.Millisecond {
		t.Errorf("Stop after restart = %v, want 100ms", got)
	}
}

func TestTimerNilClockDefaults(t *testing.T) {
	tm := NewTimer(nil)
	tm.Start()
	if got, err := tm.Stop(); err != nil || got < 0 {
		t.Errorf("system-clock timer returned (%v, %v)", got, err)
	}
}
