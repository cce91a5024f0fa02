package profiler

import "sync"

var (
	defaultOnce sync.Once
	defaultProf *Profiler
)

// Default returns a process-wide profiler built from DefaultConfig,
// created on first use. Convenient for ad-hoc measurement; anything
// that needs its own clock, sink or lifecycle should call New instead.
func Default() *Profiler {
	defaultOnce.Do(func() {
		defaultProf = New(DefaultConfig())
	})
	return defaultProf
}
