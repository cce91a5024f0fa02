package profiler

import (
	"sync"
	"time"

	"github.com/Werfer02/profiler/pkg/clock"
)

// Span brackets a code region: it starts measuring when created and
// dispatches its result when stopped. What "dispatch" means depends on
// the constructor: Scope spans emit immediately, Average and
// Cumulative spans deposit into the aggregation maps.
//
// Stop finalizes exactly once; later calls are no-ops, so the usual
// pattern is safe on every exit path:
//
//	defer p.Scope("load config").Stop()
type Span struct {
	id     string
	t      Timer
	once   sync.Once
	finish func(id string, d time.Duration)
}

func newSpan(clk clock.Clock, id string, finish func(string, time.Duration)) *Span {
	s := &Span{id: id, finish: finish}
	s.t = Timer{clk: clk}
	s.t.Start()
	return s
}

// Stop finalizes the span, measuring elapsed time since creation and
// dispatching it. Only the first call has any effect.
func (s *Span) Stop() {
	s.once.Do(func() {
		d, err := s.t.Stop()
		if err != nil {
			return
		}
		s.finish(s.id, d)
	})
}
