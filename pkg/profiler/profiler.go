// Package profiler measures elapsed monotonic time around code regions
// and reports it as text through a configurable pipeline.
//
// A Profiler owns all state: the clock, the output pipeline and the
// aggregation maps. Independent profilers do not share anything, so a
// test can build its own against a fake clock and an in-memory buffer.
//
//	p := profiler.New(profiler.Config{Unit: units.Milliseconds})
//	defer p.Close()
//
//	func handle() {
//		defer p.Average("handle").Stop()
//		...
//	}
//
//	p.StartAverageLoop() // drain and print periodically
package profiler

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Werfer02/profiler/pkg/clock"
	"github.com/Werfer02/profiler/pkg/output"
	"github.com/Werfer02/profiler/pkg/units"
)

// Config configures a Profiler. The zero value is usable: system
// clock, stdout, seconds, default formatters, one-second loop
// intervals.
type Config struct {
	// Clock supplies instants. Defaults to clock.System().
	Clock clock.Clock

	// Writer receives all formatted output. Defaults to os.Stdout.
	Writer io.Writer

	// Unit is the display unit for all output.
	Unit units.Unit

	// Format and ElapsedFormat override the default formatters.
	Format        output.FormatFunc
	ElapsedFormat output.ElapsedFormatFunc

	// AverageInterval and CumulativeInterval are the background loop
	// sleep durations. Defaults to one second each.
	AverageInterval    time.Duration
	CumulativeInterval time.Duration

	// Logger receives diagnostics (never measurement output). Nil
	// disables diagnostics.
	Logger *zap.Logger
}

// DefaultConfig returns the configuration New applies for zero fields.
func DefaultConfig() Config {
	return Config{
		Clock:              clock.System(),
		Writer:             os.Stdout,
		Unit:               units.Seconds,
		AverageInterval:    time.Second,
		CumulativeInterval: time.Second,
	}
}

// Profiler is a self-contained measurement context.
type Profiler struct {
	session  string
	mu       sync.RWMutex
	clk      clock.Clock
	pipeline *output.Pipeline
	mgr      *manager
	logger   *zap.Logger
}

// New builds a Profiler from cfg, filling zero fields from
// DefaultConfig.
func New(cfg Config) *Profiler {
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.AverageInterval <= 0 {
		cfg.AverageInterval = time.Second
	}
	if cfg.CumulativeInterval <= 0 {
		cfg.CumulativeInterval = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pipeline := output.NewPipeline(cfg.Writer)
	pipeline.SetUnit(cfg.Unit)
	pipeline.SetFormat(cfg.Format)
	pipeline.SetElapsedFormat(cfg.ElapsedFormat)

	p := &Profiler{
		session:  uuid.NewString(),
		clk:      cfg.Clock,
		pipeline: pipeline,
		logger:   logger,
	}
	p.mgr = newManager(pipeline, p.Clock, logger, cfg.AverageInterval, cfg.CumulativeInterval)
	p.logger.Debug("profiler session created", zap.String("session", p.session))
	return p
}

// Session returns the profiler's session identifier, attached to all
// diagnostics.
func (p *Profiler) Session() string {
	return p.session
}

// Clock returns the profiler's current clock.
func (p *Profiler) Clock() clock.Clock {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clk
}

// SetClock replaces the clock for subsequently created timers and
// spans and for session-elapsed computation. Timers already running
// keep the clock they started with; swapping clocks with differing
// epochs while spans are in flight skews the session start, so do it
// before measuring, not during. Nil is ignored.
func (p *Profiler) SetClock(c clock.Clock) {
	if c == nil {
		return
	}
	p.mu.Lock()
	p.clk = c
	p.mu.Unlock()
}

// NewTimer returns an unstarted Timer on the profiler's clock.
func (p *Profiler) NewTimer() *Timer {
	return NewTimer(p.Clock())
}

// Scope starts a span that emits immediately when stopped. Concurrent
// scope spans with the same identifier each emit their own line.
func (p *Profiler) Scope(id string) *Span {
	return newSpan(p.Clock(), id, p.pipeline.Emit)
}

// Average starts a span whose sample is deposited for mean reduction.
func (p *Profiler) Average(id string) *Span {
	return newSpan(p.Clock(), id, p.mgr.addAverage)
}

// Cumulative starts a span whose sample is deposited for sum
// reduction, under the identifier plus CumulativeSuffix.
func (p *Profiler) Cumulative(id string) *Span {
	return newSpan(p.Clock(), id, p.mgr.addCumulative)
}

// Time measures fn and emits immediately.
func (p *Profiler) Time(id string, fn func()) {
	s := p.Scope(id)
	defer s.Stop()
	fn()
}

// TimeAverage measures fn and deposits the sample for mean reduction.
func (p *Profiler) TimeAverage(id string, fn func()) {
	s := p.Average(id)
	defer s.Stop()
	fn()
}

// TimeCumulative measures fn and deposits the sample for sum
// reduction.
func (p *Profiler) TimeCumulative(id string, fn func()) {
	s := p.Cumulative(id)
	defer s.Stop()
	fn()
}

// AddAverageTime deposits an externally measured sample for mean
// reduction.
func (p *Profiler) AddAverageTime(id string, d time.Duration) {
	p.mgr.addAverage(id, d)
}

// AddCumulativeTime deposits an externally measured sample for sum
// reduction.
func (p *Profiler) AddCumulativeTime(id string, d time.Duration) {
	p.mgr.addCumulative(id, d)
}

// LogAverage drains the average samples and emits each identifier's
// mean, preceded by a session-elapsed line. Draining an empty map
// emits nothing.
func (p *Profiler) LogAverage() {
	p.mgr.logAverage()
}

// LogCumulative drains the cumulative samples and emits each
// identifier's sum.
func (p *Profiler) LogCumulative() {
	p.mgr.logCumulative()
}

// StartAverageLoop starts the background average drain loop and
// reports whether it started one. At most one loop per kind runs;
// further calls return false. The session start time is recorded if it
// was not set yet.
func (p *Profiler) StartAverageLoop() bool {
	return p.mgr.startAverageLoop()
}

// StartCumulativeLoop starts the background cumulative drain loop.
func (p *Profiler) StartCumulativeLoop() bool {
	return p.mgr.startCumulativeLoop()
}

// SetAverageInterval changes the average loop's sleep duration,
// applying at its next cycle. Non-positive values are ignored.
func (p *Profiler) SetAverageInterval(d time.Duration) {
	p.mgr.avg.setInterval(d)
}

// SetCumulativeInterval changes the cumulative loop's sleep duration.
func (p *Profiler) SetCumulativeInterval(d time.Duration) {
	p.mgr.cum.setInterval(d)
}

// SetStartTime overrides the session start instant.
func (p *Profiler) SetStartTime(t time.Duration) {
	p.mgr.setStartTime(t)
}

// MarkStart records the current instant as the session start.
func (p *Profiler) MarkStart() {
	p.mgr.setStartTime(p.Clock().Now())
}

// Elapsed returns time elapsed since the session start.
func (p *Profiler) Elapsed() time.Duration {
	return p.mgr.elapsed()
}

// SetUnit changes the display unit for subsequent output.
func (p *Profiler) SetUnit(u units.Unit) {
	p.pipeline.SetUnit(u)
}

// SetWriter redirects subsequent output to w.
func (p *Profiler) SetWriter(w io.Writer) {
	p.pipeline.SetWriter(w)
}

// SetFormat replaces the measurement formatter.
func (p *Profiler) SetFormat(f output.FormatFunc) {
	p.pipeline.SetFormat(f)
}

// SetElapsedFormat replaces the session-elapsed formatter.
func (p *Profiler) SetElapsedFormat(f output.ElapsedFormatFunc) {
	p.pipeline.SetElapsedFormat(f)
}

// Snapshot reduces the currently collected samples of both kinds
// without draining them, sorted by identifier.
func (p *Profiler) Snapshot() []output.SummaryRow {
	return p.mgr.snapshot()
}

// Close stops the background loops and waits for them to exit.
// Collected but undrained samples stay in place; call LogAverage or
// LogCumulative first to flush them.
func (p *Profiler) Close() {
	p.mgr.close()
	p.logger.Debug("profiler session closed", zap.String("session", p.session))
}
