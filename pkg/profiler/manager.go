package profiler

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Werfer02/profiler/pkg/clock"
	"github.com/Werfer02/profiler/pkg/output"
)

// CumulativeSuffix distinguishes cumulative entries from average
// entries sharing the same logical identifier.
const CumulativeSuffix = " (cumulative)"

// accumulator is one aggregation kind's shared state: the collected
// samples, the loop interval and the loop-running guard. Average and
// cumulative aggregation each own an independent accumulator, so the
// two background loops never contend on one flag or one lock.
type accumulator struct {
	mu       sync.Mutex
	samples  map[string][]time.Duration
	running  bool
	interval time.Duration
}

func (a *accumulator) add(id string, d time.Duration) {
	a.mu.Lock()
	if a.samples == nil {
		a.samples = make(map[string][]time.Duration)
	}
	a.samples[id] = append(a.samples[id], d)
	a.mu.Unlock()
}

// drain swaps the sample map out under a single lock acquisition, so a
// sample lands either in this drain or the next one, never in both and
// never in neither.
func (a *accumulator) drain() map[string][]time.Duration {
	a.mu.Lock()
	taken := a.samples
	a.samples = nil
	a.mu.Unlock()
	return taken
}

// tryStart flips the loop guard, reporting whether this caller won.
func (a *accumulator) tryStart() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return false
	}
	a.running = true
	return true
}

func (a *accumulator) setInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	a.mu.Lock()
	a.interval = d
	a.mu.Unlock()
}

func (a *accumulator) getInterval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// manager owns the aggregation maps, the session start time and the
// background loop lifecycle. Samples accumulate without bound between
// drains; callers that record but never drain trade memory for
// simplicity.
type manager struct {
	pipeline *output.Pipeline
	clk      func() clock.Clock
	logger   *zap.Logger

	avg accumulator
	cum accumulator

	startMu  sync.Mutex
	start    time.Duration
	startSet bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newManager(pipeline *output.Pipeline, clk func() clock.Clock, logger *zap.Logger, avgInterval, cumInterval time.Duration) *manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &manager{
		pipeline: pipeline,
		clk:      clk,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	m.avg.interval = avgInterval
	m.cum.interval = cumInterval
	return m
}

func (m *manager) addAverage(id string, d time.Duration) {
	m.avg.add(id, d)
}

func (m *manager) addCumulative(id string, d time.Duration) {
	m.cum.add(id+CumulativeSuffix, d)
}

func (m *manager) setStartTime(t time.Duration) {
	m.startMu.Lock()
	m.start = t
	m.startSet = true
	m.startMu.Unlock()
}

// ensureStartTime records the session start on first loop start unless
// SetStartTime already did.
func (m *manager) ensureStartTime() {
	m.startMu.Lock()
	if !m.startSet {
		m.start = m.clk().Now()
		m.startSet = true
	}
	m.startMu.Unlock()
}

func (m *manager) elapsed() time.Duration {
	m.startMu.Lock()
	start := m.start
	m.startMu.Unlock()
	return m.clk().Now() - start
}

// logAverage drains the average map and emits each identifier's mean,
// preceded by a session-elapsed line. An empty map emits nothing.
func (m *manager) logAverage() {
	m.emitDrained(m.avg.drain(), func(samples []time.Duration) time.Duration {
		return mean(samples)
	})
}

// logCumulative drains the cumulative map and emits each identifier's
// sum.
func (m *manager) logCumulative() {
	m.emitDrained(m.cum.drain(), func(samples []time.Duration) time.Duration {
		return sum(samples)
	})
}

func (m *manager) emitDrained(drained map[string][]time.Duration, reduce func([]time.Duration) time.Duration) {
	if len(drained) == 0 {
		return
	}
	ids := make([]string, 0, len(drained))
	for id := range drained {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	elapsed := m.elapsed()
	for _, id := range ids {
		m.pipeline.EmitElapsed(elapsed)
		m.pipeline.Emit(id, reduce(drained[id]))
	}
}

func sum(samples []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return total
}

func mean(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	return sum(samples) / time.Duration(len(samples))
}

// startAverageLoop starts the background average drain loop. It
// reports whether a loop was started; a second call finds the guard
// set and degrades to a diagnostic.
func (m *manager) startAverageLoop() bool {
	return m.startLoop(&m.avg, "average", m.logAverage)
}

// startCumulativeLoop starts the background cumulative drain loop.
func (m *manager) startCumulativeLoop() bool {
	return m.startLoop(&m.cum, "cumulative", m.logCumulative)
}

func (m *manager) startLoop(a *accumulator, kind string, drain func()) bool {
	if m.ctx.Err() != nil {
		m.logger.Warn("logging loop refused after close", zap.String("kind", kind))
		return false
	}
	if !a.tryStart() {
		m.logger.Warn("logging loop already running", zap.String("kind", kind))
		return false
	}
	m.ensureStartTime()
	m.logger.Debug("starting logging loop",
		zap.String("kind", kind),
		zap.Duration("interval", a.getInterval()))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			// The interval is re-read every cycle so interval changes
			// apply at the next sleep.
			select {
			case <-m.ctx.Done():
				return
			case <-time.After(a.getInterval()):
				drain()
			}
		}
	}()
	return true
}

// snapshot reduces both maps without draining them.
func (m *manager) snapshot() []output.SummaryRow {
	rows := collectRows(&m.avg)
	rows = append(rows, collectRows(&m.cum)...)
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func collectRows(a *accumulator) []output.SummaryRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	rows := make([]output.SummaryRow, 0, len(a.samples))
	for id, samples := range a.samples {
		rows = append(rows, output.SummaryRow{
			ID:    id,
			Count: len(samples),
			Total: sum(samples),
			Mean:  mean(samples),
		})
	}
	return rows
}

// close cancels both loops and joins them.
func (m *manager) close() {
	m.cancel()
	m.wg.Wait()
}
