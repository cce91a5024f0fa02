// Package output is the profiler's text pipeline: pluggable formatter
// functions feeding a pluggable sink, with a shared display unit.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Werfer02/profiler/pkg/units"
)

// FormatFunc renders one measurement as text. Implementations must
// include any trailing newline they want.
type FormatFunc func(id string, d time.Duration, u units.Unit) string

// ElapsedFormatFunc renders the time elapsed since the session start.
type ElapsedFormatFunc func(elapsed time.Duration, u units.Unit) string

// DefaultFormat renders "|| <id> took <value><suffix>".
func DefaultFormat(id string, d time.Duration, u units.Unit) string {
	return fmt.Sprintf("|| %s took %.6g%s\n", id, units.Convert(d, u), u.Suffix())
}

// ColonFormat renders "|| <id>: <value><suffix>".
func ColonFormat(id string, d time.Duration, u units.Unit) string {
	return fmt.Sprintf("|| %s: %.6g%s\n", id, units.Convert(d, u), u.Suffix())
}

// DefaultElapsedFormat renders "|| elapsed time: <value><suffix>".
func DefaultElapsedFormat(elapsed time.Duration, u units.Unit) string {
	return fmt.Sprintf("|| elapsed time: %.6g%s\n", units.Convert(elapsed, u), u.Suffix())
}

// JSONFormat renders one measurement as a single-line JSON object.
func JSONFormat(id string, d time.Duration, u units.Unit) string {
	b, err := json.Marshal(struct {
		ID    string  `json:"id"`
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}{id, units.Convert(d, u), u.Suffix()})
	if err != nil {
		return ""
	}
	return string(b) + "\n"
}

// JSONElapsedFormat renders the session-elapsed announcement as JSON.
func JSONElapsedFormat(elapsed time.Duration, u units.Unit) string {
	b, err := json.Marshal(struct {
		Elapsed float64 `json:"elapsed"`
		Unit    string  `json:"unit"`
	}{units.Convert(elapsed, u), u.Suffix()})
	if err != nil {
		return ""
	}
	return string(b) + "\n"
}

// Pipeline owns the sink, the display unit and both formatter slots.
// Every slot may be swapped at runtime; a swap affects subsequent
// emissions only. All access goes through one RWMutex so concurrent
// reconfiguration is safe, though interleaving of concurrent emissions
// is whatever the sink provides.
type Pipeline struct {
	mu            sync.RWMutex
	w             io.Writer
	unit          units.Unit
	format        FormatFunc
	elapsedFormat ElapsedFormatFunc
}

// NewPipeline returns a pipeline writing to w with default formatters
// and seconds as the display unit. A nil w falls back to stdout.
func NewPipeline(w io.Writer) *Pipeline {
	if w == nil {
		w = os.Stdout
	}
	return &Pipeline{
		w:             w,
		unit:          units.Seconds,
		format:        DefaultFormat,
		elapsedFormat: DefaultElapsedFormat,
	}
}

// SetWriter redirects all subsequent output to w. Nil is ignored.
func (p *Pipeline) SetWriter(w io.Writer) {
	if w == nil {
		return
	}
	p.mu.Lock()
	p.w = w
	p.mu.Unlock()
}

// SetUnit changes the display unit for subsequent emissions.
func (p *Pipeline) SetUnit(u units.Unit) {
	p.mu.Lock()
	p.unit = u
	p.mu.Unlock()
}

// Unit returns the current display unit.
func (p *Pipeline) Unit() units.Unit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.unit
}

// SetFormat replaces the measurement formatter. Nil is ignored.
func (p *Pipeline) SetFormat(f FormatFunc) {
	if f == nil {
		return
	}
	p.mu.Lock()
	p.format = f
	p.mu.Unlock()
}

// SetElapsedFormat replaces the session-elapsed formatter. Nil is ignored.
func (p *Pipeline) SetElapsedFormat(f ElapsedFormatFunc) {
	if f == nil {
		return
	}
	p.mu.Lock()
	p.elapsedFormat = f
	p.mu.Unlock()
}

// Emit formats and writes one measurement. Write errors are swallowed:
// the profiler never interrupts the program it measures.
func (p *Pipeline) Emit(id string, d time.Duration) {
	p.mu.RLock()
	w, f, u := p.w, p.format, p.unit
	p.mu.RUnlock()
	io.WriteString(w, f(id, d, u))
}

// EmitElapsed formats and writes the session-elapsed announcement.
func (p *Pipeline) EmitElapsed(elapsed time.Duration) {
	p.mu.RLock()
	w, f, u := p.w, p.elapsedFormat, p.unit
	p.mu.RUnlock()
	io.WriteString(w, f(elapsed, u))
}
