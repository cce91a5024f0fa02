package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Werfer02/profiler/pkg/units"
)

func TestDefaultFormat(t *testing.T) {
	got := DefaultFormat("query", 1500*time.Millisecond, units.Milliseconds)
	want := "|| query took 1500ms\n"
	if got != want {
		t.Errorf("DefaultFormat = %q, want %q", got, want)
	}
}

func TestColonFormat(t *testing.T) {
	got := ColonFormat("query", 2*time.Second, units.Seconds)
	want := "|| query: 2s\n"
	if got != want {
		t.Errorf("ColonFormat = %q, want %q", got, want)
	}
}

func TestDefaultElapsedFormat(t *testing.T) {
	got := DefaultElapsedFormat(90*time.Second, units.Minutes)
	want := "|| elapsed time: 1.5min\n"
	if got != want {
		t.Errorf("DefaultElapsedFormat = %q, want %q", got, want)
	}
}

func TestJSONFormat(t *testing.T) {
	line := JSONFormat("x", 250*time.Millisecond, units.Milliseconds)
	var decoded struct {
		ID    string  `json:"id"`
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("JSONFormat produced invalid JSON: %v", err)
	}
	if decoded.ID != "x" || decoded.Value != 250 || decoded.Unit != "ms" {
		t.Errorf("JSONFormat decoded to %+v", decoded)
	}
}

func TestPipelineEmit(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(&buf)
	p.SetUnit(units.Milliseconds)

	p.Emit("step", 20*time.Millisecond)
	if got, want := buf.String(), "|| step took 20ms\n"; got != want {
		t.Errorf("Emit wrote %q, want %q", got, want)
	}
}

// A reconfigured unit must change subsequent emissions only, never text
// already written.
func TestPipelineUnitChangeNotRetroactive(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(&buf)
	p.SetUnit(units.Milliseconds)

	p.Emit("a", time.Second)
	p.SetUnit(units.Seconds)
	p.Emit("a", time.Second)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "|| a took 1000ms" {
		t.Errorf("first line = %q, want ms rendering", lines[0])
	}
	if lines[1] != "|| a took 1s" {
		t.Errorf("second line = %q, want s rendering", lines[1])
	}
}

func TestPipelineSetWriter(t *testing.T) {
	var first, second bytes.Buffer
	p := NewPipeline(&first)

	p.Emit("a", time.Second)
	p.SetWriter(&second)
	p.Emit("b", time.Second)

	if !strings.Contains(first.String(), "a took") || strings.Contains(first.String(), "b took") {
		t.Errorf("first sink got %q", first.String())
	}
	if !strings.Contains(second.String(), "b took") {
		t.Errorf("second sink got %q", second.String())
	}
}

func TestPipelineCustomFormat(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(&buf)
	p.SetFormat(func(id string, d time.Duration, u units.Unit) string {
		return "custom " + id + "\n"
	})

	p.Emit("x", time.Second)
	if got := buf.String(); got != "custom x\n" {
		t.Errorf("custom format wrote %q", got)
	}
}

func TestPipelineNilSettersIgnored(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline(&buf)
	p.SetFormat(nil)
	p.SetElapsedFormat(nil)
	p.SetWriter(nil)

	p.Emit("x", time.Second)
	if buf.Len() == 0 {
		t.Error("pipeline broken after nil setters")
	}
}

func TestSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	rows := []SummaryRow{
		{ID: "encode", Count: 3, Total: 60 * time.Millisecond, Mean: 20 * time.Millisecond},
		{ID: "decode", Count: 1, Total: 5 * time.Millisecond, Mean: 5 * time.Millisecond},
	}
	if err := SummaryTable(&buf, rows, units.Milliseconds); err != nil {
		t.Fatalf("SummaryTable: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"encode", "decode", "60", "20", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
