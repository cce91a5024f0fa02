// Package units holds the display policy for durations: which unit
// values are rendered in, and the suffix printed after them.
package units

import (
	"math"
	"time"
)

// Unit is a duration display unit.
type Unit int

const (
	Seconds Unit = iota
	Milliseconds
	Microseconds
	Nanoseconds
	Minutes
	Hours
	Days
)

// nanosPerUnit maps a unit's length in nanoseconds to its canonical
// suffix. Keyed by length rather than Unit so that SuffixForScale can
// resolve arbitrary scale factors.
var nanosPerUnit = map[int64]string{
	int64(time.Second):      "s",
	int64(time.Millisecond): "ms",
	int64(time.Microsecond): "us",
	1:                       "ns",
	int64(time.Minute):      "min",
	int64(time.Hour):        "h",
	int64(24 * time.Hour):   "d",
}

// span returns the unit's length. Unknown values read as seconds, the
// original default scale.
func (u Unit) span() time.Duration {
	switch u {
	case Nanoseconds:
		return time.Nanosecond
	case Microseconds:
		return time.Microsecond
	case Milliseconds:
		return time.Millisecond
	case Minutes:
		return time.Minute
	case Hours:
		return time.Hour
	case Days:
		return 24 * time.Hour
	default:
		return time.Second
	}
}

// Scale returns how many of this unit fit in one second. Milliseconds
// scale to 1000, minutes to 1/60, and so on.
func (u Unit) Scale() float64 {
	return float64(time.Second) / float64(u.span())
}

// Suffix returns the unit's canonical suffix.
func (u Unit) Suffix() string {
	return nanosPerUnit[int64(u.span())]
}

// String implements fmt.Stringer.
func (u Unit) String() string {
	return u.Suffix()
}

// SuffixForScale maps a scale factor (units per second) back to its
// suffix. A scale that does not correspond to a canonical unit yields
// "?".
func SuffixForScale(scale float64) string {
	if scale == 0 {
		return "?"
	}
	// Rounded, not truncated: the inverse of a sub-second scale is not
	// exactly representable and may land one nanosecond short.
	if s, ok := nanosPerUnit[int64(math.Round((1/scale)*float64(time.Second)))]; ok {
		return s
	}
	return "?"
}

// Convert renders d in the given unit.
func Convert(d time.Duration, u Unit) float64 {
	return d.Seconds() * u.Scale()
}

// Parse maps a unit name or suffix to a Unit. Unrecognized names fall
// back to seconds, mirroring the formatter's "never fail" policy.
func Parse(name string) Unit {
	switch name {
	case "ns", "nanoseconds":
		return Nanoseconds
	case "us", "microseconds":
		return Microseconds
	case "ms", "milliseconds":
		return Milliseconds
	case "min", "minutes":
		return Minutes
	case "h", "hours":
		return Hours
	case "d", "days":
		return Days
	case "s", "seconds":
		return Seconds
	default:
		return Seconds
	}
}
