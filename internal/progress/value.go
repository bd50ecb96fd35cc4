package progress

import (
	"math"
	"strconv"
	"strings"
)

// Bounds of a progress value, in percent.
const (
	MinValue = 0.0
	MaxValue = 100.0
)

// Clamp forces v into [0, 100]. NaN is treated as 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return MinValue
	case v < MinValue:
		return MinValue
	case v > MaxValue:
		return MaxValue
	}
	return v
}

// ParseValue reads a percentage from attribute text such as "73", " 41.5 "
// or "73%". Anything that does not parse as a number yields 0.
func ParseValue(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return MinValue
	}
	return Clamp(v)
}

// FormatLabel renders the label text for v: the rounded integer followed by %.
func FormatLabel(v float64) string {
	return strconv.Itoa(int(math.Round(Clamp(v)))) + "%"
}

// Circumference returns the stroke length of a ring with the given radius.
func Circumference(radius float64) float64 {
	return 2 * math.Pi * radius
}

// ArcOffset returns the undrawn portion of a ring stroke showing v percent.
func ArcOffset(circumference, v float64) float64 {
	return circumference - (circumference * Clamp(v) / MaxValue)
}
