package progress

// Level is the discrete classification of a progress value used to pick a
// display color.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelComplete
)

// Level thresholds, in percent.
const (
	mediumThreshold = 40.0
	highThreshold   = 70.0
)

// LevelOf classifies v. The value is clamped first.
func LevelOf(v float64) Level {
	v = Clamp(v)
	switch {
	case v >= MaxValue:
		return LevelComplete
	case v >= highThreshold:
		return LevelHigh
	case v >= mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// String returns the class name written to the render target.
func (l Level) String() string {
	switch l {
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	case LevelComplete:
		return "complete"
	default:
		return "low"
	}
}
