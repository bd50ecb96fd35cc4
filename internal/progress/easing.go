package progress

// EaseOutCubic maps elapsed fraction t to eased progress: 1-(1-t)^3.
// t is clamped to [0, 1].
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv*inv
}

// interpolate returns the eased value between from and to at fraction t.
func interpolate(from, to, t float64) float64 {
	return from + (to-from)*EaseOutCubic(t)
}
