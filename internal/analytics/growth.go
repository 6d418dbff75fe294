package analytics

// GrowthRate returns the percentage change from previous to current.
// A zero baseline is clamped to 100 (any growth) or 0 (none).
func GrowthRate(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
