package utils

import "math"

func Round1(v float64) float64 { return math.Round(v*10) / 10 }
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NonNegative returns 0 for negative v.
func NonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Pct is actual/goal as a percentage capped at 100.
func Pct(actual, goal float64) float64 {
	if goal <= 0 {
		if actual <= 0 {
			return 0
		}
		return 100
	}
	p := (actual / goal) * 100.0
	if p > 100 {
		p = 100
	}
	return Round2(p)
}

// Avg returns sum/n, or 0 when n is zero.
func Avg(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return sum / float64(n)
}
