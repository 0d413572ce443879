package pricing

import "math"

// RoundToCents rounds an amount to the currency's minor-unit precision.
func RoundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
