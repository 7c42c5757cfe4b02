package maths

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func Mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values) / float64(len(values))
}

func finite(values []float64) []float64 {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// FiniteMean averages the values that are not NaN. The second result is
// the number of values used.
func FiniteMean(values []float64) (float64, int) {
	kept := finite(values)
	return Mean(kept...), len(kept)
}

// FiniteRange returns min and max of the values that are not NaN.
func FiniteRange(values []float64) (float64, float64, bool) {
	kept := finite(values)
	if len(kept) == 0 {
		return 0, 0, false
	}
	return floats.Min(kept), floats.Max(kept), true
}
