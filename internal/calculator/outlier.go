package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultOutlierThreshold is the absolute Z-score above which a value is an outlier.
const DefaultOutlierThreshold = 3.0

// ZScore returns (v - mean) / std.
func ZScore(v, mean, std float64) (float64, error) {
	if std == 0 {
		return 0, ErrDivideByZero
	}
	return (v - mean) / std, nil
}

// OutlierMask reports, per position, whether the value is kept at the given threshold.
// When every value is identical nothing is an outlier.
func OutlierMask(values []float64, threshold float64) []bool {
	keep := make([]bool, len(values))
	if len(values) == 0 {
		return keep
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	for i, v := range values {
		z, err := ZScore(v, mean, std)
		if err != nil {
			keep[i] = true
			continue
		}
		keep[i] = math.Abs(z) <= threshold
	}
	return keep
}

// RemoveOutliers returns the values whose absolute Z-score is within threshold.
// The input slice is not modified.
func RemoveOutliers(values []float64, threshold float64) []float64 {
	keep := OutlierMask(values, threshold)
	out := make([]float64, 0, len(values))
	for i, v := range values {
		if keep[i] {
			out = append(out, v)
		}
	}
	return out
}
