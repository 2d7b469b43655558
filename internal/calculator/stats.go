package calculator

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"SkinIndex/internal/model"
)

// Mean returns the arithmetic average of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	return stat.Mean(values, nil), nil
}

// Median returns the middle value of the sorted values, or the average of the
// two middle values when the length is even.
func Median(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, ErrEmptyInput
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2, nil
	}
	return sorted[n/2], nil
}

// Mode returns the most frequent value. Ties resolve to the smallest tied value.
func Mode(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mode, best := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && (j == i || sorted[j] == sorted[i]) {
			j++
		}
		if j-i > best {
			mode, best = sorted[i], j-i
		}
		i = j
	}
	return mode, nil
}

// Variance returns the population variance (divides by N).
func Variance(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	return stat.PopVariance(values, nil), nil
}

// StandardDeviation returns the population standard deviation.
func StandardDeviation(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptyInput
	}
	return stat.PopStdDev(values, nil), nil
}

// Summarize computes every descriptive statistic over values.
func Summarize(values []float64) (*model.Summary, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	median, _ := Median(values)
	mode, _ := Mode(values)
	low, high, _ := Range(values)
	mean, variance := stat.PopMeanVariance(values, nil)
	std, _ := StandardDeviation(values)

	return &model.Summary{
		Count:    len(values),
		Mean:     mean,
		Median:   median,
		Mode:     mode,
		StdDev:   std,
		Variance: variance,
		Min:      low,
		Max:      high,
	}, nil
}
