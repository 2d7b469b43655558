package calculator

import "math"

// Range returns the lowest and highest of values.
func Range(values []float64) (low, high float64, err error) {
	if len(values) == 0 {
		return 0, 0, ErrEmptyInput
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return low, high, nil
}
