package calculator

import (
	"fmt"

	"github.com/guregu/null/v6"
)

// MovingAverage returns the trailing mean over window for every position of values.
// Positions before the window fills hold an invalid null.Float.
// A window outside [1, len(values)] fails with ErrInvalidWindow.
func MovingAverage(values []float64, window int) ([]null.Float, error) {
	if window <= 0 || window > len(values) {
		return nil, fmt.Errorf("window %d over %d values: %w", window, len(values), ErrInvalidWindow)
	}

	out := make([]null.Float, len(values))
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = null.FloatFrom(sum / float64(window))
	}
	return out, nil
}
