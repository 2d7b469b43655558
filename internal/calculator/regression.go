package calculator

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Trend is an ordinary least squares fit of value against sequence position.
type Trend struct {
	Slope     float64
	Intercept float64
	N         int
}

// At returns the fitted value at position x.
func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// Fit regresses values on their positions 0..n-1.
func Fit(values []float64) (Trend, error) {
	n := len(values)
	if n < 2 {
		return Trend{}, fmt.Errorf("%d points, need at least 2: %w", n, ErrInsufficientData)
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	if stat.PopVariance(xs, nil) == 0 {
		return Trend{}, fmt.Errorf("zero variance in positions: %w", ErrDivideByZero)
	}

	intercept, slope := stat.LinearRegression(xs, values, nil, false)
	return Trend{Slope: slope, Intercept: intercept, N: n}, nil
}

// Project extrapolates the fitted trend of values horizon steps past the last point.
func Project(values []float64, horizon int) ([]float64, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("horizon %d: %w", horizon, ErrInvalidHorizon)
	}
	trend, err := Fit(values)
	if err != nil {
		return nil, err
	}

	out := make([]float64, horizon)
	for k := range horizon {
		out[k] = trend.At(float64(trend.N + k))
	}
	return out, nil
}
