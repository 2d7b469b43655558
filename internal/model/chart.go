package model

import "github.com/guregu/null/v6"

// MovingAverageOverlay is one moving-average line aligned with a chart's labels.
// Values before the window fills are null.
type MovingAverageOverlay struct {
	Window       int          `json:"window"`
	Values       []null.Float `json:"values"`
	Insufficient bool         `json:"insufficient,omitempty"`
}

// Chart is the line-chart payload for one index.
type Chart struct {
	Index           string                 `json:"index"`
	Title           string                 `json:"title"`
	Labels          []string               `json:"labels"`
	Prices          []float64              `json:"prices"`
	MovingAverages  []MovingAverageOverlay `json:"moving_averages"`
	OutliersRemoved int                    `json:"outliers_removed"`
	TrimmedDays     int                    `json:"trimmed_days"`
}

// Projection is the trend-extrapolation payload for one index.
type Projection struct {
	Index           string               `json:"index"`
	Title           string               `json:"title"`
	PastLabels      []string             `json:"past_labels"`
	PastPrices      []float64            `json:"past_prices"`
	MovingAverage   MovingAverageOverlay `json:"moving_average"`
	Horizon         int                  `json:"horizon"`
	Labels          []string             `json:"labels"`
	Values          []float64            `json:"values"`
	Slope           float64              `json:"slope"`
	Intercept       float64              `json:"intercept"`
	OutliersRemoved int                  `json:"outliers_removed"`
}

// Summary holds descriptive statistics over a set of prices.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}
