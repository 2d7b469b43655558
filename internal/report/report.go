// Package report assembles chart, projection and summary payloads for an index.
package report

import (
	"errors"
	"fmt"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"SkinIndex/internal/aggregator"
	"SkinIndex/internal/calculator"
	"SkinIndex/internal/model"
	"SkinIndex/internal/store"
)

var ErrDayNotFound = errors.New("day not found")

// ChartOptions controls how a chart is derived from an index.
type ChartOptions struct {
	Windows          []int
	TrimDays         int
	RemoveOutliers   bool
	OutlierThreshold float64
}

// ProjectionOptions controls the trend projection of an index.
type ProjectionOptions struct {
	Horizon          int
	Window           int
	RemoveOutliers   bool
	OutlierThreshold float64
}

// DayDetail is one day of an index with its derived mean.
type DayDetail struct {
	model.DaySeries
	Mean   float64         `json:"mean"`
	Volume decimal.Decimal `json:"volume"`
}

type series struct {
	labels  []string
	prices  []float64
	removed int
}

// derive returns the per-day mean prices and their labels, optionally without
// the outlier days. Labels stay aligned with prices.
func derive(idx *store.Index, removeOutliers bool, threshold float64) (*series, error) {
	if len(idx.Days) == 0 {
		return nil, fmt.Errorf("index %s has no data: %w", idx.Name, calculator.ErrInsufficientData)
	}
	prices, err := aggregator.AveragePerDay(idx.Days)
	if err != nil {
		return nil, err
	}
	s := &series{labels: aggregator.Labels(idx.Days), prices: prices}
	if !removeOutliers {
		return s, nil
	}

	keep := calculator.OutlierMask(prices, threshold)
	labels := make([]string, 0, len(prices))
	kept := make([]float64, 0, len(prices))
	for i, k := range keep {
		if k {
			labels = append(labels, s.labels[i])
			kept = append(kept, prices[i])
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("index %s: outlier filter at threshold %g left no days: %w",
			idx.Name, threshold, calculator.ErrInsufficientData)
	}
	s.removed = len(prices) - len(kept)
	s.labels, s.prices = labels, kept
	return s, nil
}

// overlay computes one moving-average line. A window longer than the series
// gives an all-null line marked insufficient.
func overlay(prices []float64, window int) (model.MovingAverageOverlay, error) {
	if window <= 0 {
		return model.MovingAverageOverlay{}, fmt.Errorf("window %d: %w", window, calculator.ErrInvalidWindow)
	}
	values, err := calculator.MovingAverage(prices, window)
	if errors.Is(err, calculator.ErrInvalidWindow) {
		return model.MovingAverageOverlay{
			Window:       window,
			Values:       make([]null.Float, len(prices)),
			Insufficient: true,
		}, nil
	}
	if err != nil {
		return model.MovingAverageOverlay{}, err
	}
	return model.MovingAverageOverlay{Window: window, Values: values}, nil
}

// BuildChart returns the daily mean prices of idx with a moving average per window.
// The most recent TrimDays days are left out before outlier filtering.
func BuildChart(idx *store.Index, opts ChartOptions) (*model.Chart, error) {
	if opts.TrimDays < 0 {
		return nil, fmt.Errorf("trim %d: %w", opts.TrimDays, calculator.ErrInvalidWindow)
	}
	if len(idx.Days) <= opts.TrimDays {
		return nil, fmt.Errorf("index %s has %d days, trim %d: %w",
			idx.Name, len(idx.Days), opts.TrimDays, calculator.ErrInsufficientData)
	}

	trimmed := *idx
	trimmed.Days = idx.Days[:len(idx.Days)-opts.TrimDays]
	s, err := derive(&trimmed, opts.RemoveOutliers, opts.OutlierThreshold)
	if err != nil {
		return nil, err
	}

	chart := &model.Chart{
		Index:           idx.Name,
		Title:           idx.Title,
		Labels:          s.labels,
		Prices:          s.prices,
		MovingAverages:  make([]model.MovingAverageOverlay, 0, len(opts.Windows)),
		OutliersRemoved: s.removed,
		TrimmedDays:     opts.TrimDays,
	}
	for _, w := range opts.Windows {
		ov, err := overlay(s.prices, w)
		if err != nil {
			return nil, err
		}
		chart.MovingAverages = append(chart.MovingAverages, ov)
	}
	return chart, nil
}

// BuildProjection fits a linear trend to the daily mean prices of idx and
// extrapolates it Horizon periods forward.
func BuildProjection(idx *store.Index, opts ProjectionOptions) (*model.Projection, error) {
	s, err := derive(idx, opts.RemoveOutliers, opts.OutlierThreshold)
	if err != nil {
		return nil, err
	}
	trend, err := calculator.Fit(s.prices)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", idx.Name, err)
	}
	if opts.Horizon < 0 {
		return nil, fmt.Errorf("horizon %d: %w", opts.Horizon, calculator.ErrInvalidHorizon)
	}
	values := make([]float64, opts.Horizon)
	for k := range values {
		values[k] = trend.At(float64(trend.N + k))
	}
	ma, err := overlay(s.prices, opts.Window)
	if err != nil {
		return nil, err
	}

	past := make([]string, len(s.prices))
	for i := range past {
		past[i] = fmt.Sprintf("Day %d", i+1)
	}
	labels := make([]string, opts.Horizon)
	for i := range labels {
		labels[i] = fmt.Sprintf("Period %d", i+1)
	}

	return &model.Projection{
		Index:           idx.Name,
		Title:           idx.Title,
		PastLabels:      past,
		PastPrices:      s.prices,
		MovingAverage:   ma,
		Horizon:         opts.Horizon,
		Labels:          labels,
		Values:          values,
		Slope:           trend.Slope,
		Intercept:       trend.Intercept,
		OutliersRemoved: s.removed,
	}, nil
}

// BuildSummary returns descriptive statistics over every raw price in idx.
func BuildSummary(idx *store.Index) (*model.Summary, error) {
	sum, err := calculator.Summarize(idx.Prices())
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", idx.Name, err)
	}
	return sum, nil
}

// BuildDay returns the day of idx keyed by date.
func BuildDay(idx *store.Index, date string) (*DayDetail, error) {
	day, ok := aggregator.FindByDate(idx.Days, date)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", date, idx.Name, ErrDayNotFound)
	}
	mean, err := calculator.Mean(day.Prices)
	if err != nil {
		return nil, err
	}
	return &DayDetail{DaySeries: day, Mean: mean, Volume: day.Volume()}, nil
}
