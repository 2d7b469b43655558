// Package aggregator groups raw observations into per-date series.
package aggregator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"SkinIndex/internal/calculator"
	"SkinIndex/internal/model"
)

// Aggregate groups observations by exact date key. Dates keep the order in
// which they were first seen; use SortByDate before any date-ordered computation.
func Aggregate(obs []model.Observation) []model.DaySeries {
	pos := make(map[string]int)
	out := make([]model.DaySeries, 0)
	for _, o := range obs {
		i, ok := pos[o.Date]
		if !ok {
			i = len(out)
			pos[o.Date] = i
			out = append(out, model.DaySeries{
				Date:       o.Date,
				Prices:     []float64{},
				Quantities: []decimal.Decimal{},
			})
		}
		out[i].Prices = append(out[i].Prices, o.Price)
		out[i].Quantities = append(out[i].Quantities, o.Quantity)
	}
	return out
}

// AveragePerDay maps each day to the mean of its prices.
func AveragePerDay(series []model.DaySeries) ([]float64, error) {
	out := make([]float64, len(series))
	for i, d := range series {
		mean, err := calculator.Mean(d.Prices)
		if err != nil {
			return nil, fmt.Errorf("average for %q: %w", d.Date, err)
		}
		out[i] = mean
	}
	return out, nil
}

// Labels returns the date key of every day.
func Labels(series []model.DaySeries) []string {
	out := make([]string, len(series))
	for i, d := range series {
		out[i] = d.Date
	}
	return out
}

// FindByDate returns the day whose key equals date.
func FindByDate(series []model.DaySeries, date string) (model.DaySeries, bool) {
	for _, d := range series {
		if d.Date == date {
			return d, true
		}
	}
	return model.DaySeries{}, false
}

// Count returns the total number of prices across all days.
func Count(series []model.DaySeries) int {
	n := 0
	for _, d := range series {
		n += d.Len()
	}
	return n
}
