package model

import "github.com/shopspring/decimal"

// Observation is one historical sale event for one item.
type Observation struct {
	Item     string
	Date     string
	Price    float64
	Quantity decimal.Decimal
}

// DaySeries holds every observation sharing one date within an index.
// Prices and Quantities always have the same length.
type DaySeries struct {
	Date       string            `json:"date"`
	Prices     []float64         `json:"prices"`
	Quantities []decimal.Decimal `json:"quantities"`
}

// Len returns the number of sales recorded for the day.
func (d DaySeries) Len() int { return len(d.Prices) }

// Volume returns the summed quantity for the day.
func (d DaySeries) Volume() decimal.Decimal {
	return decimal.Sum(decimal.Zero, d.Quantities...)
}
