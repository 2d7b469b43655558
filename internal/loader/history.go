package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"SkinIndex/internal/aggregator"
	"SkinIndex/internal/model"
)

var errMalformedRow = errors.New("malformed row")

// priceHistory is the on-disk shape: {"prices": [[date, price, quantity], ...]}.
// Quantity arrives either as a JSON string or a number.
type priceHistory struct {
	Prices []json.RawMessage `json:"prices"`
}

// ParseHistory decodes a price history document. Rows that are not a valid
// [date, price, quantity] triple, or whose date is not a recognized layout,
// are skipped and counted.
func ParseHistory(item model.Item, data []byte) (obs []model.Observation, skipped int, err error) {
	var h priceHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, 0, fmt.Errorf("decode history: %w", err)
	}

	obs = make([]model.Observation, 0, len(h.Prices))
	for _, raw := range h.Prices {
		o, err := parseRow(raw)
		if err != nil {
			skipped++
			continue
		}
		o.Item = item.Name
		obs = append(obs, o)
	}
	return obs, skipped, nil
}

func parseRow(raw json.RawMessage) (model.Observation, error) {
	var row []json.RawMessage
	if err := json.Unmarshal(raw, &row); err != nil || len(row) < 3 {
		return model.Observation{}, errMalformedRow
	}

	var date string
	if err := json.Unmarshal(row[0], &date); err != nil || strings.TrimSpace(date) == "" {
		return model.Observation{}, fmt.Errorf("date: %w", errMalformedRow)
	}
	if _, err := aggregator.ParseDate(date); err != nil {
		return model.Observation{}, fmt.Errorf("date: %w", errMalformedRow)
	}

	var price float64
	if string(row[1]) == "null" {
		return model.Observation{}, fmt.Errorf("price: %w", errMalformedRow)
	}
	if err := json.Unmarshal(row[1], &price); err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.Observation{}, fmt.Errorf("price: %w", errMalformedRow)
	}

	qty, err := parseQuantity(row[2])
	if err != nil {
		return model.Observation{}, err
	}

	return model.Observation{Date: date, Price: price, Quantity: qty}, nil
}

func parseQuantity(raw json.RawMessage) (decimal.Decimal, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		q, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero, fmt.Errorf("quantity %q: %w", s, errMalformedRow)
		}
		return q, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return decimal.Zero, fmt.Errorf("quantity: %w", errMalformedRow)
	}
	q, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("quantity %s: %w", n, errMalformedRow)
	}
	return q, nil
}
