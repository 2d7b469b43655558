package aggregator

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"

	"SkinIndex/internal/calculator"
	"SkinIndex/internal/model"
)

func obs(date string, price float64, qty int64) model.Observation {
	return model.Observation{Date: date, Price: price, Quantity: decimal.NewFromInt(qty)}
}

func TestAggregate_GroupsByDate(t *testing.T) {
	in := []model.Observation{
		obs("d1", 10, 1),
		obs("d1", 20, 2),
		obs("d2", 5, 1),
	}
	got := Aggregate(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got))
	}
	if got[0].Date != "d1" || !slices.Equal(got[0].Prices, []float64{10, 20}) {
		t.Errorf("unexpected d1: %+v", got[0])
	}
	if got[1].Date != "d2" || !slices.Equal(got[1].Prices, []float64{5}) {
		t.Errorf("unexpected d2: %+v", got[1])
	}
	if Count(got) != 3 {
		t.Errorf("expected 3 prices, got %d", Count(got))
	}
	for _, d := range got {
		if len(d.Prices) != len(d.Quantities) {
			t.Errorf("%s: %d prices but %d quantities", d.Date, len(d.Prices), len(d.Quantities))
		}
	}
	if !got[0].Volume().Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected d1 volume 3, got %s", got[0].Volume())
	}
}

func TestAggregate_KeepsFirstSeenOrder(t *testing.T) {
	in := []model.Observation{
		obs("Oct 12 2024 01: +0", 1, 1),
		obs("Oct 10 2024 01: +0", 2, 1),
		obs("Oct 12 2024 01: +0", 3, 1),
		obs("Oct 11 2024 01: +0", 4, 1),
	}
	got := Labels(Aggregate(in))
	want := []string{"Oct 12 2024 01: +0", "Oct 10 2024 01: +0", "Oct 11 2024 01: +0"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", got)
	}
}

func TestAveragePerDay(t *testing.T) {
	series := Aggregate([]model.Observation{obs("d1", 10, 1), obs("d1", 20, 1), obs("d2", 5, 1)})
	got, err := AveragePerDay(series)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []float64{15, 5}) {
		t.Errorf("expected [15 5], got %v", got)
	}
}

func TestAveragePerDay_EmptyDay(t *testing.T) {
	series := []model.DaySeries{{Date: "d1"}}
	if _, err := AveragePerDay(series); !errors.Is(err, calculator.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestFindByDate(t *testing.T) {
	series := Aggregate([]model.Observation{obs("d1", 10, 1), obs("d2", 5, 1)})
	d, ok := FindByDate(series, "d2")
	if !ok || d.Prices[0] != 5 {
		t.Errorf("expected d2 with price 5, got %+v (found=%v)", d, ok)
	}
	if _, ok := FindByDate(series, "d3"); ok {
		t.Error("expected d3 to be missing")
	}
}
