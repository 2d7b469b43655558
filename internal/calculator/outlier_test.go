package calculator

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestRemoveOutliers_InfiniteThresholdKeepsAll(t *testing.T) {
	v := []float64{1, 2, 3, 1000, -50}
	got := RemoveOutliers(v, math.Inf(1))
	if !slices.Equal(got, v) {
		t.Errorf("expected %v, got %v", v, got)
	}
}

func TestRemoveOutliers_DropsSpike(t *testing.T) {
	v := make([]float64, 0, 21)
	for range 20 {
		v = append(v, 10)
	}
	v = append(v, 500)
	got := RemoveOutliers(v, DefaultOutlierThreshold)
	if len(got) != 20 {
		t.Fatalf("expected 20 values, got %d", len(got))
	}
	if slices.Contains(got, 500) {
		t.Error("expected spike to be removed")
	}
}

func TestRemoveOutliers_ConstantSeriesKept(t *testing.T) {
	v := []float64{4, 4, 4, 4}
	got := RemoveOutliers(v, 0)
	if !slices.Equal(got, v) {
		t.Errorf("expected constant series kept, got %v", got)
	}
	for _, x := range got {
		if math.IsNaN(x) {
			t.Fatal("unexpected NaN")
		}
	}
}

func TestRemoveOutliers_DoesNotMutateInput(t *testing.T) {
	v := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 90}
	orig := slices.Clone(v)
	_ = RemoveOutliers(v, 1)
	if !slices.Equal(v, orig) {
		t.Errorf("input mutated: %v", v)
	}
}

func TestRemoveOutliers_Empty(t *testing.T) {
	if got := RemoveOutliers(nil, DefaultOutlierThreshold); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestOutlierMask_AlignsWithInput(t *testing.T) {
	v := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 200}
	mask := OutlierMask(v, 2)
	if len(mask) != len(v) {
		t.Fatalf("expected mask length %d, got %d", len(v), len(mask))
	}
	if mask[len(mask)-1] {
		t.Error("expected last value flagged")
	}
	for i := range len(mask) - 1 {
		if !mask[i] {
			t.Errorf("position %d: expected kept", i)
		}
	}
}

func TestZScore(t *testing.T) {
	z, err := ZScore(12, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if z != 1 {
		t.Errorf("expected 1, got %f", z)
	}
	if _, err := ZScore(1, 1, 0); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("expected ErrDivideByZero, got %v", err)
	}
}
