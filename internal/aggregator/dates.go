package aggregator

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"SkinIndex/internal/model"
)

var ErrUnparseableDate = errors.New("unparseable date")

// Market history keys look like "Oct 10 2024 01: +0".
var dateLayouts = []string{
	"Jan 02 2006 15: +0",
	"Jan 2 2006 15: +0",
	"2006-01-02",
	time.RFC3339,
}

// ParseDate parses a date key in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, ErrUnparseableDate)
}

// SortByDate orders series chronologically. Days with equal times keep their
// relative order. On error series is left untouched.
func SortByDate(series []model.DaySeries) error {
	times := make(map[string]time.Time, len(series))
	for _, d := range series {
		t, err := ParseDate(d.Date)
		if err != nil {
			return err
		}
		times[d.Date] = t
	}
	slices.SortStableFunc(series, func(a, b model.DaySeries) int {
		return times[a.Date].Compare(times[b.Date])
	})
	return nil
}
