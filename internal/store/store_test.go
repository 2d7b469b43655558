package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SkinIndex/internal/catalog"
	"SkinIndex/internal/config"
	"SkinIndex/internal/model"
)

type fakeLoader struct {
	mu    sync.Mutex
	data  map[string][]model.Observation
	calls map[string]int
}

func (f *fakeLoader) Load(_ context.Context, item model.Item) []model.Observation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[item.Name]++
	return f.data[item.Name]
}

func o(date string, price float64) model.Observation {
	return model.Observation{Date: date, Price: price, Quantity: decimal.NewFromInt(1)}
}

func testDefs() []model.IndexDefinition {
	return catalog.FromConfig([]config.Collection{
		{Name: "norse", Tiers: map[string][]string{
			"gray":   {"Barricade", "Tornado"},
			"purple": {"AstralJormungandr"},
		}},
		{Name: "canals", Tiers: map[string][]string{
			"gray": {"Indigo"},
		}},
	}).Indexes()
}

func testLoader() *fakeLoader {
	return &fakeLoader{data: map[string][]model.Observation{
		"Barricade": {o("Oct 12 2024 01: +0", 0.03), o("Oct 10 2024 01: +0", 0.02)},
		"Tornado":   {o("Oct 10 2024 01: +0", 0.04), o("Oct 11 2024 01: +0", 0.05)},
		"Indigo":    {o("Oct 11 2024 01: +0", 0.10)},
		// AstralJormungandr has no data
	}}
}

func TestStore_NotReady(t *testing.T) {
	s := New(testDefs(), testLoader(), 2)
	assert.False(t, s.Ready())
	_, err := s.GetIndex("gray")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.Indexes()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestStore_Rebuild(t *testing.T) {
	loader := testLoader()
	s := New(testDefs(), loader, 2)

	stats, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Ready())
	assert.Equal(t, 4, stats.Items)
	assert.Equal(t, 1, stats.EmptyItems)
	assert.Equal(t, 5, stats.Observations)
	assert.Equal(t, 5, stats.Indexes)

	// every item loads once even though it belongs to several indexes
	for name, n := range loader.calls {
		assert.Equal(t, 1, n, name)
	}

	gray, err := s.GetIndex("gray")
	require.NoError(t, err)
	require.Len(t, gray.Days, 3)
	assert.Equal(t, "Oct 10 2024 01: +0", gray.Days[0].Date)
	assert.Equal(t, []float64{0.02, 0.04}, gray.Days[0].Prices)
	assert.Equal(t, "Oct 11 2024 01: +0", gray.Days[1].Date)
	assert.Equal(t, []float64{0.05, 0.10}, gray.Days[1].Prices)
	assert.Equal(t, "Oct 12 2024 01: +0", gray.Days[2].Date)
	assert.Len(t, gray.Prices(), 5)
	all, err := s.AllPrices(catalog.AllIndex)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	_, err = s.AllPrices("blue")
	assert.ErrorIs(t, err, ErrIndexNotFound)

	purple, err := s.GetIndex("purple")
	require.NoError(t, err)
	assert.Empty(t, purple.Days)
	assert.Equal(t, []string{"AstralJormungandr"}, purple.EmptyItems)

	_, err = s.GetIndex("blue")
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestStore_Indexes(t *testing.T) {
	s := New(testDefs(), testLoader(), 1)
	_, err := s.Rebuild(context.Background())
	require.NoError(t, err)

	infos, err := s.Indexes()
	require.NoError(t, err)
	require.Len(t, infos, 5)
	assert.Equal(t, catalog.AllIndex, infos[0].Name)
	assert.Equal(t, 4, infos[0].Items)
	assert.Equal(t, 1, infos[0].EmptyItems)
	assert.Equal(t, "Oct 10 2024 01: +0", infos[0].FirstDate)
	assert.Equal(t, "Oct 12 2024 01: +0", infos[0].LastDate)
}

func TestStore_RebuildSwapsSnapshot(t *testing.T) {
	loader := testLoader()
	s := New(testDefs(), loader, 2)
	_, err := s.Rebuild(context.Background())
	require.NoError(t, err)

	before, err := s.GetIndex("canals")
	require.NoError(t, err)
	firstBuilt := s.BuiltAt()

	loader.mu.Lock()
	loader.data["Indigo"] = append(loader.data["Indigo"], o("Oct 13 2024 01: +0", 0.2))
	loader.mu.Unlock()

	_, err = s.Rebuild(context.Background())
	require.NoError(t, err)
	after, err := s.GetIndex("canals")
	require.NoError(t, err)

	assert.Len(t, before.Days, 1, "old snapshot must stay untouched")
	assert.Len(t, after.Days, 2)
	assert.False(t, s.BuiltAt().Before(firstBuilt))
}

func TestStore_RebuildCancelled(t *testing.T) {
	s := New(testDefs(), testLoader(), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Rebuild(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, s.Ready())
}

// cancelLoader cancels the rebuild while one item is loading and, like
// loader.Loader, degrades that item to empty instead of failing.
type cancelLoader struct {
	*fakeLoader
	at     string
	cancel context.CancelFunc
}

func (c *cancelLoader) Load(ctx context.Context, item model.Item) []model.Observation {
	if item.Name == c.at {
		c.cancel()
		return []model.Observation{}
	}
	return c.fakeLoader.Load(ctx, item)
}

func TestStore_RebuildCancelledMidLoadKeepsSnapshot(t *testing.T) {
	base := testLoader()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cl := &cancelLoader{fakeLoader: base, at: "Indigo", cancel: cancel}
	s := New(testDefs(), cl, 1)

	// first build with a loader that does not cancel
	cl.at = ""
	first, err := s.Rebuild(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Built, 5)
	assert.Equal(t, catalog.AllIndex, first.Built[0].Name)

	cl.at = "Indigo"
	_, err = s.Rebuild(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, first.BuiltAt, s.BuiltAt())
	all, err := s.AllPrices(catalog.AllIndex)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	canals, err := s.GetIndex("canals")
	require.NoError(t, err)
	assert.Len(t, canals.Days, 1)
}
