// Package store holds the aggregated indexes served by the API. A Store
// publishes immutable snapshots; Rebuild builds a new one and swaps it in.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"SkinIndex/internal/aggregator"
	"SkinIndex/internal/model"
)

var (
	ErrIndexNotFound = errors.New("index not found")
	ErrNotReady      = errors.New("indexes not built yet")
)

// ItemLoader returns the observations of one item; an unavailable item yields none.
type ItemLoader interface {
	Load(ctx context.Context, item model.Item) []model.Observation
}

// Index is one named index with its days in ascending date order.
type Index struct {
	model.IndexDefinition
	Days       []model.DaySeries
	EmptyItems []string
}

// Prices returns every raw price across the index.
func (idx *Index) Prices() []float64 {
	out := make([]float64, 0, aggregator.Count(idx.Days))
	for _, d := range idx.Days {
		out = append(out, d.Prices...)
	}
	return out
}

// IndexInfo describes an index without its data.
type IndexInfo struct {
	Name       string          `json:"name"`
	Title      string          `json:"title"`
	Kind       model.IndexKind `json:"kind"`
	Items      int             `json:"items"`
	EmptyItems int             `json:"empty_items"`
	Days       int             `json:"days"`
	FirstDate  string          `json:"first_date,omitempty"`
	LastDate   string          `json:"last_date,omitempty"`
}

// BuildStats summarizes one rebuild.
type BuildStats struct {
	Items        int
	EmptyItems   int
	Observations int
	Indexes      int
	Duration     time.Duration
	BuiltAt      time.Time
	// Built holds the indexes of the snapshot this rebuild published, in catalog order.
	Built []*Index
}

type snapshot struct {
	order   []string
	indexes map[string]*Index
	builtAt time.Time
}

// Store serves index snapshots built from a catalog.
type Store struct {
	defs    []model.IndexDefinition
	loader  ItemLoader
	workers int

	rebuildMu sync.Mutex
	current   atomic.Pointer[snapshot]
}

// New creates an empty Store. Call Rebuild before serving.
func New(defs []model.IndexDefinition, loader ItemLoader, workers int) *Store {
	if workers <= 0 {
		workers = 1
	}
	return &Store{defs: defs, loader: loader, workers: workers}
}

// Rebuild loads every item, aggregates each index and atomically replaces the
// served snapshot. Readers keep the previous snapshot until the swap.
func (s *Store) Rebuild(ctx context.Context) (BuildStats, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	start := time.Now()
	items := uniqueItems(s.defs)
	loaded, err := s.loadAll(ctx, items)
	if err != nil {
		return BuildStats{}, fmt.Errorf("load items: %w", err)
	}

	stats := BuildStats{Items: len(items)}
	for _, obs := range loaded {
		if len(obs) == 0 {
			stats.EmptyItems++
		}
		stats.Observations += len(obs)
	}

	snap := &snapshot{indexes: make(map[string]*Index, len(s.defs))}
	for _, def := range s.defs {
		idx, err := buildIndex(def, loaded)
		if err != nil {
			return BuildStats{}, fmt.Errorf("build index %s: %w", def.Name, err)
		}
		snap.order = append(snap.order, def.Name)
		snap.indexes[def.Name] = idx
	}
	snap.builtAt = time.Now()
	s.current.Store(snap)

	stats.Indexes = len(snap.order)
	stats.Duration = time.Since(start)
	stats.BuiltAt = snap.builtAt
	for _, name := range snap.order {
		stats.Built = append(stats.Built, snap.indexes[name])
	}
	log.Printf("[INFO] rebuilt %d indexes from %d items (%d empty, %d observations) in %v",
		stats.Indexes, stats.Items, stats.EmptyItems, stats.Observations, stats.Duration)
	return stats, nil
}

func (s *Store) loadAll(parent context.Context, items []model.Item) (map[string][]model.Observation, error) {
	results := make([][]model.Observation, len(items))

	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(s.workers)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.loader.Load(ctx, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A load in flight at cancellation degrades to empty instead of failing.
	if err := parent.Err(); err != nil {
		return nil, err
	}

	out := make(map[string][]model.Observation, len(items))
	for i, item := range items {
		out[item.Key()] = results[i]
	}
	return out, nil
}

func buildIndex(def model.IndexDefinition, loaded map[string][]model.Observation) (*Index, error) {
	idx := &Index{IndexDefinition: def}
	var obs []model.Observation
	for _, item := range def.Items {
		o := loaded[item.Key()]
		if len(o) == 0 {
			idx.EmptyItems = append(idx.EmptyItems, item.Name)
			continue
		}
		obs = append(obs, o...)
	}

	idx.Days = aggregator.Aggregate(obs)
	if err := aggregator.SortByDate(idx.Days); err != nil {
		return nil, err
	}
	return idx, nil
}

func uniqueItems(defs []model.IndexDefinition) []model.Item {
	seen := make(map[string]bool)
	var out []model.Item
	for _, def := range defs {
		for _, it := range def.Items {
			if !seen[it.Key()] {
				seen[it.Key()] = true
				out = append(out, it)
			}
		}
	}
	return out
}

// Ready reports whether a snapshot has been built.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// BuiltAt returns when the served snapshot was built.
func (s *Store) BuiltAt() time.Time {
	if snap := s.current.Load(); snap != nil {
		return snap.builtAt
	}
	return time.Time{}
}

// GetIndex returns the named index from the served snapshot.
func (s *Store) GetIndex(name string) (*Index, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	idx, ok := snap.indexes[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrIndexNotFound)
	}
	return idx, nil
}

// Indexes lists the served indexes in catalog order.
func (s *Store) Indexes() ([]IndexInfo, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	out := make([]IndexInfo, 0, len(snap.order))
	for _, name := range snap.order {
		idx := snap.indexes[name]
		info := IndexInfo{
			Name:       idx.Name,
			Title:      idx.Title,
			Kind:       idx.Kind,
			Items:      len(idx.Items),
			EmptyItems: len(idx.EmptyItems),
			Days:       len(idx.Days),
		}
		if n := len(idx.Days); n > 0 {
			info.FirstDate = idx.Days[0].Date
			info.LastDate = idx.Days[n-1].Date
		}
		out = append(out, info)
	}
	return out, nil
}

// AllPrices returns every raw price of the named index.
func (s *Store) AllPrices(name string) ([]float64, error) {
	idx, err := s.GetIndex(name)
	if err != nil {
		return nil, err
	}
	return idx.Prices(), nil
}
