// Package loader reads per-item price histories. Failures never cross this
// boundary: an unreadable item yields no observations and a warning.
package loader

import (
	"context"
	"log"

	"SkinIndex/internal/model"
)

// Loader turns a Source into observations.
type Loader struct {
	Source Source
}

// New creates a Loader over source.
func New(source Source) *Loader {
	return &Loader{Source: source}
}

// Load returns the valid observations for item, or none when the history
// cannot be read or decoded.
func (l *Loader) Load(ctx context.Context, item model.Item) []model.Observation {
	data, err := l.Source.Fetch(ctx, item)
	if err != nil {
		log.Printf("[WARN] load %s from %s: %v", item.Key(), l.Source.Name(), err)
		return []model.Observation{}
	}
	obs, skipped, err := ParseHistory(item, data)
	if err != nil {
		log.Printf("[WARN] parse %s: %v", item.Key(), err)
		return []model.Observation{}
	}
	if skipped > 0 {
		log.Printf("[WARN] %s: skipped %d malformed rows", item.Key(), skipped)
	}
	return obs
}
