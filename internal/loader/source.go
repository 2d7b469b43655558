package loader

import (
	"context"

	"SkinIndex/internal/model"
)

// Source reads the raw price history of one item.
type Source interface {
	Fetch(ctx context.Context, item model.Item) ([]byte, error)
	Name() string
}
