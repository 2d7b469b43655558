package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"SkinIndex/internal/model"
)

// FileSource reads <Dir>/raw/<collection>/<tier>/<item>/data.json.
type FileSource struct {
	Dir string
}

// NewFileSource creates a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (f *FileSource) Name() string { return "file" }

// Path returns the history file location for item.
func (f *FileSource) Path(item model.Item) string {
	return filepath.Join(f.Dir, "raw", item.Collection, item.Tier, item.Name, "data.json")
}

func (f *FileSource) Fetch(ctx context.Context, item model.Item) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(item))
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return data, nil
}
