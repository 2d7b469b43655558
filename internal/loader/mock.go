package loader

import (
	"context"
	"fmt"
	"sync"

	"SkinIndex/internal/model"
)

// MockSource returns fixed histories keyed by item name for development and testing.
type MockSource struct {
	mu        sync.Mutex
	Histories map[string][]byte
	Errors    map[string]error
	calls     int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(_ context.Context, item model.Item) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err, ok := m.Errors[item.Name]; ok {
		return nil, err
	}
	data, ok := m.Histories[item.Name]
	if !ok {
		return nil, fmt.Errorf("no history for %s", item.Name)
	}
	return data, nil
}

// Calls returns how many fetches were made.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
