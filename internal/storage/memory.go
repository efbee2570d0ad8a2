package storage

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryProvider keeps records in process memory. It is not durable across
// restarts, which matches a browser profile whose local storage was cleared;
// callers already treat a missing cart as an empty cart.
type MemoryProvider struct {
	records *lru.Cache[string, string]
}

const defaultMemorySize = 4_096

func NewMemoryProvider() (*MemoryProvider, error) {
	c, err := lru.New[string, string](defaultMemorySize)
	if err != nil {
		return nil, err
	}
	return &MemoryProvider{records: c}, nil
}

func (m *MemoryProvider) Get(ctx context.Context, key string) (string, error) {
	_ = ctx
	value, exists := m.records.Get(key)
	if !exists {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryProvider) Set(ctx context.Context, key string, value string) error {
	_ = ctx
	m.records.Add(key, value)
	return nil
}

func (m *MemoryProvider) Delete(ctx context.Context, key string) error {
	_ = ctx
	m.records.Remove(key)
	return nil
}

func (m *MemoryProvider) Close() error {
	return nil
}
