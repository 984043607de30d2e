// Package memory implements a KeyValueStore held entirely in process memory.
package memory

import (
	"context"
	"sync"

	"todoapp/backend"
)

// Backend implements backend.KeyValueStore with a map
type Backend struct {
	mu     sync.RWMutex
	values map[string]string
}

func init() {
	backend.Register("memory", func(backend.Options) (backend.KeyValueStore, error) {
		return New(), nil
	})
}

// New creates an empty in-memory backend
func New() *Backend {
	return &Backend{values: make(map[string]string)}
}

// Get returns the value stored under key
func (b *Backend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	return v, ok, nil
}

// Set stores value under key
func (b *Backend) Set(_ context.Context, key, value string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
	return nil
}

// Close is a no-op
func (b *Backend) Close() error {
	return nil
}

// Verify interface compliance at compile time
var _ backend.KeyValueStore = (*Backend)(nil)
