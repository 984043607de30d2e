// Package file implements a KeyValueStore that keeps each key in its own file.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"todoapp/backend"
)

// Config holds file backend configuration
type Config struct {
	Dir string // Directory holding one <key>.json file per key
}

// Backend implements backend.KeyValueStore for file-based storage
type Backend struct {
	config Config
	dir    string // Resolved absolute path
}

func init() {
	backend.Register("file", func(opts backend.Options) (backend.KeyValueStore, error) {
		return New(Config{Dir: opts.Dir})
	})
}

// New creates a new file backend. An empty Dir means the working directory.
func New(cfg Config) (*Backend, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}

	// Resolve relative paths
	if !filepath.IsAbs(dir) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve directory: %w", err)
		}
		dir = abs
	}

	return &Backend{config: cfg, dir: dir}, nil
}

// Path returns the file that holds key
func (b *Backend) Path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Get reads the file for key
func (b *Backend) Get(_ context.Context, key string) (string, bool, error) {
	if err := backend.ValidateKey(key); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(b.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Set replaces the file for key. The write goes to a uniquely named sibling
// first and is renamed into place, so readers never see a partial file.
func (b *Backend) Set(_ context.Context, key, value string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	target := b.Path(key)
	tmp := filepath.Join(b.dir, "."+key+"-"+uuid.New().String()+".tmp")

	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

// Close closes the backend
func (b *Backend) Close() error {
	return nil
}

// Verify interface compliance at compile time
var _ backend.KeyValueStore = (*Backend)(nil)
