// Package sqlite implements a KeyValueStore backed by a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
	"todoapp/backend"
)

// Backend implements backend.KeyValueStore using SQLite
type Backend struct {
	db *sql.DB
}

func init() {
	backend.Register("sqlite", func(opts backend.Options) (backend.KeyValueStore, error) {
		if opts.Path == "" {
			return nil, errors.New("sqlite backend requires a database path")
		}
		return New(opts.Path)
	})
}

// New opens (creating if needed) the database at path and initializes the schema.
// Use ":memory:" for a throwaway database.
func New(path string) (*Backend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db}
	if err := b.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return b, nil
}

// initSchema creates the key-value table if it doesn't exist
func (b *Backend) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			modified TEXT NOT NULL
		);
	`
	_, err := b.db.Exec(schema)
	return err
}

// Get returns the value stored under key
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := backend.ValidateKey(key); err != nil {
		return "", false, err
	}
	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set upserts value under key
func (b *Backend) Set(ctx context.Context, key, value string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, modified) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, modified = excluded.modified`,
		key, value, now,
	)
	return err
}

// Modified returns when key was last written. ok is false for missing keys.
func (b *Backend) Modified(ctx context.Context, key string) (time.Time, bool, error) {
	var modifiedStr string
	err := b.db.QueryRowContext(ctx, "SELECT modified FROM kv WHERE key = ?", key).Scan(&modifiedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	modified, err := time.Parse(time.RFC3339Nano, modifiedStr)
	if err != nil {
		return time.Time{}, false, err
	}
	return modified, true, nil
}

// Close closes the database connection
func (b *Backend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Verify interface compliance at compile time
var _ backend.KeyValueStore = (*Backend)(nil)
