package backend

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// DefaultKey is the slot the task list is stored under.
const DefaultKey = "todos"

// Task represents a todo item
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// KeyValueStore is a persistence slot: a small synchronous key-value store
// holding serialized values by string key.
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false when nothing is
	// stored there; err is reserved for I/O failures.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Close releases the underlying resources.
	Close() error
}

// ErrInvalidKey is returned for keys that cannot name a slot.
var ErrInvalidKey = errors.New("invalid storage key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateKey checks that key is usable by every backend (it doubles as a
// file name and a keyring account).
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// CloneTasks returns a copy of tasks that shares no backing array.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
