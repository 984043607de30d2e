package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"todoapp/backend"
)

// mustNewBackend creates an in-memory backend and registers cleanup
func mustNewBackend(t *testing.T) (*Backend, context.Context) {
	t.Helper()
	b, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b, context.Background()
}

// TestBackendImplementsInterface verifies the Backend type implements KeyValueStore.
func TestBackendImplementsInterface(t *testing.T) {
	var _ backend.KeyValueStore = (*Backend)(nil)
}

// TestGetMissingKey verifies a missing key reports ok=false without error.
func TestGetMissingKey(t *testing.T) {
	b, ctx := mustNewBackend(t)

	value, ok, err := b.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if ok {
		t.Errorf("expected ok=false, got value %q", value)
	}
}

// TestSetAndGet verifies values round-trip and Set overwrites.
func TestSetAndGet(t *testing.T) {
	b, ctx := mustNewBackend(t)

	if err := b.Set(ctx, "todos", "[]"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	want := `[{"id":1,"text":"buy milk","completed":true}]`
	if err := b.Set(ctx, "todos", want); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, ok, err := b.Get(ctx, "todos")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true after Set")
	}
	if got != want {
		t.Errorf("Get = %q, want %q", got, want)
	}
}

// TestKeysAreIndependent verifies two keys do not share a slot.
func TestKeysAreIndependent(t *testing.T) {
	b, ctx := mustNewBackend(t)

	if err := b.Set(ctx, "todos", "a"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := b.Set(ctx, "other", "b"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, _, _ := b.Get(ctx, "todos")
	if got != "a" {
		t.Errorf("todos = %q, want %q", got, "a")
	}
}

// TestModified verifies the modification timestamp is recorded.
func TestModified(t *testing.T) {
	b, ctx := mustNewBackend(t)

	if _, ok, err := b.Modified(ctx, "todos"); err != nil || ok {
		t.Fatalf("Modified on missing key = ok %v, err %v", ok, err)
	}

	before := time.Now().UTC().Add(-time.Second)
	if err := b.Set(ctx, "todos", "[]"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	modified, ok, err := b.Modified(ctx, "todos")
	if err != nil || !ok {
		t.Fatalf("Modified = ok %v, err %v", ok, err)
	}
	if modified.Before(before) {
		t.Errorf("modified %v is before %v", modified, before)
	}
}

// TestPersistsAcrossReopen verifies data survives closing and reopening the file.
func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todoapp.db")
	ctx := context.Background()

	b, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := b.Set(ctx, "todos", "persisted"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_ = b.Close()

	b2, err := New(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer func() { _ = b2.Close() }()

	got, ok, err := b2.Get(ctx, "todos")
	if err != nil || !ok || got != "persisted" {
		t.Errorf("Get after reopen = %q, %v, %v", got, ok, err)
	}
}

// TestRegisteredRequiresPath verifies the registry constructor needs a path.
func TestRegisteredRequiresPath(t *testing.T) {
	if _, err := backend.Open("sqlite", backend.Options{}); err == nil {
		t.Error("expected error when opening sqlite without a path")
	}

	kv, err := backend.Open("sqlite", backend.Options{Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	_ = kv.Close()
}

// TestRejectsInvalidKeys verifies Get and Set both validate the key.
func TestRejectsInvalidKeys(t *testing.T) {
	b, ctx := mustNewBackend(t)

	for _, key := range []string{"", "../todos", "a/b", ".hidden"} {
		if err := b.Set(ctx, key, "x"); !errors.Is(err, backend.ErrInvalidKey) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if _, _, err := b.Get(ctx, key); !errors.Is(err, backend.ErrInvalidKey) {
			t.Errorf("Get(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}
