package backend_test

import (
	"errors"
	"slices"
	"testing"

	"todoapp/backend"
	_ "todoapp/backend/file"
	_ "todoapp/backend/keyring"
	_ "todoapp/backend/memory"
	_ "todoapp/backend/sqlite"
)

// =============================================================================
// Backend Registry Tests
// =============================================================================

func TestRegisteredNames(t *testing.T) {
	names := backend.Names()
	for _, want := range []string{"file", "keyring", "memory", "sqlite"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected backend %q to be registered, got %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("Names() should be sorted, got %v", names)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if backend.IsRegistered("nextcloud") {
		t.Fatal("nextcloud should not be registered")
	}
	if _, err := backend.Open("nextcloud", backend.Options{}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestValidateKey(t *testing.T) {
	valid := []string{"todos", "todos-2", "work.list", "A_b"}
	for _, k := range valid {
		if err := backend.ValidateKey(k); err != nil {
			t.Errorf("ValidateKey(%q) = %v, want nil", k, err)
		}
	}

	invalid := []string{"", "-todos", "a b", "a/b", "..", "ü"}
	for _, k := range invalid {
		if err := backend.ValidateKey(k); !errors.Is(err, backend.ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", k, err)
		}
	}
}

func TestCloneTasks(t *testing.T) {
	orig := []backend.Task{{ID: 1, Text: "a"}}
	clone := backend.CloneTasks(orig)
	clone[0].Text = "changed"
	if orig[0].Text != "a" {
		t.Error("CloneTasks should not share the backing array")
	}
	if got := backend.CloneTasks(nil); got == nil || len(got) != 0 {
		t.Errorf("CloneTasks(nil) = %#v, want empty non-nil slice", got)
	}
}
