package keyring

import (
	"context"
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
	"todoapp/backend"
)

// failingKeyring returns a fixed error for every call
type failingKeyring struct{ err error }

func (f failingKeyring) Set(string, string, string) error   { return f.err }
func (f failingKeyring) Get(string, string) (string, error) { return "", f.err }

func TestKeyringRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	b := New("")
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "todos"); err != nil || ok {
		t.Fatalf("Get on empty keyring = ok %v, err %v", ok, err)
	}

	if err := b.Set(ctx, "todos", `[{"id":1,"text":"a","completed":false}]`); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, ok, err := b.Get(ctx, "todos")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if got != `[{"id":1,"text":"a","completed":false}]` {
		t.Errorf("Get = %q", got)
	}
}

func TestKeyringServicesAreIsolated(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()

	if err := New("one").Set(ctx, "todos", "1"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, ok, _ := New("two").Get(ctx, "todos"); ok {
		t.Error("service 'two' should not see entries from service 'one'")
	}
}

func TestKeyringPropagatesErrors(t *testing.T) {
	boom := errors.New("keyring locked")
	b := New("svc", WithKeyring(failingKeyring{err: boom}))

	if _, _, err := b.Get(context.Background(), "todos"); !errors.Is(err, boom) {
		t.Errorf("Get error = %v, want %v", err, boom)
	}
	if err := b.Set(context.Background(), "todos", "x"); !errors.Is(err, boom) {
		t.Errorf("Set error = %v, want %v", err, boom)
	}
}

func TestKeyringRegistered(t *testing.T) {
	kv, err := backend.Open("keyring", backend.Options{Service: "custom"})
	if err != nil {
		t.Fatalf("Open(keyring) error: %v", err)
	}
	b, ok := kv.(*Backend)
	if !ok {
		t.Fatalf("Open(keyring) returned %T", kv)
	}
	if b.service != "custom" {
		t.Errorf("service = %q, want custom", b.service)
	}
}
