// Package keyring implements a KeyValueStore on top of the OS keyring
// (Secret Service, macOS Keychain, Windows Credential Manager).
package keyring

import (
	"context"
	"errors"

	gokeyring "github.com/zalando/go-keyring"
	"todoapp/backend"
)

// DefaultService is the keyring service name entries are filed under.
const DefaultService = "todoapp"

// Keyring is the subset of keyring operations the backend needs
type Keyring interface {
	Set(service, account, secret string) error
	Get(service, account string) (string, error)
}

// systemKeyring is the real keyring implementation using the OS keyring
type systemKeyring struct{}

func (systemKeyring) Set(service, account, secret string) error {
	return gokeyring.Set(service, account, secret)
}

func (systemKeyring) Get(service, account string) (string, error) {
	return gokeyring.Get(service, account)
}

// Backend implements backend.KeyValueStore using one keyring entry per key
type Backend struct {
	keyring Keyring
	service string
}

// Option is a functional option for Backend
type Option func(*Backend)

// WithKeyring sets a custom keyring implementation
func WithKeyring(k Keyring) Option {
	return func(b *Backend) {
		b.keyring = k
	}
}

func init() {
	backend.Register("keyring", func(opts backend.Options) (backend.KeyValueStore, error) {
		return New(opts.Service), nil
	})
}

// New creates a keyring backend for service (DefaultService when empty)
func New(service string, opts ...Option) *Backend {
	if service == "" {
		service = DefaultService
	}
	b := &Backend{keyring: systemKeyring{}, service: service}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get reads the keyring entry for key
func (b *Backend) Get(_ context.Context, key string) (string, bool, error) {
	value, err := b.keyring.Get(b.service, key)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes the keyring entry for key
func (b *Backend) Set(_ context.Context, key, value string) error {
	if err := backend.ValidateKey(key); err != nil {
		return err
	}
	return b.keyring.Set(b.service, key, value)
}

// Close is a no-op; the OS keyring needs no teardown
func (b *Backend) Close() error {
	return nil
}

// Verify interface compliance at compile time
var _ backend.KeyValueStore = (*Backend)(nil)
