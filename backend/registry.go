package backend

import (
	"fmt"
	"sort"
	"sync"
)

// Options carries the settings a backend constructor may need. Each backend
// reads only the fields it understands.
type Options struct {
	Path    string // sqlite database file
	Dir     string // directory for the file backend
	Service string // keyring service name
}

// Constructor opens a KeyValueStore.
type Constructor func(opts Options) (KeyValueStore, error)

// Global registry of persistence backends
var (
	registryMu   sync.RWMutex
	constructors = make(map[string]Constructor)
)

// Register registers a backend constructor under name.
// Backends should call this in their init() function.
func Register(name string, constructor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	constructors[name] = constructor
}

// Names returns the registered backend names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a backend named name exists.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := constructors[name]
	return ok
}

// Open constructs the backend registered under name.
func Open(name string, opts Options) (KeyValueStore, error) {
	registryMu.RLock()
	constructor, ok := constructors[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown backend: %s", name)
	}
	return constructor(opts)
}
