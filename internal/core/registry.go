package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Format)
	registryMu sync.RWMutex
)

// Register adds a format to the registry.
// Panics if a format with the same kind is already registered or if the
// definition is incomplete.
func Register(f Format) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if f.Info.Kind == "" || f.Parse == nil || len(f.FieldSpecs) == 0 {
		panic(fmt.Sprintf("incomplete format definition: %q", f.Info.Kind))
	}
	if _, exists := registry[f.Info.Kind]; exists {
		panic(fmt.Sprintf("format already registered: %s", f.Info.Kind))
	}

	registry[f.Info.Kind] = f
}

// Get returns a format by kind.
// Returns false if not found.
func Get(kind string) (Format, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	f, ok := registry[kind]
	return f, ok
}

// All returns all registered formats sorted by kind.
func All() []Format {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Format, 0, len(registry))
	for _, f := range registry {
		result = append(result, f)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Kind < result[j].Info.Kind
	})

	return result
}

// Clear removes all registered formats.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Format)
}
