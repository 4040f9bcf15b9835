// Package registry provides a global registry for title factories.
// Titles register themselves in init() functions, allowing the CLI and
// embedding trainers to discover and instantiate titles without
// hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/pixelgym/internal/engine"
)

// TitleInfo contains metadata about a registered title.
type TitleInfo struct {
	Name        string
	Description string
}

// Factory creates a fresh Rules instance for one engine.
type Factory func() engine.Rules

type entry struct {
	factory     Factory
	description string
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a title factory to the registry.
// Typically called from a title's init() function.
// Panics if a title with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[name]; exists {
		panic(fmt.Sprintf("registry: title %q already registered", name))
	}
	entries[name] = entry{factory: f, description: description}
}

// List returns information about all registered titles, sorted by name.
func List() []TitleInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]TitleInfo, 0, len(entries))
	for name, ent := range entries {
		result = append(result, TitleInfo{Name: name, Description: ent.description})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Create instantiates fresh rules for the named title.
// Returns an error if the title is not registered.
func Create(name string) (engine.Rules, error) {
	mu.RLock()
	defer mu.RUnlock()

	ent, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown title %q", name)
	}
	return ent.factory(), nil
}

// Exists checks if a title with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[name]
	return ok
}
