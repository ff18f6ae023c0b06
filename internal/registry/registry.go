// Package registry provides a global registry for audio backend factories.
// Backends register themselves in init() functions, allowing the platform
// to pick one by name (--audio flag, config) without hardcoded dependencies.
package registry

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// Backend is the interface every audio backend implements.
// The audio engine calls Emit from its own worker goroutine, so Emit may
// block without stalling the game.
type Backend interface {
	// Name returns the identifier used on the command line (e.g., "bell").
	Name() string

	// Description returns a one-line human-readable summary.
	Description() string

	// Emit produces the sound for the cue with the given ID.
	Emit(cue string) error

	// Close releases anything the backend holds.
	Close() error
}

// Env is what a backend may use when it is created.
type Env struct {
	// Out is the terminal the player sees (stdout or the SSH session).
	Out io.Writer

	// Logger receives diagnostic output. May be nil.
	Logger *log.Logger
}

// BackendInfo contains metadata about a registered backend.
type BackendInfo struct {
	Name        string
	Description string
}

// Factory creates a new backend instance.
type Factory func(env Env) Backend

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a backend factory to the registry.
// Typically called from a backend's init() function.
// Panics if a backend with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: backend %q already registered", name))
	}

	factories[name] = f

	// Get description by creating a temporary instance
	b := f(Env{Out: io.Discard})
	descriptions[name] = b.Description()
	//nolint:errcheck // Temporary instance holds nothing
	b.Close()
}

// List returns information about all registered backends, sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(factories))
	for name := range factories {
		result = append(result, BackendInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a backend by name.
// Returns an error if the name is not registered.
func Create(name string, env Env) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown audio backend %q", name)
	}

	if env.Out == nil {
		env.Out = io.Discard
	}
	return f(env), nil
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
