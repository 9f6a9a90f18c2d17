// Package registry provides a global registry for contribution dataset
// sources. Sources register themselves in init() functions, allowing the
// drivers to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/riannelimje/git-streak/internal/contrib"
)

// ErrUnknownSource is returned by Create for an unregistered id.
var ErrUnknownSource = errors.New("registry: unknown source")

// Source produces a year of daily contribution counts.
// Implementations do I/O only inside Fetch; the game core never sees them.
type Source interface {
	// ID returns the identifier the source was registered under
	// (e.g., "medium", "github"). Used for CLI flags and cache keys.
	ID() string

	// Fetch returns the days ending just before now, oldest first.
	Fetch(ctx context.Context, now time.Time) ([]contrib.Day, error)
}

// Info contains metadata about a registered source.
type Info struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Options carries everything a factory may need. Each source reads only the
// fields it understands.
type Options struct {
	Seed       int64
	Token      string
	User       string
	Endpoint   string
	Path       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Factory creates a configured source.
type Factory func(Options) (Source, error)

type entry struct {
	info    Info
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a source factory to the registry.
// Typically called from a source's init() function.
// Panics if a source with the same ID is already registered.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: source %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns information about all registered sources, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the metadata for id.
func Lookup(id string) (Info, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a source by its ID.
func Create(id string, opts Options) (Source, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSource, id)
	}

	src, err := e.factory(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: cannot create source %q: %w", id, err)
	}
	return src, nil
}

// Exists checks if a source with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
