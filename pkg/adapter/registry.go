package adapter

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Factory creates an unconnected adapter.
type Factory func(*slog.Logger) Adapter

// Info describes a registered adapter type.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	// Targets explains what source.from and sink targets name for this type.
	Targets string `json:"targets" yaml:"targets"`
}

type registration struct {
	info    Info
	factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]registration)
)

// Register adds an adapter type to the registry. Adapter packages call it
// from init(); registering a name twice replaces the earlier entry.
func Register(info Info, factory Factory) {
	if info.Name == "" || factory == nil {
		panic("adapter: Register requires a name and a factory")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[info.Name] = registration{info: info, factory: factory}
}

// Get retrieves an adapter factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[name]
	return r.factory, ok
}

// Lookup returns the description of a registered adapter type.
func Lookup(name string) (Info, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[name]
	return r.info, ok
}

// NewAdapter creates an unconnected adapter for cfg.Type.
// A nil logger is replaced with a discard logger.
func NewAdapter(cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("adapter type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{
			Type:      cfg.Type,
			Available: ListAdapters(),
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(logger.With(slog.String("adapter", cfg.Type))), nil
}

// Adapters returns the descriptions of all registered types, sorted by name.
func Adapters() []Info {
	registryMu.RLock()
	infos := make([]Info, 0, len(registry))
	for _, r := range registry {
		infos = append(infos, r.info)
	}
	registryMu.RUnlock()

	slices.SortFunc(infos, func(a, b Info) int { return cmp.Compare(a.Name, b.Name) })
	return infos
}

// ListAdapters returns all registered adapter names (sorted).
func ListAdapters() []string {
	infos := Adapters()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names
}

// IsRegistered checks if an adapter type is registered.
func IsRegistered(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// UnknownAdapterError is returned when an unknown adapter type is requested.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q\nAvailable adapters: %v\nHint: Check source.type and sinks.type in leapiqr.yaml", e.Type, e.Available)
}
