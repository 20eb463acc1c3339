// Package llm - provider registry
package llm

import (
	"fmt"
	"sort"
	"sync"

	. "github.com/modelgate/modelgate/internal/logging"
)

// Registry maps provider identifiers to factories and answers capability
// queries. Reads may occur concurrently with writes; writes serialize.
// Built-in factories are registered lazily, exactly once, on first lookup;
// one factory failing to register must not prevent the others.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	initOnce  sync.Once
}

// NewRegistry creates an empty registry. Most callers use Default().
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Global registry singleton
var (
	defaultRegistry   = NewRegistry()
	defaultRegistryMu sync.RWMutex
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryMu.RLock()
	defer defaultRegistryMu.RUnlock()
	return defaultRegistry
}

// SetDefault replaces the process-wide registry (test injection point).
func SetDefault(r *Registry) {
	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()
	defaultRegistry = r
}

// builtin factory builders, queued by provider packages' init functions.
var (
	builtinsMu sync.Mutex
	builtins   []func() ProviderFactory
)

// AddBuiltin queues a built-in factory builder. Provider packages call this
// from init(); the registry runs the queue on first lookup.
func AddBuiltin(build func() ProviderFactory) {
	builtinsMu.Lock()
	defer builtinsMu.Unlock()
	builtins = append(builtins, build)
}

// ensureBuiltins registers the queued built-in factories. Each registration
// is attempted independently.
func (r *Registry) ensureBuiltins() {
	r.initOnce.Do(func() {
		builtinsMu.Lock()
		queue := append([]func() ProviderFactory(nil), builtins...)
		builtinsMu.Unlock()

		for _, build := range queue {
			func() {
				defer func() {
					if rec := recover(); rec != nil {
						L_warn("llm: builtin factory panicked during registration", "panic", rec)
					}
				}()
				f := build()
				if f == nil {
					return
				}
				if err := r.Register(f); err != nil {
					L_warn("llm: builtin factory registration failed", "provider", f.ProviderID(), "error", err)
				}
			}()
		}
	})
}

// Register adds a factory; it is an error if the ID is already registered.
func (r *Registry) Register(f ProviderFactory) error {
	if f == nil {
		return &InvalidRequestError{Message: "nil factory"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := f.ProviderID()
	if _, exists := r.factories[id]; exists {
		return &InvalidRequestError{Message: fmt.Sprintf("provider %q already registered", id)}
	}
	r.factories[id] = f
	L_debug("llm: provider registered", "provider", id)
	return nil
}

// RegisterOrReplace adds a factory, replacing any existing registration.
func (r *Registry) RegisterOrReplace(f ProviderFactory) {
	if f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[f.ProviderID()] = f
	L_debug("llm: provider registered (replace)", "provider", f.ProviderID())
}

// Unregister removes a factory. Returns true if one was removed.
func (r *Registry) Unregister(id string) bool {
	r.ensureBuiltins()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; !exists {
		return false
	}
	delete(r.factories, id)
	return true
}

// GetFactory returns the factory for a provider ID.
func (r *Registry) GetFactory(id string) (ProviderFactory, error) {
	r.ensureBuiltins()
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[id]
	if !ok {
		return nil, &NotFoundError{Message: fmt.Sprintf("provider %q not registered", id)}
	}
	return f, nil
}

// IsRegistered reports whether the provider ID is registered.
func (r *Registry) IsRegistered(id string) bool {
	r.ensureBuiltins()
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[id]
	return ok
}

// SupportsCapability reports whether the provider advertises the capability.
// Unregistered providers support nothing.
func (r *Registry) SupportsCapability(id string, cap Capability) bool {
	f, err := r.GetFactory(id)
	if err != nil {
		return false
	}
	return f.SupportedCapabilities().Has(cap)
}

// ProvidersWithCapability returns the sorted IDs of providers advertising
// the capability.
func (r *Registry) ProvidersWithCapability(cap Capability) []string {
	r.ensureBuiltins()
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []string
	for id, f := range r.factories {
		if f.SupportedCapabilities().Has(cap) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// CreateProvider validates the config against the factory, applies factory
// defaults, and creates a provider handle.
func (r *Registry) CreateProvider(id string, cfg Config) (Provider, error) {
	f, err := r.GetFactory(id)
	if err != nil {
		return nil, err
	}
	merged, err := ApplyDefaults(cfg, f.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := f.ValidateConfig(merged); err != nil {
		return nil, err
	}
	return f.Create(merged)
}

// AllProviderInfo returns a snapshot of every registered factory, sorted by
// provider ID.
func (r *Registry) AllProviderInfo() []ProviderInfo {
	r.ensureBuiltins()
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]ProviderInfo, 0, len(r.factories))
	for _, f := range r.factories {
		infos = append(infos, ProviderInfo{
			ID:           f.ProviderID(),
			DisplayName:  f.DisplayName(),
			Description:  f.Description(),
			Capabilities: f.SupportedCapabilities().Clone(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Clear removes all registrations and re-arms builtin initialization.
// Test hook.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = make(map[string]ProviderFactory)
	r.initOnce = sync.Once{}
}

// Package-level convenience wrappers over Default().

// Register adds a factory to the default registry.
func Register(f ProviderFactory) error { return Default().Register(f) }

// GetFactory returns a factory from the default registry.
func GetFactory(id string) (ProviderFactory, error) { return Default().GetFactory(id) }

// CreateProvider creates a provider from the default registry.
func CreateProvider(id string, cfg Config) (Provider, error) {
	return Default().CreateProvider(id, cfg)
}

// SupportsCapability queries the default registry.
func SupportsCapability(id string, cap Capability) bool {
	return Default().SupportsCapability(id, cap)
}

// ProvidersWithCapability queries the default registry.
func ProvidersWithCapability(cap Capability) []string {
	return Default().ProvidersWithCapability(cap)
}
