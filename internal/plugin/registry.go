package plugin

import (
	"errors"
	"fmt"
	"sync"
)

// Registry manages plugin registration in registration order.
// Dispatch order follows registration order.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	byName  map[string]Plugin
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Plugin),
	}
}

// Register validates and adds a plugin, calling Init when it implements PluginLifecycle.
// Returns an error if a plugin with the same name already exists.
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	metadata := plugin.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[metadata.Name]; exists {
		return fmt.Errorf("plugin %s already registered", metadata.Name)
	}

	if lc, ok := plugin.(PluginLifecycle); ok {
		if err := lc.Init(); err != nil {
			return fmt.Errorf("init plugin %s: %w", metadata, err)
		}
	}

	r.plugins = append(r.plugins, plugin)
	r.byName[metadata.Name] = plugin
	return nil
}

// List returns all registered plugins in registration order.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// ListHandling returns the plugins that implement the handler for ev.
func (r *Registry) ListHandling(ev Event) []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Plugin
	for _, p := range r.plugins {
		if handles(p, ev) {
			result = append(result, p)
		}
	}
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}

// Close calls Cleanup on lifecycle plugins in reverse registration order and
// empties the registry. All cleanup errors are returned joined.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.plugins) - 1; i >= 0; i-- {
		if lc, ok := r.plugins[i].(PluginLifecycle); ok {
			if err := lc.Cleanup(); err != nil {
				errs = append(errs, fmt.Errorf("cleanup plugin %s: %w", lc.Metadata(), err))
			}
		}
	}
	r.plugins = nil
	r.byName = make(map[string]Plugin)
	return errors.Join(errs...)
}
