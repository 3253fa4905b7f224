// Package plugin provides the sitepack plugin system: plugins register with a
// Registry and receive host lifecycle events through a Dispatcher.
package plugin

import (
	"fmt"
)

// Plugin represents a sitepack plugin. Lifecycle behavior is opted into by
// additionally implementing one or more of the handler interfaces in types.go.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, description).
	Metadata() PluginMetadata
}

// PluginLifecycle extends Plugin with optional load/unload hooks.
type PluginLifecycle interface {
	Plugin

	// Init is called once when the plugin is registered.
	Init() error

	// Cleanup is called when the registry is closed.
	Cleanup() error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "webpack-support").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Description provides a human-readable summary of the plugin's purpose.
	Description string

	// Author is the plugin creator or maintainer.
	Author string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// BasePlugin provides default implementations for plugin lifecycle methods.
// Plugins can embed this to avoid implementing optional methods.
type BasePlugin struct{}

// Init is a no-op default implementation.
func (b *BasePlugin) Init() error {
	return nil
}

// Cleanup is a no-op default implementation.
func (b *BasePlugin) Cleanup() error {
	return nil
}
