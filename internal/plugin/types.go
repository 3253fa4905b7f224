package plugin

import (
	"context"
	"fmt"
)

// Event names a host lifecycle event.
type Event string

const (
	// EventSessionSpawn fires when a development server session starts.
	EventSessionSpawn Event = "session_spawn"

	// EventSessionStop fires when a development server session ends.
	EventSessionStop Event = "session_stop"

	// EventBeforeBuildAll fires before a full site build.
	EventBeforeBuildAll Event = "before_build_all"
)

// String returns the string representation of the event.
func (e Event) String() string {
	return string(e)
}

// SessionSpawnHandler is implemented by plugins reacting to dev server start.
type SessionSpawnHandler interface {
	OnSessionSpawn(ctx context.Context, hc *HookContext) error
}

// SessionStopHandler is implemented by plugins reacting to dev server stop.
type SessionStopHandler interface {
	OnSessionStop(ctx context.Context, hc *HookContext) error
}

// BeforeBuildAllHandler is implemented by plugins that run before a full build.
// Returning an error aborts the build.
type BeforeBuildAllHandler interface {
	OnBeforeBuildAll(ctx context.Context, hc *HookContext) error
}

// handles reports whether p implements the handler for ev.
func handles(p Plugin, ev Event) bool {
	switch ev {
	case EventSessionSpawn:
		_, ok := p.(SessionSpawnHandler)
		return ok
	case EventSessionStop:
		_, ok := p.(SessionStopHandler)
		return ok
	case EventBeforeBuildAll:
		_, ok := p.(BeforeBuildAllHandler)
		return ok
	default:
		return false
	}
}

// PluginError represents an error that occurred within a plugin.
type PluginError struct {
	// PluginName identifies which plugin failed.
	PluginName string

	// Event is the lifecycle event being handled when it failed.
	Event Event

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed during %s: %v", e.PluginName, e.Event, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(pluginName string, event Event, err error) *PluginError {
	return &PluginError{
		PluginName: pluginName,
		Event:      event,
		Err:        err,
	}
}
