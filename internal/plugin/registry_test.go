package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lifecyclePlugin records Init and Cleanup calls into a shared log.
type lifecyclePlugin struct {
	name       string
	initErr    error
	cleanupErr error
	log        *[]string
}

func (p *lifecyclePlugin) Metadata() PluginMetadata {
	return PluginMetadata{Name: p.name, Version: "v1.0.0"}
}

func (p *lifecyclePlugin) Init() error {
	*p.log = append(*p.log, "init:"+p.name)
	return p.initErr
}

func (p *lifecyclePlugin) Cleanup() error {
	*p.log = append(*p.log, "cleanup:"+p.name)
	return p.cleanupErr
}

// TestRegistryRegister tests plugin registration.
func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()
	plugin := newRecordingPlugin("test-plugin", nil)

	require.NoError(t, registry.Register(plugin))
	assert.Equal(t, 1, registry.Count())
	require.Len(t, registry.List(), 1)
	assert.Same(t, plugin, registry.List()[0])

	// Duplicate names are rejected
	require.Error(t, registry.Register(newRecordingPlugin("test-plugin", nil)))
}

func TestRegistryRegisterInvalid(t *testing.T) {
	registry := NewRegistry()

	require.Error(t, registry.Register(nil))
	require.Error(t, registry.Register(newRecordingPlugin("", nil)))
	assert.Equal(t, 0, registry.Count())
}

func TestRegistryOrder(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, registry.Register(newRecordingPlugin(name, nil)))
	}

	var names []string
	for _, p := range registry.List() {
		names = append(names, p.Metadata().Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestRegistryLifecycle(t *testing.T) {
	var log []string
	registry := NewRegistry()

	require.NoError(t, registry.Register(&lifecyclePlugin{name: "first", log: &log}))
	require.NoError(t, registry.Register(&lifecyclePlugin{name: "second", log: &log, cleanupErr: errors.New("busy")}))

	err := registry.Register(&lifecyclePlugin{name: "broken", log: &log, initErr: errors.New("no")})
	require.Error(t, err)
	assert.Equal(t, 2, registry.Count())

	err = registry.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
	assert.Equal(t, []string{"init:first", "init:second", "init:broken", "cleanup:second", "cleanup:first"}, log)
	assert.Equal(t, 0, registry.Count())
}
