package plugin

import (
	"context"
	"testing"
)

// TestPluginMetadataValidation tests plugin metadata validation.
func TestPluginMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		metadata  PluginMetadata
		expectErr bool
	}{
		{
			name: "valid metadata",
			metadata: PluginMetadata{
				Name:        "test-plugin",
				Version:     "v1.0.0",
				Description: "Test plugin",
			},
			expectErr: false,
		},
		{
			name:      "missing name",
			metadata:  PluginMetadata{Version: "v1.0.0"},
			expectErr: true,
		},
		{
			name:      "missing version",
			metadata:  PluginMetadata{Name: "test-plugin"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestPluginMetadataString tests metadata string representation.
func TestPluginMetadataString(t *testing.T) {
	metadata := PluginMetadata{Name: "webpack-support", Version: "v1.0.0"}

	if got := metadata.String(); got != "webpack-support@v1.0.0" {
		t.Errorf("String() = %q", got)
	}
}

// TestPluginError tests plugin error creation and unwrapping.
func TestPluginError(t *testing.T) {
	baseErr := context.Canceled
	pluginErr := NewPluginError("test-plugin", EventBeforeBuildAll, baseErr)

	expected := "plugin test-plugin failed during before_build_all: context canceled"
	if pluginErr.Error() != expected {
		t.Errorf("Error() = %q, expected %q", pluginErr.Error(), expected)
	}

	if pluginErr.Unwrap() != baseErr {
		t.Errorf("Unwrap() = %v, expected %v", pluginErr.Unwrap(), baseErr)
	}
}

// TestBasePluginDefaults tests the default implementations in BasePlugin.
func TestBasePluginDefaults(t *testing.T) {
	var base BasePlugin

	if err := base.Init(); err != nil {
		t.Errorf("Init() returned error: %v", err)
	}
	if err := base.Cleanup(); err != nil {
		t.Errorf("Cleanup() returned error: %v", err)
	}
}
