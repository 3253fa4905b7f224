// Package webpack exposes the bundler sidecar manager as a sitepack plugin.
package webpack

import (
	"context"

	"git.home.luguber.info/inful/sitepack/internal/config"
	"git.home.luguber.info/inful/sitepack/internal/plugin"
	"git.home.luguber.info/inful/sitepack/internal/sidecar"
)

// Name is the registry name of the plugin.
const Name = "webpack-support"

// Version is the plugin version reported in metadata.
const Version = "v1.0.0"

// WebpackPlugin forwards host lifecycle events to a sidecar.Manager.
type WebpackPlugin struct {
	plugin.BasePlugin
	manager *sidecar.Manager
}

// NewWebpackPlugin wraps manager.
func NewWebpackPlugin(manager *sidecar.Manager) *WebpackPlugin {
	return &WebpackPlugin{manager: manager}
}

// Metadata returns the plugin metadata.
func (p *WebpackPlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     Version,
		Description: "Runs a webpack watcher during dev sessions and a webpack build before full builds",
	}
}

// Manager returns the wrapped sidecar manager.
func (p *WebpackPlugin) Manager() *sidecar.Manager {
	return p.manager
}

// OnSessionSpawn installs dependencies and starts the watcher when the
// "webpack" flag is set.
func (p *WebpackPlugin) OnSessionSpawn(ctx context.Context, hc *plugin.HookContext) error {
	return p.manager.OnSessionStart(ctx, hc.Flags)
}

// OnSessionStop kills the watcher started for the session.
func (p *WebpackPlugin) OnSessionStop(ctx context.Context, _ *plugin.HookContext) error {
	return p.manager.OnSessionStop(ctx)
}

// OnBeforeBuildAll runs a one-shot bundler build unless a watcher is live.
func (p *WebpackPlugin) OnBeforeBuildAll(ctx context.Context, hc *plugin.HookContext) error {
	return p.manager.OnBuildAll(ctx, hc.Flags)
}

// Cleanup stops a watcher still held when the host shuts down.
func (p *WebpackPlugin) Cleanup() error {
	return p.manager.Close()
}

// NewFromConfig builds the plugin for the sidecar project described in cfg.
// opts are applied after the configuration-derived options.
func NewFromConfig(cfg *config.Config, opts ...sidecar.Option) *WebpackPlugin {
	base := []sidecar.Option{sidecar.WithBundler(cfg.Sidecar.Bundler)}
	if len(cfg.Sidecar.WatchArgs) > 0 {
		base = append(base, sidecar.WithWatchArgs(cfg.Sidecar.WatchArgs...))
	}
	if len(cfg.Sidecar.BuildArgs) > 0 {
		base = append(base, sidecar.WithBuildArgs(cfg.Sidecar.BuildArgs...))
	}
	return NewWebpackPlugin(sidecar.NewManager(cfg.SidecarDir(), append(base, opts...)...))
}
