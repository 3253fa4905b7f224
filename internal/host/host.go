// Package host drives the site builder and the plugin lifecycle for the
// build and serve commands.
package host

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitepack/internal/config"
	"git.home.luguber.info/inful/sitepack/internal/logfields"
	"git.home.luguber.info/inful/sitepack/internal/plugin"
	"git.home.luguber.info/inful/sitepack/internal/site"
)

// DefaultDebounce is the quiet period before a changed source tree is rebuilt.
const DefaultDebounce = 300 * time.Millisecond

// stopTimeout bounds teardown work run after the serve context is done.
const stopTimeout = 10 * time.Second

// Host owns a site builder and the plugins that hook into its lifecycle.
type Host struct {
	cfg        *config.Config
	builder    *site.Builder
	dispatcher *plugin.Dispatcher
	logger     *slog.Logger

	metricsHandler http.Handler
	debounce       time.Duration
	onListen       func(net.Addr)
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the host logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithMetricsHandler mounts h at the configured metrics path while serving.
func WithMetricsHandler(handler http.Handler) Option {
	return func(h *Host) { h.metricsHandler = handler }
}

// WithDebounce sets the rebuild debounce window used while serving.
func WithDebounce(d time.Duration) Option {
	return func(h *Host) { h.debounce = d }
}

// WithListenCallback is invoked with the bound address once the dev server
// is accepting connections.
func WithListenCallback(fn func(net.Addr)) Option {
	return func(h *Host) { h.onListen = fn }
}

// New creates a host. Plugins in registry receive lifecycle events in
// registration order.
func New(cfg *config.Config, builder *site.Builder, registry *plugin.Registry, opts ...Option) *Host {
	h := &Host{
		cfg:      cfg,
		builder:  builder,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.dispatcher = plugin.NewDispatcher(registry, h.logger)
	return h
}

func (h *Host) hookContext(flags plugin.Flags) *plugin.HookContext {
	return plugin.NewHookContext(h.logger, h.cfg, flags)
}

// Build dispatches the before-build-all event and then builds the site.
// A plugin failure aborts the build before any output is written.
func (h *Host) Build(ctx context.Context, flags plugin.Flags) (*site.Report, error) {
	return h.build(ctx, h.hookContext(flags))
}

func (h *Host) build(ctx context.Context, session *plugin.HookContext) (*site.Report, error) {
	hc := *session
	hc.BuildID = uuid.NewString()
	logger := h.logger.With(logfields.BuildID(hc.BuildID))
	if hc.SessionID != "" {
		logger = logger.With(logfields.SessionID(hc.SessionID))
	}
	hc.Logger = logger

	if err := h.dispatcher.BeforeBuildAll(ctx, &hc); err != nil {
		logger.Error("Build aborted by plugin", logfields.Error(err))
		return nil, err
	}
	return h.builder.Build(ctx, hc.BuildID)
}

// Serve runs a development session until ctx is done: it dispatches the
// session spawn event, builds the site, serves the output over HTTP and
// rebuilds on source changes. The session stop event is always dispatched
// before Serve returns, even when startup fails.
func (h *Host) Serve(ctx context.Context, flags plugin.Flags) (err error) {
	hc := h.hookContext(flags)
	hc.SessionID = uuid.NewString()
	logger := h.logger.With(logfields.SessionID(hc.SessionID))
	hc.Logger = logger

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		if stopErr := h.dispatcher.SessionStop(stopCtx, hc); stopErr != nil {
			logger.Error("Session stop hooks failed", logfields.Error(stopErr))
			err = errors.Join(err, stopErr)
		}
		logger.Info("Session ended")
	}()

	logger.Info("Starting session")
	if err := h.dispatcher.SessionSpawn(ctx, hc); err != nil {
		return err
	}

	if _, err := h.build(ctx, hc); err != nil {
		return err
	}

	srv, err := newDevServer(ctx, h.cfg.Serve, h.builder.OutputDir(), h.metricsHandler, logger)
	if err != nil {
		return err
	}
	if h.onListen != nil {
		h.onListen(srv.Addr())
	}

	watcher, err := newSourceWatcher(
		[]string{h.builder.ContentDir(), h.builder.StaticDir()},
		[]string{h.builder.OutputDir()},
		h.debounce,
		func(ctx context.Context) {
			if _, err := h.build(ctx, hc); err != nil && ctx.Err() == nil {
				logger.Error("Rebuild failed", logfields.Error(err))
			}
		},
		logger,
	)
	if err != nil {
		_ = srv.Shutdown(context.WithoutCancel(ctx))
		return err
	}
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	watcher.Start(watchCtx)

	select {
	case <-ctx.Done():
	case err = <-srv.Errors():
		logger.Error("Dev server failed", logfields.Error(err))
	}

	stopWatch()
	watcher.Wait()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		err = errors.Join(err, shutdownErr)
	}
	return err
}
