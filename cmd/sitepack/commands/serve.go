package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitepack/internal/host"
	"git.home.luguber.info/inful/sitepack/internal/metrics"
)

// ServeCmd runs a development session: build, serve, rebuild on change.
type ServeCmd struct {
	ExtraFlags `embed:""`

	Addr string `help:"Listen address (overrides serve.addr)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}
	flags, err := s.Flags()
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, g)
	if err != nil {
		return err
	}
	defer rt.close()

	h := host.New(cfg, rt.builder, rt.registry,
		host.WithLogger(g.Logger),
		host.WithMetricsHandler(metrics.HTTPHandler(rt.metrics)))
	return h.Serve(ctx, flags)
}
