package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitepack/internal/host"
	"git.home.luguber.info/inful/sitepack/internal/logfields"
	"git.home.luguber.info/inful/sitepack/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	ExtraFlags `embed:""`

	Output string `short:"o" help:"Output directory (overrides site.output_dir)" type:"path"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	flags, err := b.Flags()
	if err != nil {
		return err
	}

	rt, err := newRuntime(cfg, g, site.WithOutputDir(b.Output))
	if err != nil {
		return err
	}
	defer rt.close()

	g.Logger.Info("Starting sitepack build",
		logfields.Path(rt.builder.OutputDir()),
		slog.String("flags", describeFlags(flags)),
		slog.Int("plugins", rt.registry.Count()))

	report, err := host.New(cfg, rt.builder, rt.registry, host.WithLogger(g.Logger)).Build(ctx, flags)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(root.outWriter(), "Built %d pages into %s\n", report.Pages, report.OutputDir)
	return nil
}
