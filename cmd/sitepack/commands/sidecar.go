package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/sitepack/internal/plugin/webpack"
	"git.home.luguber.info/inful/sitepack/internal/sidecar"
)

// SidecarCmd groups commands that operate on the bundler sidecar project.
type SidecarCmd struct {
	Resolve SidecarResolveCmd `cmd:"" help:"Print the package manager that would install sidecar dependencies"`
	Install SidecarInstallCmd `cmd:"" help:"Install sidecar dependencies"`
}

// SidecarResolveCmd prints the chosen package manager.
type SidecarResolveCmd struct{}

func (s *SidecarResolveCmd) Run(g *Global, root *CLI) error {
	manager, err := root.sidecarManager(g)
	if err != nil {
		return err
	}
	pm, err := manager.ResolvePackageManager()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(root.outWriter(), "%s (%s) in %s\n", filepath.Base(pm), pm, manager.Dir())
	return nil
}

// SidecarInstallCmd runs the package manager install in the sidecar project.
type SidecarInstallCmd struct{}

func (s *SidecarInstallCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	manager, err := root.sidecarManager(g)
	if err != nil {
		return err
	}
	return manager.InstallDependencies(ctx)
}

func (c *CLI) sidecarManager(g *Global) (*sidecar.Manager, error) {
	cfg, err := c.loadConfig(g)
	if err != nil {
		return nil, err
	}
	return webpack.NewFromConfig(cfg, sidecar.WithLogger(g.Logger)).Manager(), nil
}
