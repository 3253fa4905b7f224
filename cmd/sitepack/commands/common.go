// Package commands implements the sitepack CLI subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitepack/internal/config"
	"git.home.luguber.info/inful/sitepack/internal/logfields"
	"git.home.luguber.info/inful/sitepack/internal/metrics"
	"git.home.luguber.info/inful/sitepack/internal/plugin"
	"git.home.luguber.info/inful/sitepack/internal/plugin/webpack"
	"git.home.luguber.info/inful/sitepack/internal/sidecar"
	"git.home.luguber.info/inful/sitepack/internal/site"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "SITEPACK_LOG_LEVEL"

// Global is shared state passed to every subcommand.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command with global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitepack.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site, running a one-shot bundler build first when enabled"`
	Serve   ServeCmd   `cmd:"" help:"Serve the site with rebuild on change and a bundler watcher when enabled"`
	Init    InitCmd    `cmd:"" help:"Initialize a configuration file and starter content"`
	Sidecar SidecarCmd `cmd:"" help:"Inspect and prepare the bundler sidecar project"`

	// stdout and stderr default to the process streams; tests replace them.
	stdout io.Writer
	stderr io.Writer
}

// AfterApply runs after flag parsing; it installs the initial logger.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = c.newLogger(c.level(""), config.LogFormatText)
	slog.SetDefault(g.Logger)
	return nil
}

func (c *CLI) outWriter() io.Writer {
	if c.stdout != nil {
		return c.stdout
	}
	return os.Stdout
}

func (c *CLI) errWriter() io.Writer {
	if c.stderr != nil {
		return c.stderr
	}
	return os.Stderr
}

// level picks the log level: -v first, then SITEPACK_LOG_LEVEL, then the
// configured level.
func (c *CLI) level(configured config.LogLevel) slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	raw := os.Getenv(LogLevelEnv)
	if raw == "" {
		raw = string(configured)
	}
	switch config.NormalizeLogLevel(raw) {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *CLI) newLogger(level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(c.errWriter(), opts))
	}
	return slog.New(slog.NewTextHandler(c.errWriter(), opts))
}

// loadConfig loads the configuration file, falling back to defaults when the
// default file is absent, and re-applies logging settings from it.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if filepath.Base(c.Config) == config.DefaultConfigFile {
		cfg, err = config.LoadOptional(c.Config)
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, err
	}

	g.Logger = c.newLogger(c.level(cfg.Logging.Level), cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// ExtraFlags are the plugin flags shared by build and serve.
type ExtraFlags struct {
	Webpack bool     `help:"Enable the webpack sidecar (same as --flag webpack)"`
	Flag    []string `short:"f" name:"flag" help:"Extra plugin flag as key or key:value (repeatable)"`
}

// Flags converts the command line into the mapping passed to plugins.
func (e ExtraFlags) Flags() (plugin.Flags, error) {
	flags, err := plugin.ParseFlags(e.Flag)
	if err != nil {
		return nil, err
	}
	if e.Webpack {
		flags[sidecar.EnabledFlag] = true
	}
	return flags, nil
}

// cmdRuntime bundles the components a build or serve command wires together.
type cmdRuntime struct {
	registry *plugin.Registry
	builder  *site.Builder
	metrics  *prom.Registry
	logger   *slog.Logger
}

func newRuntime(cfg *config.Config, g *Global, siteOpts ...site.Option) (*cmdRuntime, error) {
	promReg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(promReg)

	registry := plugin.NewRegistry()
	wp := webpack.NewFromConfig(cfg,
		sidecar.WithRecorder(recorder),
		sidecar.WithLogger(g.Logger),
		sidecar.WithReporter(plugin.NewSlogReporter(g.Logger)))
	if err := registry.Register(wp); err != nil {
		return nil, err
	}

	builder := site.NewBuilder(cfg, append([]site.Option{
		site.WithRecorder(recorder),
		site.WithLogger(g.Logger),
	}, siteOpts...)...)

	for _, p := range registry.List() {
		g.Logger.Debug("Plugin registered", logfields.Plugin(p.Metadata().String()))
	}
	return &cmdRuntime{registry: registry, builder: builder, metrics: promReg, logger: g.Logger}, nil
}

func (r *cmdRuntime) close() {
	if err := r.registry.Close(); err != nil {
		r.logger.Warn("Plugin cleanup failed", slog.String("error", err.Error()))
	}
}

func describeFlags(flags plugin.Flags) string {
	keys := make([]string, 0, len(flags))
	for k := range flags {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "none"
	}
	slices.Sort(keys)
	return strings.Join(keys, ",")
}
