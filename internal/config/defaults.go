package config

import "fmt"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// SiteDefaultApplier handles Site configuration defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Untitled Site"
	}
	if cfg.Site.ContentDir == "" {
		cfg.Site.ContentDir = "content"
	}
	if cfg.Site.StaticDir == "" {
		cfg.Site.StaticDir = "static"
	}
	if cfg.Site.OutputDir == "" {
		cfg.Site.OutputDir = "public"
	}
	return nil
}

// SidecarDefaultApplier handles bundler sidecar defaults.
type SidecarDefaultApplier struct{}

func (SidecarDefaultApplier) Domain() string { return "sidecar" }

func (SidecarDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Sidecar.Dir == "" {
		cfg.Sidecar.Dir = "webpack"
	}
	if cfg.Sidecar.Bundler == "" {
		cfg.Sidecar.Bundler = "webpack"
	}
	if len(cfg.Sidecar.WatchArgs) == 0 {
		cfg.Sidecar.WatchArgs = []string{"--watch"}
	}
	return nil
}

// ServeDefaultApplier handles dev server defaults.
type ServeDefaultApplier struct{}

func (ServeDefaultApplier) Domain() string { return "serve" }

func (ServeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = "127.0.0.1:5000"
	}
	if cfg.Serve.MetricsPath == "" {
		cfg.Serve.MetricsPath = "/metrics"
	}
	return nil
}

// LoggingDefaultApplier normalizes logging settings.
type LoggingDefaultApplier struct{}

func (LoggingDefaultApplier) Domain() string { return "logging" }

func (LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

var defaultAppliers = []DefaultApplier{
	SiteDefaultApplier{},
	SidecarDefaultApplier{},
	ServeDefaultApplier{},
	LoggingDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("apply %s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}
