package config

import (
	"path/filepath"
	"strings"

	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
)

// ValidateConfig checks a defaulted configuration for values that can not work.
func ValidateConfig(cfg *Config) error {
	if strings.ContainsAny(cfg.Sidecar.Bundler, `/\`) {
		return foundationerrors.ConfigError("sidecar.bundler must be an executable name, not a path").
			WithContext("bundler", cfg.Sidecar.Bundler).
			Build()
	}
	for _, arg := range cfg.Sidecar.BuildArgs {
		if arg == "--watch" {
			return foundationerrors.ConfigError("sidecar.build_args must not contain --watch").Build()
		}
	}
	if filepath.Clean(cfg.ResolvePath(cfg.Site.OutputDir)) == filepath.Clean(cfg.ResolvePath(cfg.Site.ContentDir)) {
		return foundationerrors.ConfigError("site.output_dir must differ from site.content_dir").
			WithContext("output_dir", cfg.Site.OutputDir).
			Build()
	}
	if cfg.Serve.MetricsPath != "" && !strings.HasPrefix(cfg.Serve.MetricsPath, "/") {
		return foundationerrors.ConfigError("serve.metrics_path must start with '/'").
			WithContext("metrics_path", cfg.Serve.MetricsPath).
			Build()
	}
	return nil
}
