package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
)

// DefaultConfigFile is the configuration file name looked up when none is given.
const DefaultConfigFile = "sitepack.yaml"

// Config represents the sitepack configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Sidecar SidecarConfig `yaml:"sidecar"`
	Serve   ServeConfig   `yaml:"serve"`
	Logging LoggingConfig `yaml:"logging"`

	// baseDir anchors relative paths; it is the directory of the loaded file.
	baseDir string
}

// SiteConfig describes the host site sources and output.
type SiteConfig struct {
	Title      string `yaml:"title"`
	ContentDir string `yaml:"content_dir"`
	StaticDir  string `yaml:"static_dir"`
	OutputDir  string `yaml:"output_dir"`
}

// SidecarConfig describes the JavaScript project built by the bundler sidecar.
type SidecarConfig struct {
	// Dir is the sidecar project directory (bundler config, lockfile, node_modules).
	Dir string `yaml:"dir"`
	// Bundler is the executable name under node_modules/.bin.
	Bundler   string   `yaml:"bundler"`
	WatchArgs []string `yaml:"watch_args,omitempty"`
	BuildArgs []string `yaml:"build_args,omitempty"`
}

// ServeConfig configures the development server session.
type ServeConfig struct {
	Addr        string `yaml:"addr"`
	MetricsPath string `yaml:"metrics_path"`
	// DisableMetrics turns off the Prometheus endpoint on the dev server.
	DisableMetrics bool `yaml:"disable_metrics,omitempty"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Default returns a configuration with every default applied, anchored at baseDir.
func Default(baseDir string) *Config {
	cfg := &Config{baseDir: baseDir}
	// Defaults never fail on an empty config.
	_ = applyDefaults(cfg)
	return cfg
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(filepath.Dir(configPath)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, foundationerrors.NotFoundError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryConfig, "failed to unmarshal config").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.baseDir = filepath.Dir(absPath)

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional loads configPath when it exists and otherwise returns defaults
// anchored at the current working directory.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determine working directory: %w", err)
		}
		if err := loadEnvFiles(wd); err != nil {
			return nil, err
		}
		return Default(wd), nil
	}
	return Load(configPath)
}

// BaseDir returns the directory relative paths are resolved against.
func (c *Config) BaseDir() string {
	return c.baseDir
}

// ResolvePath anchors p at the configuration directory unless it is absolute.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// SidecarDir returns the absolute sidecar project directory.
func (c *Config) SidecarDir() string {
	return c.ResolvePath(c.Sidecar.Dir)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return foundationerrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default("")
	example.Site.Title = "My Site"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	header := []byte("# sitepack configuration\n# Run `sitepack serve --webpack` to start the bundler watcher alongside the dev server.\n")
	if err := os.WriteFile(configPath, append(header, data...), 0o600); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
