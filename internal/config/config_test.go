package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "site:\n  title: Docs\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Docs", cfg.Site.Title)
	assert.Equal(t, "content", cfg.Site.ContentDir)
	assert.Equal(t, "public", cfg.Site.OutputDir)
	assert.Equal(t, "webpack", cfg.Sidecar.Bundler)
	assert.Equal(t, []string{"--watch"}, cfg.Sidecar.WatchArgs)
	assert.Equal(t, "127.0.0.1:5000", cfg.Serve.Addr)
	assert.Equal(t, "/metrics", cfg.Serve.MetricsPath)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, filepath.Join(dir, "webpack"), cfg.SidecarDir())
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SITEPACK_TEST_BUNDLER", "rspack")
	dir := t.TempDir()
	path := writeConfig(t, dir, "sidecar:\n  dir: /opt/assets\n  bundler: ${SITEPACK_TEST_BUNDLER}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rspack", cfg.Sidecar.Bundler)
	assert.Equal(t, "/opt/assets", cfg.SidecarDir())
}

func TestLoad_DotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	t.Setenv("SITEPACK_TEST_TITLE", "from-process")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SITEPACK_TEST_TITLE=from-dotenv\nSITEPACK_TEST_OUT=dist\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SITEPACK_TEST_OUT") })
	path := writeConfig(t, dir, "site:\n  title: ${SITEPACK_TEST_TITLE}\n  output_dir: ${SITEPACK_TEST_OUT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-process", cfg.Site.Title)
	assert.Equal(t, "dist", cfg.Site.OutputDir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryNotFound))
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "site: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
}

func TestLoadOptional_FallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadOptional(DefaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, "webpack", cfg.Sidecar.Dir)
	assert.Equal(t, dir, cfg.BaseDir())
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bundler path", func(c *Config) { c.Sidecar.Bundler = "node_modules/.bin/webpack" }},
		{"watch in build args", func(c *Config) { c.Sidecar.BuildArgs = []string{"--watch"} }},
		{"output equals content", func(c *Config) { c.Site.OutputDir = "content" }},
		{"relative metrics path", func(c *Config) { c.Serve.MetricsPath = "metrics" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/srv/site")
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryConfig))
		})
	}

	require.NoError(t, ValidateConfig(Default("/srv/site")))
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Site", cfg.Site.Title)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, foundationerrors.HasCategory(err, foundationerrors.CategoryValidation))

	require.NoError(t, Init(path, true))
}

func TestNormalizeLogging(t *testing.T) {
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("json"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat(""))
}
