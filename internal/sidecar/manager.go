package sidecar

import (
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepack/internal/logfields"
	"git.home.luguber.info/inful/sitepack/internal/metrics"
	"git.home.luguber.info/inful/sitepack/internal/plugin"
)

// EnabledFlag is the extra-flag key that turns the sidecar on.
const EnabledFlag = "webpack"

// State is the manager's position in its lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StateWatching State = "watching"
)

// Manager bridges host lifecycle events to bundler subprocesses for one
// sidecar project.
type Manager struct {
	dir       string
	bundler   string
	watchArgs []string
	buildArgs []string

	runner   Runner
	lookPath func(string) (string, error)
	recorder metrics.Recorder
	reporter plugin.Reporter
	logger   *slog.Logger

	// opMu serializes the lifecycle hooks, including their blocking
	// install and build runs. mu guards only the watcher handle so State
	// and Watcher never wait on a subprocess.
	opMu    sync.Mutex
	mu      sync.Mutex
	watcher Process
}

// Option configures a Manager.
type Option func(*Manager)

// WithBundler sets the bundler executable name under node_modules/.bin.
func WithBundler(name string) Option {
	return func(m *Manager) { m.bundler = name }
}

// WithWatchArgs replaces the arguments passed to the bundler in watch mode.
func WithWatchArgs(args ...string) Option {
	return func(m *Manager) { m.watchArgs = args }
}

// WithBuildArgs sets extra arguments for the one-shot build.
func WithBuildArgs(args ...string) Option {
	return func(m *Manager) { m.buildArgs = args }
}

// WithRunner injects the subprocess runner.
func WithRunner(r Runner) Option {
	return func(m *Manager) { m.runner = r }
}

// WithLookPath injects the executable search used for yarn and npm.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(m *Manager) { m.lookPath = fn }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithReporter injects the host reporting channel.
func WithReporter(r plugin.Reporter) Option {
	return func(m *Manager) { m.reporter = r }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager for the sidecar project in dir. dir is made
// absolute once and never changes.
func NewManager(dir string, opts ...Option) *Manager {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	m := &Manager{
		dir:       dir,
		bundler:   "webpack",
		watchArgs: []string{"--watch"},
		runner:    NewExecRunner(),
		lookPath:  exec.LookPath,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.reporter == nil {
		m.reporter = plugin.NewSlogReporter(m.logger)
	}
	m.logger = m.logger.With(logfields.SidecarDir(m.dir))
	return m
}

// Dir returns the sidecar project directory.
func (m *Manager) Dir() string {
	return m.dir
}

// BundlerPath returns <dir>/node_modules/.bin/<bundler>.
func (m *Manager) BundlerPath() string {
	return filepath.Join(m.dir, "node_modules", ".bin", m.bundler)
}

// IsEnabled reports whether flags turn the sidecar on.
func (m *Manager) IsEnabled(flags plugin.Flags) bool {
	return flags.Bool(EnabledFlag)
}

// State returns StateWatching while a watch process handle is held.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.watcher != nil {
		return StateWatching
	}
	return StateIdle
}

// Watcher returns the held watch process, or nil.
func (m *Manager) Watcher() Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watcher
}

func (m *Manager) setWatcher(p Process) {
	m.mu.Lock()
	m.watcher = p
	m.mu.Unlock()
}

// InstallDependencies runs "<package manager> install" in the sidecar
// directory and waits for it.
func (m *Manager) InstallDependencies(ctx context.Context) error {
	pm, err := m.ResolvePackageManager()
	if err != nil {
		return err
	}

	m.reporter.ReportGeneric("Running "+filepath.Base(pm)+" install", logfields.PkgManager(pm))
	cmd := Command{Path: pm, Args: []string{"install"}, Dir: m.dir}

	start := time.Now()
	err = m.runner.RunToCompletion(ctx, cmd)
	m.recorder.ObserveRun(metrics.RunInstall, time.Since(start), metrics.ResultFor(err))
	if err != nil {
		return processFailed(ErrInstallFailed, "dependency install failed", cmd.Argv(), err)
	}
	return nil
}

// OnSessionStart installs dependencies and spawns the bundler watcher when
// enabled. It does not wait for the watcher. A second call while a live
// watcher is held is a no-op.
func (m *Manager) OnSessionStart(ctx context.Context, flags plugin.Flags) error {
	if !m.IsEnabled(flags) {
		return nil
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if held := m.Watcher(); held != nil {
		select {
		case <-held.Done():
			m.logger.Info("Previous watcher has exited, replacing it", logfields.PID(held.PID()))
			m.setWatcher(nil)
		default:
			m.logger.Debug("Watcher already running", logfields.PID(held.PID()))
			return nil
		}
	}

	if err := m.InstallDependencies(ctx); err != nil {
		return err
	}

	m.reporter.ReportGeneric("Spawning " + m.bundler + " watcher")
	cmd := Command{Path: m.BundlerPath(), Args: m.watchArgs, Dir: m.dir}
	proc, err := m.runner.SpawnDetached(ctx, cmd)
	if err != nil {
		m.recorder.ObserveRun(metrics.RunWatch, 0, metrics.ResultFailed)
		err = processFailed(ErrSpawnFailed, m.bundler+" watcher failed to start", cmd.Argv(), err)
		m.reporter.ReportError("Could not spawn "+m.bundler+" watcher", err, logfields.Command(cmd.Argv()...))
		return err
	}
	m.recorder.ObserveRun(metrics.RunWatch, 0, metrics.ResultSuccess)
	m.recorder.SetWatcherActive(true)

	m.setWatcher(proc)
	m.logger.Debug("Watcher spawned", logfields.PID(proc.PID()), logfields.State(string(StateWatching)))
	go m.observeExit(proc)
	return nil
}

// observeExit reports a watcher that exits on its own. Crashes are reported,
// not restarted.
func (m *Manager) observeExit(proc Process) {
	<-proc.Done()

	m.mu.Lock()
	held := m.watcher == proc
	m.mu.Unlock()
	if !held {
		return
	}

	m.recorder.SetWatcherActive(false)
	if err := proc.Err(); err != nil {
		m.reporter.ReportError(m.bundler+" watcher exited unexpectedly", err,
			logfields.PID(proc.PID()), logfields.ExitCode(ExitCode(err)))
		return
	}
	m.reporter.ReportGeneric(m.bundler+" watcher exited", logfields.PID(proc.PID()))
}

// OnSessionStop kills the held watcher, if any, and returns to idle.
func (m *Manager) OnSessionStop(_ context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	proc := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	if proc == nil {
		return nil
	}

	m.reporter.ReportGeneric("Stopping "+m.bundler+" watcher", logfields.PID(proc.PID()))
	m.recorder.SetWatcherActive(false)
	if err := proc.Kill(); err != nil {
		return foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "failed to stop "+m.bundler+" watcher").
			WithContext("pid", proc.PID()).
			Build()
	}
	return nil
}

// OnBuildAll installs dependencies and runs a one-shot bundler build when
// enabled and no watcher is held. A failing build is returned so the site
// build aborts.
func (m *Manager) OnBuildAll(ctx context.Context, flags plugin.Flags) error {
	if !m.IsEnabled(flags) {
		return nil
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if held := m.Watcher(); held != nil {
		m.logger.Debug("Skipping one-shot build, watcher is running", logfields.PID(held.PID()))
		m.recorder.ObserveRun(metrics.RunBuild, 0, metrics.ResultSkipped)
		return nil
	}

	if err := m.InstallDependencies(ctx); err != nil {
		return err
	}

	m.reporter.ReportGeneric("Starting " + m.bundler + " build")
	cmd := Command{Path: m.BundlerPath(), Args: m.buildArgs, Dir: m.dir}

	start := time.Now()
	err := m.runner.RunToCompletion(ctx, cmd)
	m.recorder.ObserveRun(metrics.RunBuild, time.Since(start), metrics.ResultFor(err))
	if err != nil {
		return processFailed(ErrBuildFailed, m.bundler+" build failed", cmd.Argv(), err)
	}
	m.reporter.ReportGeneric(m.bundler+" build finished", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

// Close stops any held watcher. It is safe to call repeatedly.
func (m *Manager) Close() error {
	return m.OnSessionStop(context.Background())
}
