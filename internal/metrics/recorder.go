package metrics

import "time"

// ResultLabel enumerates run result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// RunKind identifies which sidecar subprocess a measurement belongs to.
type RunKind string

const (
	RunInstall RunKind = "install"
	RunBuild   RunKind = "build"
	RunWatch   RunKind = "watch"
)

// Recorder defines observability hooks for sidecar runs and site builds.
type Recorder interface {
	ObserveRun(kind RunKind, d time.Duration, result ResultLabel)
	SetWatcherActive(active bool)
	ObserveSiteBuild(d time.Duration, result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRun(RunKind, time.Duration, ResultLabel) {}
func (NoopRecorder) SetWatcherActive(bool)                          {}
func (NoopRecorder) ObserveSiteBuild(time.Duration, ResultLabel)    {}

// ResultFor maps an error to a success/failed label.
func ResultFor(err error) ResultLabel {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}
