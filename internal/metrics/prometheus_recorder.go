package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runDuration   *prom.HistogramVec
	runResults    *prom.CounterVec
	watcherActive prom.Gauge
	siteDuration  *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitepack",
			Subsystem: "sidecar",
			Name:      "run_duration_seconds",
			Help:      "Duration of blocking sidecar subprocess runs (install, build)",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"kind", "result"}),
		runResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "sitepack",
			Subsystem: "sidecar",
			Name:      "runs_total",
			Help:      "Sidecar subprocess runs by kind and outcome",
		}, []string{"kind", "result"}),
		watcherActive: prom.NewGauge(prom.GaugeOpts{
			Namespace: "sitepack",
			Subsystem: "sidecar",
			Name:      "watcher_active",
			Help:      "1 while a bundler watch process is held by the sidecar manager",
		}),
		siteDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "sitepack",
			Name:      "site_build_duration_seconds",
			Help:      "Duration of host site builds",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
	}
	reg.MustRegister(pr.runDuration, pr.runResults, pr.watcherActive, pr.siteDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveRun(kind RunKind, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	// Watch processes are not awaited, so only their spawn outcome is counted.
	if kind != RunWatch {
		p.runDuration.WithLabelValues(string(kind), string(result)).Observe(d.Seconds())
	}
	p.runResults.WithLabelValues(string(kind), string(result)).Inc()
}

func (p *PrometheusRecorder) SetWatcherActive(active bool) {
	if p == nil {
		return
	}
	if active {
		p.watcherActive.Set(1)
		return
	}
	p.watcherActive.Set(0)
}

func (p *PrometheusRecorder) ObserveSiteBuild(d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.siteDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}
