// Package metrics provides observability hooks for sitepack builds and sidecar processes.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks at call sites:
//
//	mgr := sidecar.NewManager(dir, sidecar.WithRecorder(metrics.NoopRecorder{}))
//
// The serve command swaps in a PrometheusRecorder and exposes it with HTTPHandler.
package metrics
