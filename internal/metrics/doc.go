// Package metrics records build and stage metrics.
//
// Components take a Recorder; NoopRecorder is the default so callers never
// check for nil. PrometheusRecorder is installed when monitoring.metrics is
// enabled and HTTPHandler exposes its registry from `blogbuilder serve`.
package metrics
