// Package prometheus exposes authority metrics as a Prometheus collector.
//
// [Exporter] implements prometheus.Collector. Register it with your own
// registry or mount [Exporter.Handler]. Counters are named scms_*_total and
// the single histogram is scms_authenticate_latency_seconds.
//
// The exporter never registers with the global registry and never mutates
// authority state.
package prometheus
