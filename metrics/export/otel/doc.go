// Package otel binds authority metrics to OpenTelemetry instruments.
//
// [NewExporter] registers one Int64ObservableCounter per authority counter
// and one Int64ObservableGauge per histogram bucket. A single callback reads
// the metrics snapshot on each collection cycle. Callers own the
// MeterProvider.
package otel
