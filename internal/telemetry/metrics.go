// Package telemetry records pipeline metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records event-resolution metrics.
// Use NewRecorder() for OTel metrics or NoopRecorder{} when disabled.
type Recorder interface {
	// RecordResolution records one completed pipeline run.
	RecordResolution(kind string, outcome string, iterations int)

	// RecordInterceptorApplied records one interceptor application.
	RecordInterceptorApplied(kind string)
}

// NoopRecorder discards all metrics.
type NoopRecorder struct{}

// RecordResolution implements Recorder.
func (NoopRecorder) RecordResolution(string, string, int) {}

// RecordInterceptorApplied implements Recorder.
func (NoopRecorder) RecordInterceptorApplied(string) {}

type otelRecorder struct {
	resolutions  metric.Int64Counter
	iterations   metric.Int64Histogram
	interceptors metric.Int64Counter
}

var (
	defaultRecorder     *otelRecorder
	defaultRecorderOnce sync.Once
	defaultRecorderErr  error
)

// NewRecorder returns a Recorder backed by the global OTel meter provider.
// If metric initialization fails, a no-op recorder is returned.
func NewRecorder() Recorder {
	defaultRecorderOnce.Do(func() {
		defaultRecorder, defaultRecorderErr = newOtelRecorder()
	})
	if defaultRecorderErr != nil {
		return NoopRecorder{}
	}
	return defaultRecorder
}

func newOtelRecorder() (*otelRecorder, error) {
	meter := otel.Meter("rules-engine")

	resolutions, err := meter.Int64Counter("rules.pipeline.resolutions",
		metric.WithDescription("Number of events resolved through the pipeline"),
	)
	if err != nil {
		return nil, err
	}

	iterations, err := meter.Int64Histogram("rules.pipeline.iterations",
		metric.WithDescription("Fixpoint iterations per resolved event"),
	)
	if err != nil {
		return nil, err
	}

	interceptors, err := meter.Int64Counter("rules.pipeline.interceptors_applied",
		metric.WithDescription("Number of interceptor effects applied"),
	)
	if err != nil {
		return nil, err
	}

	return &otelRecorder{
		resolutions:  resolutions,
		iterations:   iterations,
		interceptors: interceptors,
	}, nil
}

// RecordResolution implements Recorder.
func (r *otelRecorder) RecordResolution(kind, outcome string, iterations int) {
	ctx := context.Background()
	attrs := []attribute.KeyValue{
		attribute.String("event_kind", kind),
		attribute.String("outcome", outcome),
	}
	r.resolutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	r.iterations.Record(ctx, int64(iterations), metric.WithAttributes(attrs...))
}

// RecordInterceptorApplied implements Recorder.
func (r *otelRecorder) RecordInterceptorApplied(kind string) {
	r.interceptors.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("event_kind", kind),
	))
}
