// Package adapter provides adapters for plugin-reconnect integration with external systems.
package adapter

import (
	"context"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/srediag/plugin-reconnect"

// OTelAdapter integrates OpenTelemetry metrics and tracing for plugins.
type OTelAdapter interface {
	// RecordMetric records value on the histogram called name.
	RecordMetric(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue)
	// StartSpan starts a span that must be ended by the caller.
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span is the part of an OTel span the plugins use.
type Span interface {
	RecordError(err error)
	End()
}

// Telemetry is the OTelAdapter backed by real providers.
type Telemetry struct {
	tracer     trace.Tracer
	meter      metric.Meter
	histograms cmap.ConcurrentMap[string, metric.Float64Histogram]
}

var _ OTelAdapter = (*Telemetry)(nil)

// NewTelemetry builds a Telemetry from the given providers. Nil providers
// fall back to noop ones.
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *Telemetry {
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	return &Telemetry{
		tracer:     tp.Tracer(instrumentationName),
		meter:      mp.Meter(instrumentationName),
		histograms: cmap.New[metric.Float64Histogram](),
	}
}

// RecordMetric records value on a lazily created histogram. Instrument
// creation errors drop the sample.
func (t *Telemetry) RecordMetric(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
	h, ok := t.histograms.Get(name)
	if !ok {
		created, err := t.meter.Float64Histogram(name, metric.WithUnit("s"))
		if err != nil {
			return
		}
		t.histograms.SetIfAbsent(name, created)
		h, _ = t.histograms.Get(name)
	}
	h.Record(ctx, value, metric.WithAttributes(attrs...))
}

// StartSpan starts a span on the adapter's tracer.
func (t *Telemetry) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, s := t.tracer.Start(ctx, name)
	return ctx, &otelSpan{span: s}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *otelSpan) End() { s.span.End() }
