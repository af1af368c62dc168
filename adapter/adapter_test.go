package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/srediag/plugin-reconnect/pkg/health"
)

type countingTracerProvider struct {
	tracenoop.TracerProvider
	names []string
}

func (c *countingTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	c.names = append(c.names, name)
	return c.TracerProvider.Tracer(name, opts...)
}

func TestTelemetryNoop(t *testing.T) {
	tel := NewTelemetry(nil, nil)
	ctx, span := tel.StartSpan(context.Background(), "gewechat.checkOnline")
	require.NotNil(t, ctx)
	span.RecordError(errors.New("boom"))
	span.RecordError(nil)
	span.End()

	tel.RecordMetric(ctx, "reconnect.call.duration", 0.25, attribute.String("call", "checkOnline"))
	tel.RecordMetric(ctx, "reconnect.call.duration", 0.5)
	assert.Equal(t, 1, tel.histograms.Count())
}

func TestTelemetryUsesProvider(t *testing.T) {
	tp := &countingTracerProvider{}
	NewTelemetry(tp, nil)
	assert.Equal(t, []string{instrumentationName}, tp.names)
}

type okProvider struct{}

func (okProvider) LivenessCheck() error  { return nil }
func (okProvider) ReadinessCheck() error { return errors.New("offline") }

func TestHealthHandler(t *testing.T) {
	m := health.NewMonitor(0)
	require.NoError(t, m.Register("Reconnection", okProvider{}))

	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "reconnect_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	h := NewHealthHandler(m, reg)
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/live").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/ready").Code)
	metrics := get("/metrics")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.True(t, strings.Contains(metrics.Body.String(), "reconnect_test_total 1"))

	assert.Equal(t, http.StatusNotFound, get("/other").Code)
	assert.Equal(t, http.StatusNotFound, httptestGet(NewHealthHandler(m, nil), "/metrics"))
}

func httptestGet(h http.Handler, path string) int {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code
}
