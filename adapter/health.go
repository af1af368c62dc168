// Package adapter provides adapters for plugin-reconnect integration with external systems.
package adapter

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srediag/plugin-reconnect/pkg/health"
)

// HealthAdapter integrates plugin health with external monitoring systems.
type HealthAdapter interface {
	ReportHealth(pluginID string) (string, error)
	Handler() http.Handler
}

var _ HealthAdapter = (*health.Monitor)(nil)

// NewHealthHandler serves /live and /ready from the health adapter and
// /metrics from gatherer. A nil gatherer leaves /metrics unmounted.
func NewHealthHandler(h HealthAdapter, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/live", h.Handler())
	mux.Handle("/ready", h.Handler())
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}
