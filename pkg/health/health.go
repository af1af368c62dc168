// Package health provides a registry of plugin health probes exposed through
// liveness and readiness HTTP endpoints.
package health

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// HealthProvider is implemented by plugins that can report their own health.
type HealthProvider interface {
	// LivenessCheck returns nil while the plugin's background work progresses.
	LivenessCheck() error
	// ReadinessCheck returns nil while the plugin can serve its purpose.
	ReadinessCheck() error
}

var (
	// ErrUnknownPlugin is returned for a plugin id that was never registered.
	ErrUnknownPlugin = errors.New("health: unknown plugin")
	// ErrDuplicatePlugin is returned when a plugin id is registered twice.
	ErrDuplicatePlugin = errors.New("health: plugin already registered")
)

// Monitor keeps one HealthProvider per plugin id and mirrors them into a
// healthcheck.Handler.
type Monitor struct {
	providers cmap.ConcurrentMap[string, HealthProvider]
	handler   healthcheck.Handler
	timeout   time.Duration
}

// NewMonitor returns an empty monitor. Each check is bounded by timeout when
// it is positive.
func NewMonitor(timeout time.Duration) *Monitor {
	return &Monitor{
		providers: cmap.New[HealthProvider](),
		handler:   healthcheck.NewHandler(),
		timeout:   timeout,
	}
}

// Register adds a provider under pluginID.
func (m *Monitor) Register(pluginID string, p HealthProvider) error {
	if !m.providers.SetIfAbsent(pluginID, p) {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, pluginID)
	}
	live, ready := m.check(pluginID, HealthProvider.LivenessCheck), m.check(pluginID, HealthProvider.ReadinessCheck)
	if m.timeout > 0 {
		live, ready = healthcheck.Timeout(live, m.timeout), healthcheck.Timeout(ready, m.timeout)
	}
	m.handler.AddLivenessCheck(pluginID, live)
	m.handler.AddReadinessCheck(pluginID, ready)
	return nil
}

// check looks the provider up on every call so an unregistered plugin reports
// healthy instead of failing forever.
func (m *Monitor) check(pluginID string, probe func(HealthProvider) error) healthcheck.Check {
	return func() error {
		p, ok := m.providers.Get(pluginID)
		if !ok {
			return nil
		}
		return probe(p)
	}
}

// Unregister removes a provider.
func (m *Monitor) Unregister(pluginID string) {
	m.providers.Remove(pluginID)
}

// LivenessCheck runs the liveness probe of one plugin.
func (m *Monitor) LivenessCheck(pluginID string) (bool, error) {
	p, ok := m.providers.Get(pluginID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownPlugin, pluginID)
	}
	if err := p.LivenessCheck(); err != nil {
		return false, err
	}
	return true, nil
}

// ReportHealth returns a one-word status for one plugin: "ok", "degraded"
// (alive but not ready) or "down".
func (m *Monitor) ReportHealth(pluginID string) (string, error) {
	p, ok := m.providers.Get(pluginID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlugin, pluginID)
	}
	switch {
	case p.LivenessCheck() != nil:
		return "down", nil
	case p.ReadinessCheck() != nil:
		return "degraded", nil
	default:
		return "ok", nil
	}
}

// Plugins returns the registered plugin ids.
func (m *Monitor) Plugins() []string {
	return m.providers.Keys()
}

// Handler serves /live and /ready.
func (m *Monitor) Handler() http.Handler {
	return m.handler
}
