package reconnection

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "reconnect"

const (
	sourceSelfTest = "self_test"
	sourceTick     = "tick"
)

type metrics struct {
	ticks      prometheus.Counter
	faults     prometheus.Counter
	checks     *prometheus.CounterVec
	reconnects *prometheus.CounterVec
	lastTick   prometheus.Gauge
	running    prometheus.Gauge
}

// newMetrics builds the collectors and registers them on reg when it is not
// nil. Collectors already registered by an earlier supervisor are reused.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticks_total",
			Help:      "Completed supervisor ticks.",
		}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "loop_faults_total",
			Help:      "Unexpected faults recovered by the tick loop.",
		}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "online_checks_total",
			Help:      "Online checks by result.",
		}, []string{"status"}),
		reconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "attempts_total",
			Help:      "Reconnect calls by source and outcome.",
		}, []string{"source", "outcome"}),
		lastTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_tick_timestamp_seconds",
			Help:      "Unix time of the last completed tick.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "loop_running",
			Help:      "1 while the tick loop is running.",
		}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.ticks, err = register(reg, m.ticks); err != nil {
		return nil, err
	}
	if m.faults, err = register(reg, m.faults); err != nil {
		return nil, err
	}
	if m.checks, err = register(reg, m.checks); err != nil {
		return nil, err
	}
	if m.reconnects, err = register(reg, m.reconnects); err != nil {
		return nil, err
	}
	if m.lastTick, err = register(reg, m.lastTick); err != nil {
		return nil, err
	}
	if m.running, err = register(reg, m.running); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observeCheck(s OnlineStatus) {
	m.checks.WithLabelValues(s.String()).Inc()
}

func (m *metrics) observeReconnect(source string, o ReconnectOutcome) {
	m.reconnects.WithLabelValues(source, o.String()).Inc()
}
