/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package reconnection keeps one gewechat device session online. A
// Supervisor checks the session once a minute, on the minute, and asks the
// server to reconnect when the device is reported offline.
package reconnection

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srediag/plugin-reconnect/adapter"
	"github.com/srediag/plugin-reconnect/api"
	"github.com/srediag/plugin-reconnect/internal/health"
	"github.com/srediag/plugin-reconnect/internal/lifecycle"
	"github.com/srediag/plugin-reconnect/pkg/gewechat"
	pkghealth "github.com/srediag/plugin-reconnect/pkg/health"
	pkglifecycle "github.com/srediag/plugin-reconnect/pkg/lifecycle"
	"github.com/srediag/plugin-reconnect/pkg/plugin"
)

// checkPeriod is the tick cadence; ticks land on minute boundaries.
const checkPeriod = time.Minute

// Option configures a Supervisor.
type Option func(*options)

type options struct {
	client     api.SessionClient
	clock      Clock
	logOut     io.Writer
	registerer prometheus.Registerer
	telemetry  adapter.OTelAdapter
	emitter    plugin.Emitter
}

// WithSessionClient replaces the gewechat client built from the config.
func WithSessionClient(c api.SessionClient) Option {
	return func(o *options) { o.client = c }
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogOutput sends the supervisor's log lines to w.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

// WithRegisterer registers the supervisor's prometheus collectors on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithTelemetry sets the OpenTelemetry adapter used for spans and call durations.
func WithTelemetry(t adapter.OTelAdapter) Option {
	return func(o *options) { o.telemetry = t }
}

// WithEmitter sets the host dispatcher EmitEvent forwards to.
func WithEmitter(e plugin.Emitter) Option {
	return func(o *options) { o.emitter = e }
}

// Supervisor owns the background loop that keeps the session online.
type Supervisor struct {
	cfg      *Config
	client   api.SessionClient
	clock    Clock
	log      *logger
	detector *BenignDetector
	metrics  *metrics
	otel     adapter.OTelAdapter
	emitter  plugin.Emitter
	fault    backoff.BackOff

	state lifecycle.State

	startMu  sync.Mutex
	poolMu   sync.Mutex
	pool     *ants.Pool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	doneOnce sync.Once
}

var (
	_ api.Plugin                    = (*Supervisor)(nil)
	_ api.Health                    = (*Supervisor)(nil)
	_ api.Lifecycle                 = (*Supervisor)(nil)
	_ pkghealth.HealthProvider      = (*Supervisor)(nil)
	_ pkglifecycle.LifecycleManager = (*Supervisor)(nil)
	_ plugin.Plugin                 = (*Supervisor)(nil)
)

// New verifies cfg and builds a supervisor. Nothing runs until Start.
func New(cfg *Config, opts ...Option) (*Supervisor, error) {
	if err := VerifyConfig(cfg); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = gewechat.NewClient(cfg.BaseURL, cfg.Token, gewechat.WithTimeout(cfg.RequestTimeout))
	}
	if o.clock == nil {
		o.clock = wallClock{}
	}
	if o.telemetry == nil {
		o.telemetry = adapter.NewTelemetry(nil, nil)
	}
	m, err := newMetrics(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("reconnection: register metrics: %w", err)
	}

	log := internalLogger
	if o.logOut != nil {
		log = newLogger(internalLogger.name, o.logOut)
	}
	return &Supervisor{
		cfg:      cfg,
		client:   o.client,
		clock:    o.clock,
		log:      log,
		detector: NewBenignDetector(cfg.BenignReconnectMarkers, cfg.BenignReconnectCodes),
		metrics:  m,
		otel:     o.telemetry,
		emitter:  o.emitter,
		fault:    backoff.NewConstantBackOff(cfg.FaultDelay),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the startup self-test and then the tick loop on a dedicated
// worker. A supervisor starts at most once and cannot be restarted after
// Shutdown.
func (s *Supervisor) Start() error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.state.Stopped() {
		return ErrStopped
	}
	if s.state.Running() {
		return ErrAlreadyStarted
	}

	if s.cfg.SkipSelfTest {
		s.log.debugf("self test skipped")
	} else {
		s.SelfTest()
	}

	pool, err := ants.NewPool(1,
		ants.WithNonblocking(true),
		ants.WithDisablePurge(true),
		ants.WithPanicHandler(func(p interface{}) {
			s.log.errorf("timer loop escaped with panic: %v", p)
		}),
	)
	if err != nil {
		return fmt.Errorf("reconnection: create worker: %w", err)
	}
	s.poolMu.Lock()
	s.pool = pool
	s.poolMu.Unlock()

	if !s.state.MarkStarted(s.clock.Now()) {
		// Shutdown won the race.
		s.closeDone()
		pool.Release()
		return ErrStopped
	}
	if err := pool.Submit(s.loop); err != nil {
		s.state.MarkStopped()
		s.closeDone()
		pool.Release()
		return fmt.Errorf("reconnection: start timer loop: %w", err)
	}
	s.metrics.running.Set(1)
	s.log.infof("inited, supervising app %s", s.cfg.AppID)
	return nil
}

// Stop implements api.Plugin.
func (s *Supervisor) Stop() error {
	s.Shutdown()
	return nil
}

// Close implements io.Closer so the supervisor can be released with defer.
func (s *Supervisor) Close() error {
	s.Shutdown()
	return nil
}

// Shutdown clears the running flag, wakes the loop and waits up to
// ShutdownTimeout for it to exit. An in-flight check or reconnect call is not
// cancelled; if it outlives the wait the worker is left behind and exits on
// its own. Safe to call more than once and from any goroutine.
func (s *Supervisor) Shutdown() {
	s.stopOnce.Do(func() {
		s.state.MarkStopped()
		close(s.stop)
		s.metrics.running.Set(0)

		s.poolMu.Lock()
		pool := s.pool
		s.poolMu.Unlock()
		if pool == nil {
			s.closeDone()
			return
		}

		t := time.NewTimer(s.cfg.ShutdownTimeout)
		defer t.Stop()
		select {
		case <-s.done:
			s.log.infof("timer loop stopped")
		case <-t.C:
			s.log.warnf("timer loop did not stop within %s", s.cfg.ShutdownTimeout)
		}
		pool.Release()
	})
}

// Done is closed when the tick loop has exited.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

func (s *Supervisor) closeDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Snapshot is a point-in-time view of the supervisor state.
type Snapshot struct {
	AppID       string
	Running     bool
	StartedAt   time.Time
	LastExecute time.Time
	LastStatus  OnlineStatus
	Ticks       uint64
}

// Status returns the current state.
func (s *Supervisor) Status() Snapshot {
	snap := Snapshot{
		AppID:      s.cfg.AppID,
		Running:    s.state.Running(),
		StartedAt:  s.state.StartedAt(),
		LastStatus: s.state.LastStatus(),
		Ticks:      s.state.Ticks(),
	}
	if sec := s.state.LastExecute(); sec > 0 {
		snap.LastExecute = time.Unix(sec, 0)
	}
	return snap
}

// LivenessCheck fails when the loop has stopped or has not completed a tick
// within StaleAfter.
func (s *Supervisor) LivenessCheck() error {
	snap := s.Status()
	return health.CheckHeartbeat(snap.Running, snap.StartedAt, snap.LastExecute, s.clock.Now(), s.cfg.StaleAfter)
}

// ReadinessCheck fails unless the last check saw the device online.
func (s *Supervisor) ReadinessCheck() error {
	if st := s.state.LastStatus(); st != StatusOnline {
		return fmt.Errorf("%w: last check %s", ErrSessionNotOnline, st)
	}
	return nil
}
