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

package reconnection

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/srediag/plugin-reconnect/api"
)

const callDurationMetric = "reconnect.call.duration"

// loop runs ticks until the running flag is cleared. It is the only caller of
// tick, so ticks never overlap.
func (s *Supervisor) loop() {
	defer s.closeDone()
	for s.state.Running() {
		d := s.runTick()
		s.log.tracef("next check in %s", d)
		s.clock.Sleep(d, s.stop)
	}
}

// runTick runs one tick and returns how long to sleep before the next one.
// A panic in the tick is logged and answered with the flat fault delay so the
// loop keeps going.
func (s *Supervisor) runTick() (sleep time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			s.metrics.faults.Inc()
			s.log.errorf("timer error: %v", r)
			sleep = s.fault.NextBackOff()
		}
	}()
	s.tick()
	return untilNextMinute(s.clock.Now())
}

// tick checks the session once and reconnects it if it is offline.
func (s *Supervisor) tick() OnlineStatus {
	now := s.clock.Now()
	status := s.checkOnline()
	switch status {
	case StatusOnline:
		if hourBoundaryPassed(now, s.state.LastExecute()) {
			s.log.infof("device online")
		}
	case StatusOffline:
		s.log.infof("device offline, attempting reconnect")
		s.reconnect(sourceTick)
	default:
		s.log.debugf("online status unknown, skipping reconnect")
	}

	done := s.clock.Now()
	s.state.RecordTick(done, status)
	s.metrics.ticks.Inc()
	s.metrics.lastTick.Set(float64(done.Unix()))
	return status
}

// untilNextMinute returns the sleep that wakes the loop on the next minute boundary.
func untilNextMinute(now time.Time) time.Duration {
	return time.Duration(60-now.Second()) * time.Second
}

// hourBoundaryPassed reports whether the start of now's hour is later than the
// last completed tick, i.e. this is the first tick of a new hour.
func hourBoundaryPassed(now time.Time, lastExecute int64) bool {
	hour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	return hour.Unix() > lastExecute
}

// callContext bounds one remote call. It is not derived from shutdown: a call
// that has started runs to completion or to its own timeout.
func (s *Supervisor) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
}

// checkOnline asks the server whether the device is online. Any error is
// logged and reported as StatusUnknown.
func (s *Supervisor) checkOnline() OnlineStatus {
	ctx, cancel := s.callContext()
	defer cancel()
	ctx, span := s.otel.StartSpan(ctx, "gewechat.checkOnline")
	defer span.End()

	start := time.Now()
	online, err := s.client.CheckOnline(ctx, s.cfg.AppID)
	s.otel.RecordMetric(ctx, callDurationMetric, time.Since(start).Seconds(), attribute.String("call", "checkOnline"))

	status := StatusOffline
	switch {
	case err != nil:
		span.RecordError(err)
		s.log.errorf("check device online failed: %v", err)
		status = StatusUnknown
	case online:
		status = StatusOnline
	}
	s.metrics.observeCheck(status)
	return status
}

// callReconnect performs one reconnect call with tracing.
func (s *Supervisor) callReconnect() (api.ReconnectResponse, error) {
	ctx, cancel := s.callContext()
	defer cancel()
	ctx, span := s.otel.StartSpan(ctx, "gewechat.reconnection")
	defer span.End()

	start := time.Now()
	resp, err := s.client.Reconnect(ctx, s.cfg.AppID)
	s.otel.RecordMetric(ctx, callDurationMetric, time.Since(start).Seconds(), attribute.String("call", "reconnection"))
	if err != nil && !s.detector.IsBenign(err) {
		span.RecordError(err)
	}
	return resp, err
}

// reconnect asks the server to reconnect the session. It never retries.
func (s *Supervisor) reconnect(source string) ReconnectOutcome {
	resp, err := s.callReconnect()
	outcome := OutcomeReconnected
	switch {
	case err == nil:
		s.log.infof("%s", resp.Msg)
	case s.detector.IsBenign(err):
		outcome = OutcomeAlreadyConnected
		s.log.infof("no reconnection needed: %v", err)
	default:
		outcome = OutcomeFailed
		s.log.errorf("device reconnect failed: %v", err)
	}
	s.metrics.observeReconnect(source, outcome)
	return outcome
}
