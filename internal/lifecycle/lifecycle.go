// Package lifecycle contains internal helpers for supervisor state management.
package lifecycle

import (
	"sync/atomic"
	"time"
)

// OnlineStatus is the tri-state result of one online check.
type OnlineStatus int32

const (
	// StatusUnknown means the check itself failed.
	StatusUnknown OnlineStatus = iota
	StatusOnline
	StatusOffline
)

func (s OnlineStatus) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// State is the shared state of one supervisor. The running flag is the only
// field written from outside the loop; the others are written by the loop and
// read by health probes.
type State struct {
	running     atomic.Bool
	stopped     atomic.Bool
	startedAt   atomic.Int64
	lastExecute atomic.Int64
	lastStatus  atomic.Int32
	ticks       atomic.Uint64
}

// MarkStarted flips running to true. It fails once the state has been stopped
// or when it is already running.
func (s *State) MarkStarted(now time.Time) bool {
	if s.stopped.Load() {
		return false
	}
	if !s.running.CompareAndSwap(false, true) {
		return false
	}
	s.startedAt.Store(now.UnixNano())
	return true
}

// MarkStopped clears running. It returns true only for the first call.
func (s *State) MarkStopped() bool {
	if !s.stopped.CompareAndSwap(false, true) {
		return false
	}
	s.running.Store(false)
	return true
}

func (s *State) Running() bool { return s.running.Load() }

func (s *State) Stopped() bool { return s.stopped.Load() }

// StartedAt returns when the loop was started, or the zero time.
func (s *State) StartedAt() time.Time {
	ns := s.startedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// LastExecute returns the epoch second of the last completed tick, 0 if none.
func (s *State) LastExecute() int64 { return s.lastExecute.Load() }

// RecordTick stores the completion of one tick. lastExecute never moves backwards.
func (s *State) RecordTick(at time.Time, status OnlineStatus) {
	sec := at.Unix()
	for {
		prev := s.lastExecute.Load()
		if sec < prev {
			sec = prev
		}
		if s.lastExecute.CompareAndSwap(prev, sec) {
			break
		}
	}
	s.lastStatus.Store(int32(status))
	s.ticks.Add(1)
}

func (s *State) LastStatus() OnlineStatus { return OnlineStatus(s.lastStatus.Load()) }

func (s *State) Ticks() uint64 { return s.ticks.Load() }
