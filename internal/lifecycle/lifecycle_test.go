package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateRunsOnce(t *testing.T) {
	var s State
	now := time.Unix(1700000000, 0)

	assert.True(t, s.MarkStarted(now))
	assert.False(t, s.MarkStarted(now), "already running")
	assert.True(t, s.Running())
	assert.Equal(t, now.Unix(), s.StartedAt().Unix())

	assert.True(t, s.MarkStopped())
	assert.False(t, s.MarkStopped())
	assert.False(t, s.Running())
	assert.False(t, s.MarkStarted(now), "no restart after stop")
}

func TestStopBeforeStart(t *testing.T) {
	var s State
	assert.True(t, s.MarkStopped())
	assert.False(t, s.MarkStarted(time.Now()))
	assert.True(t, s.StartedAt().IsZero())
}

func TestRecordTickMonotonic(t *testing.T) {
	var s State
	s.RecordTick(time.Unix(200, 0), StatusOnline)
	s.RecordTick(time.Unix(100, 0), StatusOffline)

	assert.Equal(t, int64(200), s.LastExecute())
	assert.Equal(t, StatusOffline, s.LastStatus())
	assert.Equal(t, uint64(2), s.Ticks())
}

func TestOnlineStatusString(t *testing.T) {
	assert.Equal(t, "online", StatusOnline.String())
	assert.Equal(t, "offline", StatusOffline.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
