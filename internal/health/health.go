// Package health contains internal helpers for heartbeat and liveness evaluation.
package health

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotRunning is returned when the monitored loop has stopped.
	ErrNotRunning = errors.New("loop is not running")
	// ErrStaleHeartbeat is returned when the last heartbeat is older than allowed.
	ErrStaleHeartbeat = errors.New("heartbeat is stale")
)

// CheckHeartbeat decides liveness from the last heartbeat. A loop that has not
// completed a tick yet is judged from its start time instead.
func CheckHeartbeat(running bool, startedAt, last, now time.Time, maxAge time.Duration) error {
	if !running {
		return ErrNotRunning
	}
	ref := last
	if ref.IsZero() || ref.Before(startedAt) {
		ref = startedAt
	}
	if ref.IsZero() {
		return nil
	}
	if age := now.Sub(ref); age > maxAge {
		return fmt.Errorf("%w: last at %s (%s ago, max %s)", ErrStaleHeartbeat, ref.Format(time.RFC3339), age.Truncate(time.Second), maxAge)
	}
	return nil
}
