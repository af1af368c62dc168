package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckHeartbeat(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	maxAge := 3 * time.Minute

	assert.ErrorIs(t, CheckHeartbeat(false, start, start, start, maxAge), ErrNotRunning)
	assert.NoError(t, CheckHeartbeat(true, start, time.Time{}, start.Add(time.Minute), maxAge))
	assert.ErrorIs(t, CheckHeartbeat(true, start, time.Time{}, start.Add(4*time.Minute), maxAge), ErrStaleHeartbeat)

	last := start.Add(10 * time.Minute)
	assert.NoError(t, CheckHeartbeat(true, start, last, last.Add(2*time.Minute), maxAge))
	assert.ErrorIs(t, CheckHeartbeat(true, start, last, last.Add(5*time.Minute), maxAge), ErrStaleHeartbeat)
}
