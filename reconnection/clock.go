package reconnection

import "time"

// Clock is the time source of the tick loop.
type Clock interface {
	Now() time.Time
	// Sleep waits for d or until stop is closed. It returns false when woken by stop.
	Sleep(d time.Duration, stop <-chan struct{}) bool
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) Sleep(d time.Duration, stop <-chan struct{}) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-stop:
		return false
	}
}
