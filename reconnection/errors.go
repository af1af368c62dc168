package reconnection

import "errors"

var (
	// ErrInvalidConfig is returned by VerifyConfig.
	ErrInvalidConfig = errors.New("reconnection: invalid config")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("reconnection: supervisor already started")
	// ErrStopped is returned by Start after Shutdown; a stopped supervisor cannot be restarted.
	ErrStopped = errors.New("reconnection: supervisor stopped")
	// ErrSessionNotOnline is the readiness failure while the device is not known to be online.
	ErrSessionNotOnline = errors.New("reconnection: session is not online")
)
