// Package api defines public API contracts for plugin-reconnect.
package api

import "context"

// SessionClient is the remote API a supervisor needs to keep one device session alive.
type SessionClient interface {
	// CheckOnline reports whether the session identified by appID is online.
	CheckOnline(ctx context.Context, appID string) (bool, error)
	// Reconnect asks the remote side to re-establish the session and returns its message.
	Reconnect(ctx context.Context, appID string) (ReconnectResponse, error)
}

// ReconnectResponse is the decoded body of a successful reconnect call.
type ReconnectResponse struct {
	Ret int
	Msg string
}
