// Package api defines public API contracts for plugin-reconnect.
package api

// Plugin defines the interface for a supervised plugin instance.
type Plugin interface {
	Start() error
	Stop() error
}
