// Package api defines public API contracts for plugin-reconnect.
package api

// Lifecycle defines the interface for owning a long-lived plugin instance.
type Lifecycle interface {
	// Shutdown stops background work. It is idempotent.
	Shutdown()
	// Close is Shutdown for scoped release.
	Close() error
}
