// Package api defines public API contracts for plugin-reconnect.
package api

// Health defines the interface for plugin health and liveness.
type Health interface {
	// LivenessCheck reports whether the plugin's background work is still progressing.
	LivenessCheck() error
	// ReadinessCheck reports whether the supervised session is usable.
	ReadinessCheck() error
}
