package plugin

import "errors"

var (
	// ErrPluginExists is returned when a plugin name is registered twice.
	ErrPluginExists = errors.New("plugin: already registered")
	// ErrInvalidPlugin is returned for a nil plugin or an empty name.
	ErrInvalidPlugin = errors.New("plugin: invalid plugin")
	// ErrHandlerPanic wraps a panic recovered from an event handler.
	ErrHandlerPanic = errors.New("plugin: handler panicked")
)
