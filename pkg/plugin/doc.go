// Package plugin is the minimal host-side plugin framework the reconnection
// supervisor registers with: plugin metadata, events, an event context that
// handlers can use to stop propagation, and a Manager that dispatches events
// to registered plugins in descending priority order.
package plugin
