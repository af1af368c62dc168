package reconnection

import "github.com/srediag/plugin-reconnect/pkg/plugin"

// Metadata is the host registration record of the supervisor.
var Metadata = plugin.Metadata{
	Name:     "Reconnection",
	Priority: 950,
	Hidden:   false,
	Desc:     "断线重连",
	Version:  "0.0.2",
	Author:   "fone",
}

// Metadata implements plugin.Plugin.
func (s *Supervisor) Metadata() plugin.Metadata {
	return Metadata
}

// Handlers implements plugin.Plugin. The supervisor only listens to the
// handle-context event and lets it pass untouched.
func (s *Supervisor) Handlers() map[plugin.Event]plugin.Handler {
	return map[plugin.Event]plugin.Handler{
		plugin.EventOnHandleContext: s.onHandleContext,
	}
}

func (s *Supervisor) onHandleContext(*plugin.EventContext) {}

// EmitEvent forwards event to the host's other plugins. Dispatch errors are
// logged and dropped.
func (s *Supervisor) EmitEvent(event plugin.Event, ec *plugin.EventContext) {
	if s.emitter == nil {
		s.log.warnf("emit event %s dropped: no host emitter", event)
		return
	}
	if err := s.emitter.EmitEvent(event, ec); err != nil {
		s.log.errorf("emit event %s failed: %v", event, err)
	}
}
