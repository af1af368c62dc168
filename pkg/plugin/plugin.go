package plugin

// Metadata is the registration record of a plugin.
type Metadata struct {
	Name     string
	Priority int
	Hidden   bool
	Desc     string
	Version  string
	Author   string
}

// Event identifies a point in the host's message pipeline.
type Event int

const (
	// EventOnReceiveMessage fires when a message arrives.
	EventOnReceiveMessage Event = iota + 1
	// EventOnHandleContext fires before the host builds a reply.
	EventOnHandleContext
	// EventOnDecorateReply fires after a reply is built.
	EventOnDecorateReply
	// EventOnSendReply fires before a reply is sent.
	EventOnSendReply
)

func (e Event) String() string {
	switch e {
	case EventOnReceiveMessage:
		return "ON_RECEIVE_MESSAGE"
	case EventOnHandleContext:
		return "ON_HANDLE_CONTEXT"
	case EventOnDecorateReply:
		return "ON_DECORATE_REPLY"
	case EventOnSendReply:
		return "ON_SEND_REPLY"
	default:
		return "UNKNOWN_EVENT"
	}
}

// EventAction tells the dispatcher what to do after a handler returns.
type EventAction int

const (
	// ActionContinue passes the event to the next plugin.
	ActionContinue EventAction = iota
	// ActionBreak stops propagation and lets the host apply its default logic.
	ActionBreak
	// ActionBreakPass stops propagation and skips the host's default logic.
	ActionBreakPass
)

// EventContext carries the event payload through the handler chain.
type EventContext struct {
	Action EventAction
	Data   map[string]interface{}
}

// NewEventContext returns a context with ActionContinue.
func NewEventContext(data map[string]interface{}) *EventContext {
	if data == nil {
		data = make(map[string]interface{})
	}
	return &EventContext{Action: ActionContinue, Data: data}
}

// IsBreak reports whether a handler stopped propagation.
func (ec *EventContext) IsBreak() bool {
	return ec.Action == ActionBreak || ec.Action == ActionBreakPass
}

// IsPass reports whether the host should skip its default logic.
func (ec *EventContext) IsPass() bool {
	return ec.Action == ActionBreakPass
}

// Handler handles one event.
type Handler func(ec *EventContext)

// Plugin is what a host registers.
type Plugin interface {
	Metadata() Metadata
	Handlers() map[Event]Handler
}

// Emitter forwards events to the host's plugins.
type Emitter interface {
	EmitEvent(event Event, ec *EventContext) error
}
