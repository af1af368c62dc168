package plugin

import (
	"fmt"
	"sync/atomic"

	"github.com/Workiva/go-datastructures/queue"
	cmap "github.com/orcaman/concurrent-map/v2"
)

type registration struct {
	plugin Plugin
	meta   Metadata
	seq    uint64
}

// Compare orders registrations for the priority queue, which pops the
// smallest item first: higher priority sorts first, then registration order.
func (r *registration) Compare(other queue.Item) int {
	o := other.(*registration)
	switch {
	case r.meta.Priority > o.meta.Priority:
		return -1
	case r.meta.Priority < o.meta.Priority:
		return 1
	case r.seq < o.seq:
		return -1
	case r.seq > o.seq:
		return 1
	default:
		return 0
	}
}

// Manager holds the registered plugins of one host.
type Manager struct {
	plugins cmap.ConcurrentMap[string, *registration]
	seq     atomic.Uint64
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{plugins: cmap.New[*registration]()}
}

// Register adds p under its metadata name.
func (m *Manager) Register(p Plugin) error {
	if p == nil {
		return ErrInvalidPlugin
	}
	meta := p.Metadata()
	if meta.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlugin)
	}
	r := &registration{plugin: p, meta: meta, seq: m.seq.Add(1)}
	if !m.plugins.SetIfAbsent(meta.Name, r) {
		return fmt.Errorf("%w: %s", ErrPluginExists, meta.Name)
	}
	return nil
}

// Unregister removes the plugin called name.
func (m *Manager) Unregister(name string) {
	m.plugins.Remove(name)
}

// Get returns the plugin called name.
func (m *Manager) Get(name string) (Plugin, bool) {
	r, ok := m.plugins.Get(name)
	if !ok {
		return nil, false
	}
	return r.plugin, true
}

// Plugins returns metadata of all plugins in dispatch order.
func (m *Manager) Plugins() []Metadata {
	ordered := m.ordered()
	out := make([]Metadata, 0, len(ordered))
	for _, r := range ordered {
		out = append(out, r.meta)
	}
	return out
}

func (m *Manager) ordered() []*registration {
	n := m.plugins.Count()
	if n == 0 {
		return nil
	}
	pq := queue.NewPriorityQueue(n, false)
	defer pq.Dispose()
	for _, r := range m.plugins.Items() {
		_ = pq.Put(r)
	}
	// Get blocks on an empty queue; Len is checked first.
	if pq.Len() == 0 {
		return nil
	}
	items, err := pq.Get(pq.Len())
	if err != nil {
		return nil
	}
	out := make([]*registration, 0, len(items))
	for _, it := range items {
		out = append(out, it.(*registration))
	}
	return out
}

// EmitEvent calls the event's handlers from the highest priority plugin down
// and stops as soon as a handler breaks propagation. A panicking handler
// stops dispatch and is reported as ErrHandlerPanic.
func (m *Manager) EmitEvent(event Event, ec *EventContext) error {
	if ec == nil {
		ec = NewEventContext(nil)
	}
	for _, r := range m.ordered() {
		h, ok := r.plugin.Handlers()[event]
		if !ok || h == nil {
			continue
		}
		if err := invoke(r.meta.Name, event, h, ec); err != nil {
			return err
		}
		if ec.IsBreak() {
			break
		}
	}
	return nil
}

func invoke(name string, event Event, h Handler, ec *EventContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s on %s: %v", ErrHandlerPanic, name, event, r)
		}
	}()
	h(ec)
	return nil
}
