package wm

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/1broseidon/tilewm/internal/container"
)

// EventType names a domain event.
type EventType string

const (
	EventFocusChanged       EventType = "focus_changed"
	EventWindowManaged      EventType = "window_managed"
	EventWindowUnmanaged    EventType = "window_unmanaged"
	EventWorkspaceActivated EventType = "workspace_activated"
	EventPauseChanged       EventType = "pause_changed"
	EventUserConfigChanged  EventType = "user_config_changed"
	EventApplicationExiting EventType = "application_exiting"
)

// AllEventTypes lists every event type in a stable order.
var AllEventTypes = []EventType{
	EventFocusChanged,
	EventWindowManaged,
	EventWindowUnmanaged,
	EventWorkspaceActivated,
	EventPauseChanged,
	EventUserConfigChanged,
	EventApplicationExiting,
}

// Event is a model change published to subscribers. Only the payload fields
// relevant to Type are set.
type Event struct {
	Type             EventType      `json:"type"`
	FocusedContainer *container.DTO `json:"focusedContainer,omitempty"`
	ManagedWindow    *container.DTO `json:"managedWindow,omitempty"`
	UnmanagedID      string         `json:"unmanagedId,omitempty"`
	UnmanagedHandle  uint32         `json:"unmanagedHandle,omitempty"`
	Workspace        *container.DTO `json:"workspace,omitempty"`
	IsPaused         *bool          `json:"isPaused,omitempty"`
}

// ParseEventType validates an event type name. "all" is accepted by callers
// that subscribe to everything and is not handled here.
func ParseEventType(name string) (EventType, bool) {
	t := EventType(name)
	return t, slices.Contains(AllEventTypes, t)
}

const subscriberBuffer = 64

type subscriber struct {
	ch    chan Event
	types []EventType
}

// Bus fans events out to subscribers. Each subscriber has a bounded buffer;
// events for a full subscriber are dropped.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{subs: make(map[int]*subscriber), logger: logger}
}

// Subscribe registers for the given event types, or all types when none are
// given. The returned cancel func closes the channel.
func (b *Bus) Subscribe(types ...EventType) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	sub := &subscriber{ch: make(chan Event, subscriberBuffer), types: types}
	b.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers ev to every interested subscriber without blocking.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		if len(sub.types) > 0 && !slices.Contains(sub.types, ev.Type) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			b.logger.Warn("dropping event for slow subscriber", "subscriber", id, "event", ev.Type)
		}
	}
}
