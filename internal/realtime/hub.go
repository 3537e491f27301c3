package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Action is the type of change carried by an Event.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
)

// Event describes a single entity change. Audience lists the users the event
// concerns; an empty audience means the event is public (e.g. the report
// listing feed).
type Event struct {
	Entity   string      `json:"entity"`
	Action   Action      `json:"action"`
	ID       uint        `json:"id"`
	Payload  interface{} `json:"payload,omitempty"`
	Audience []uuid.UUID `json:"-"`
}

// Filter selects the events a subscriber receives: a required entity name
// and, for user-scoped feeds, the subscriber's identity.
type Filter struct {
	Entity string
	UserID uuid.UUID
}

// Subscriber receives matching events on C. The hub never blocks on a slow
// subscriber; events are dropped when the buffer is full and the client is
// expected to re-fetch.
type Subscriber struct {
	C      chan Event
	filter Filter
}

// Hub is an in-process change-notification fan-out keyed by entity+filter.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe(filter Filter) *Subscriber {
	sub := &Subscriber{
		C:      make(chan Event, 16),
		filter: filter,
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.C)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !matches(sub.filter, event) {
			continue
		}
		select {
		case sub.C <- event:
		default:
			// Slow consumer; drop rather than stall the mutation path.
		}
	}
}

func matches(f Filter, e Event) bool {
	if f.Entity != "" && f.Entity != e.Entity {
		return false
	}
	if len(e.Audience) == 0 {
		return true
	}
	for _, id := range e.Audience {
		if id == f.UserID {
			return true
		}
	}
	return false
}
