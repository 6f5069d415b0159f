// internal/app/notify/hub.go
package notify

import (
	"sync"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is what goes out on a user's realtime channel. The payload
// mirrors the persisted Notification; EventID exists so clients can
// de-duplicate a replayed record against a live push.
type Event struct {
	EventID      string              `json:"event_id"`
	Notification models.Notification `json:"notification"`
}

// Hub fans events out to per-user subscriber channels. Delivery is
// best-effort: sends never block, and an event that does not fit a
// subscriber's buffer is dropped. The persisted notification record is
// the replay source for anything a client misses.
type Hub struct {
	mu      sync.RWMutex
	subs    map[primitive.ObjectID]map[chan Event]struct{}
	bufSize int
}

// NewHub creates a hub whose subscriber channels buffer bufSize events.
func NewHub(bufSize int) *Hub {
	if bufSize < 1 {
		bufSize = 8
	}
	return &Hub{
		subs:    make(map[primitive.ObjectID]map[chan Event]struct{}),
		bufSize: bufSize,
	}
}

// Subscribe registers a live channel for the user and returns it along
// with a cancel function. Multiple concurrent subscriptions per user are
// allowed (several browser tabs).
func (h *Hub) Subscribe(userID primitive.ObjectID) (<-chan Event, func()) {
	ch := make(chan Event, h.bufSize)

	h.mu.Lock()
	set, ok := h.subs[userID]
	if !ok {
		set = make(map[chan Event]struct{})
		h.subs[userID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends the notification to every live subscription the user
// has. It never blocks; full channels drop the event. Returns the
// number of subscriptions that received it (0 when the user is not
// connected, which is fine - they replay from the store).
func (h *Hub) Publish(userID primitive.ObjectID, n models.Notification) int {
	ev := Event{EventID: uuid.NewString(), Notification: n}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subs[userID] {
		select {
		case ch <- ev:
			delivered++
		default:
			// Subscriber is not draining; drop rather than block.
		}
	}
	return delivered
}
