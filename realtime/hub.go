package realtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// subscriberBuffer is how many undelivered events a subscriber may lag behind
// before new events are dropped for it.
const subscriberBuffer = 64

// Forwarder sends locally produced events to other instances.
type Forwarder interface {
	Forward(ev Event) error
}

// Subscription receives events until it is closed.
type Subscription struct {
	id uint64
	C  <-chan Event
	ch chan Event
}

// Hub fans change events out to subscribers.
type Hub struct {
	origin    string
	log       *zap.Logger
	mu        sync.RWMutex
	subs      map[uint64]*Subscription
	nextID    uint64
	closed    bool
	forwarder Forwarder
}

// NewHub creates a Hub with a random instance origin.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		origin: uuid.NewString(),
		log:    log,
		subs:   make(map[uint64]*Subscription),
	}
}

// Origin identifies this instance in forwarded events.
func (h *Hub) Origin() string {
	return h.origin
}

// SetForwarder makes Publish also hand events to f.
func (h *Hub) SetForwarder(f Forwarder) {
	h.mu.Lock()
	h.forwarder = f
	h.mu.Unlock()
}

// Subscribe registers a new subscriber. The returned subscription must be
// released with Unsubscribe.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{id: h.nextID, C: ch, ch: ch}
	h.nextID++
	if h.closed {
		close(ch)
		return sub
	}
	h.subs[sub.id] = sub
	h.log.Debug("realtime subscriber added", zap.Uint64("subscriber", sub.id), zap.Int("subscribers", len(h.subs)))
	return sub
}

// Unsubscribe removes sub and closes its channel. It is safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.ch)
	h.log.Debug("realtime subscriber removed", zap.Uint64("subscriber", sub.id), zap.Int("subscribers", len(h.subs)))
}

// Publish stamps ev with this instance's origin, delivers it locally and
// forwards it to other instances.
func (h *Hub) Publish(ev Event) {
	ev.Origin = h.origin
	h.Deliver(ev)

	h.mu.RLock()
	f := h.forwarder
	h.mu.RUnlock()
	if f == nil {
		return
	}
	if err := f.Forward(ev); err != nil {
		h.log.Warn("failed to forward realtime event", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}

// Deliver sends ev to local subscribers without forwarding. A subscriber
// whose buffer is full misses the event.
func (h *Hub) Deliver(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			h.log.Warn("realtime subscriber lagging, event dropped", zap.Uint64("subscriber", id), zap.String("type", string(ev.Type)))
		}
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber. Later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
	}
}
