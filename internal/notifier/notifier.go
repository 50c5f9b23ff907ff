// Package notifier broadcasts post change events to connected subscribers.
// Delivery is best-effort and in-process only: a subscriber connecting after
// an event was published never sees it, and a slow subscriber drops events
// rather than blocking the publishing mutation.
package notifier

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is the ephemeral notification of a post mutation. Post carries a
// snapshot for create/update and the bare post id for delete, mirroring what
// clients receive on the wire.
type Event struct {
	Action Action `json:"action"`
	Post   any    `json:"post"`
}

// Subscription is a live event feed. C is closed on Unsubscribe or Shutdown.
type Subscription struct {
	C chan Event
}

// Hub fans events out to all current subscriptions. Events published to a
// single subscription arrive in publish order; no ordering is guaranteed
// across subscriptions.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
	buffer int
	logger *logrus.Logger
}

const defaultBuffer = 16

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: defaultBuffer,
		logger: logger,
	}
}

func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{C: make(chan Event, h.buffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(s.C)
		return s
	}
	h.subs[s] = struct{}{}
	return s
}

func (h *Hub) Unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.C)
}

// Publish delivers evt to every current subscriber without blocking. A full
// subscriber buffer means that subscriber misses the event.
func (h *Hub) Publish(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for s := range h.subs {
		select {
		case s.C <- evt:
		default:
			if h.logger != nil {
				h.logger.WithField("action", evt.Action).Warn("dropping change event for slow subscriber")
			}
		}
	}
}

// Shutdown closes all subscriptions; subsequent Publish calls are no-ops and
// subsequent Subscribe calls return an already-closed subscription.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		close(s.C)
	}
}
