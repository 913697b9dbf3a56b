package tracking

import (
	"log/slog"
	"sync"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
)

// Observer is a tracking subscriber: typically a websocket connection, but
// anything that can receive events qualifies. Send must be safe for
// concurrent use; a failed Send affects only that observer.
type Observer interface {
	// ID uniquely identifies the observer within the hub.
	ID() string

	// Send pushes one event to the observer.
	Send(event Event) error
}

// Hub maintains room membership per delivery and fans tracking events out
// to current room members. It implements ports.EventPublisher.
//
// Membership is transient and process-local. Broadcasts are at-most-once
// and best-effort: the member set is snapshotted under a read lock before
// sending, so joins and leaves during an in-flight broadcast neither crash
// nor are reflected in that broadcast, and per-observer failures never
// affect other members or the triggering mutation.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Observer

	logger *slog.Logger
}

// NewHub creates an empty Hub. A nil logger falls back to slog.Default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[string]Observer),
		logger: logger,
	}
}

// Join subscribes the observer to the delivery's room and acknowledges with
// a joined_delivery event to the joining observer only. Joining a room the
// observer is already in is idempotent.
func (h *Hub) Join(observer Observer, deliveryID string) {
	h.mu.Lock()
	room, ok := h.rooms[deliveryID]
	if !ok {
		room = make(map[string]Observer)
		h.rooms[deliveryID] = room
	}
	room[observer.ID()] = observer
	h.mu.Unlock()

	h.send(observer, Event{Kind: KindJoinedDelivery, DeliveryID: deliveryID})
}

// Leave unsubscribes the observer from the delivery's room and acknowledges
// with a left_delivery event to the leaving observer only. Leaving a room
// the observer is not in is a no-op apart from the ack.
func (h *Hub) Leave(observer Observer, deliveryID string) {
	h.mu.Lock()
	if room, ok := h.rooms[deliveryID]; ok {
		delete(room, observer.ID())
		if len(room) == 0 {
			delete(h.rooms, deliveryID)
		}
	}
	h.mu.Unlock()

	h.send(observer, Event{Kind: KindLeftDelivery, DeliveryID: deliveryID})
}

// Disconnect removes the observer from every room it belongs to. Used as
// cleanup when the underlying connection is lost; no acks are sent.
func (h *Hub) Disconnect(observer Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for deliveryID, room := range h.rooms {
		delete(room, observer.ID())
		if len(room) == 0 {
			delete(h.rooms, deliveryID)
		}
	}
}

// Broadcast delivers the event to all current members of the delivery's
// room. Implements ports.EventPublisher.
func (h *Hub) Broadcast(deliveryID kernel.UUID, kind ports.EventKind, payload any) {
	h.broadcast(deliveryID.String(), string(kind), payload)
}

func (h *Hub) broadcast(deliveryID string, kind string, payload any) {
	h.mu.RLock()
	room := h.rooms[deliveryID]
	members := make([]Observer, 0, len(room))
	for _, observer := range room {
		members = append(members, observer)
	}
	h.mu.RUnlock()

	event := Event{Kind: kind, DeliveryID: deliveryID, Payload: payload}
	for _, observer := range members {
		h.send(observer, event)
	}
}

// SendError pushes an error event to a single observer.
func (h *Hub) SendError(observer Observer, message string) {
	h.send(observer, Event{Kind: KindError, Payload: ErrorPayload{Message: message}})
}

// Rooms returns the delivery ids that currently have at least one observer.
func (h *Hub) Rooms() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.rooms))
	for deliveryID := range h.rooms {
		ids = append(ids, deliveryID)
	}
	return ids
}

// MemberCount returns the number of observers in the delivery's room.
func (h *Hub) MemberCount(deliveryID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[deliveryID])
}

// CloseRoom drops the delivery's room and all its memberships. Members are
// not notified; used to reclaim rooms of finished deliveries.
func (h *Hub) CloseRoom(deliveryID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, deliveryID)
}

func (h *Hub) send(observer Observer, event Event) {
	if err := observer.Send(event); err != nil {
		h.logger.Warn("tracking event not delivered",
			"observer", observer.ID(),
			"event", event.Kind,
			"deliveryId", event.DeliveryID,
			"error", err)
	}
}
