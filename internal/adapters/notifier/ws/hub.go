// Package ws implements the real-time fan-out layer: a registry of per-poll
// rooms over websocket connections. Room membership is process-local; a
// multi-instance deployment only reaches subscribers on the same instance.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
)

const (
	eventPollUpdate = "poll-update"
	eventPollClosed = "poll-closed"
)

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type pollClosedPayload struct {
	PollID uuid.UUID `json:"poll_id"`
}

// Hub routes poll events to the clients subscribed to each poll's room.
// It is an explicit instance handed to the vote service at startup, not a
// package-level singleton.
type Hub struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

func (h *Hub) Subscribe(c *Client, pollID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.closed {
		return
	}
	room, ok := h.rooms[pollID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[pollID] = room
	}
	room[c] = struct{}{}
	c.rooms[pollID] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client, pollID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveRoom(c, pollID)
}

// drop detaches a client from every room and closes its send channel.
// Called when the connection goes away or the client stops draining.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *Client) {
	if c.closed {
		return
	}
	for pollID := range c.rooms {
		h.leaveRoom(c, pollID)
	}
	c.closed = true
	close(c.send)
}

func (h *Hub) leaveRoom(c *Client, pollID uuid.UUID) {
	room, ok := h.rooms[pollID]
	if !ok {
		return
	}
	delete(room, c)
	delete(c.rooms, pollID)
	if len(room) == 0 {
		delete(h.rooms, pollID)
	}
}

// BroadcastUpdate delivers the full post-vote snapshot to the poll's room.
func (h *Hub) BroadcastUpdate(pollID uuid.UUID, poll *domain.Poll) {
	h.broadcast(pollID, envelope{Event: eventPollUpdate, Data: poll})
}

// BroadcastClosed announces that the poll transitioned to inactive.
func (h *Hub) BroadcastClosed(pollID uuid.UUID) {
	h.broadcast(pollID, envelope{Event: eventPollClosed, Data: pollClosedPayload{PollID: pollID}})
}

// broadcast enqueues the event for every room member in a single pass under
// the hub lock, which preserves per-poll delivery order. Delivery is
// best-effort: a client whose buffer is full is dropped rather than blocking
// the emission path.
func (h *Hub) broadcast(pollID uuid.UUID, evt envelope) {
	msg, err := json.Marshal(evt)
	if err != nil {
		log.Printf("failed to marshal %s event for poll %s: %v", evt.Event, pollID, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.rooms[pollID] {
		select {
		case c.send <- msg:
		default:
			h.dropLocked(c)
		}
	}
}
