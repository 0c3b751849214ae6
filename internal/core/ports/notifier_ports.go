package ports

import (
	"github.com/google/uuid"
	"github.com/rishithreddy89/PollRooms/internal/core/domain"
)

// PollNotifier pushes poll state changes to every subscriber of a poll's
// room. Delivery is best-effort; a disconnected viewer re-fetches on
// reconnect. For a single poll, events reach each subscriber in the order
// they were broadcast.
type PollNotifier interface {
	BroadcastUpdate(pollID uuid.UUID, poll *domain.Poll)
	BroadcastClosed(pollID uuid.UUID)
}
