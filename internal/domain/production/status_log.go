package production

import (
	"time"

	"github.com/google/uuid"
)

// StatusLogEntry is an append-only record of one accepted transition
type StatusLogEntry struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Status    Status
	UserID    uuid.UUID
	CreatedAt time.Time
}

// NewStatusLogEntry creates a log entry for a transition to status by user
func NewStatusLogEntry(orderID uuid.UUID, status Status, userID uuid.UUID, at time.Time) *StatusLogEntry {
	return &StatusLogEntry{
		ID:        uuid.New(),
		OrderID:   orderID,
		Status:    status,
		UserID:    userID,
		CreatedAt: at,
	}
}
