package production

import (
	"context"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository persists production orders
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate row-locks the order inside the caller's transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
}

// ListFilter narrows order listings
type ListFilter struct {
	shared.Filter
	Status Status
}

// StatusLogRepository appends and reads order status history
type StatusLogRepository interface {
	Append(ctx context.Context, e *StatusLogEntry) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]StatusLogEntry, error)
}
