package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PeriodRepository persists payroll periods
type PeriodRepository interface {
	Create(ctx context.Context, p *Period) error
	FindByID(ctx context.Context, id uuid.UUID) (*Period, error)
	// FindByIDForUpdate row-locks the period inside the caller's transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Period, error)
	// FindOverlapping returns periods whose inclusive range intersects [start, end]
	FindOverlapping(ctx context.Context, start, end time.Time) ([]Period, error)
	UpdateLock(ctx context.Context, p *Period) error
	List(ctx context.Context) ([]Period, error)
}

// LockEventRepository appends period lock history
type LockEventRepository interface {
	Append(ctx context.Context, e *LockEvent) error
	ListByPeriod(ctx context.Context, periodID uuid.UUID) ([]LockEvent, error)
}

// ItemRepository persists pay items
type ItemRepository interface {
	// FindByPeriodAndWorker returns shared.ErrNotFound when the worker has no item yet
	FindByPeriodAndWorker(ctx context.Context, periodID, workerID uuid.UUID) (*Item, error)
	Create(ctx context.Context, i *Item) error
	Update(ctx context.Context, i *Item) error
	ListByPeriod(ctx context.Context, periodID uuid.UUID) ([]Item, error)
}
