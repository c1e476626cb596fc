// Package stock models raw-material stock entries.
package stock

import (
	"context"
	"strings"
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
)

// Material describes a batch of car mat material
type Material struct {
	CarModel string
	CarYear  string
	MatType  string
	MatColor string
	MatQty   int
}

// Validate checks the material descriptor
func (m Material) Validate() error {
	if strings.TrimSpace(m.CarModel) == "" {
		return shared.ErrInvalidInput.WithMessage("car_model is required")
	}
	if strings.TrimSpace(m.MatType) == "" {
		return shared.ErrInvalidInput.WithMessage("mat_type is required")
	}
	if m.MatQty <= 0 {
		return shared.ErrInvalidInput.WithMessage("mat_qty must be positive")
	}
	return nil
}

// Source records how a stock entry came to exist
type Source string

const (
	SourceIntake       Source = "intake"
	SourceCancellation Source = "cancellation"
)

// Entry is a stock record. Entries are created by direct intake or by order
// cancellation and are only ever mutated by TakeOut.
type Entry struct {
	shared.BaseEntity
	Material
	Note string
	// OrderID is set when the entry was created by cancelling an order
	OrderID      *uuid.UUID
	Source       Source
	StockOutDate *time.Time
}

// NewEntry creates a stock entry from direct intake
func NewEntry(m Material, note string) (*Entry, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		Material:   m,
		Note:       strings.TrimSpace(note),
		Source:     SourceIntake,
	}, nil
}

// NewReconciliationEntry returns the materials of a cancelled order to stock.
// The material is copied verbatim; no validation is applied because the order
// that held it was already accepted.
func NewReconciliationEntry(orderID uuid.UUID, orderNo string, m Material) *Entry {
	id := orderID
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		Material:   m,
		Note:       CancellationNote(orderNo),
		OrderID:    &id,
		Source:     SourceCancellation,
	}
}

// CancellationNote is the note attached to stock returned by a cancelled order
func CancellationNote(orderNo string) string {
	return "returned from cancelled order #" + orderNo
}

// InStock reports whether the entry has not been taken out
func (e *Entry) InStock() bool {
	return e.StockOutDate == nil
}

// TakeOut marks the entry as used
func (e *Entry) TakeOut(at time.Time) error {
	if !e.InStock() {
		return shared.ErrInvalidState.WithMessage("stock entry already taken out")
	}
	e.StockOutDate = &at
	e.Touch()
	return nil
}

// Repository persists stock entries
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	// FindByIDForUpdate row-locks the entry inside the caller's transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter ListFilter) ([]Entry, int64, error)
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}

// ListFilter narrows stock listings
type ListFilter struct {
	shared.Filter
	InStockOnly bool
}
