package production

import (
	"context"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
)

// StockReconciler returns a cancelled order's material to stock.
// It must be called with the transaction context of the status update.
type StockReconciler struct {
	stock stock.Repository
}

// NewStockReconciler creates a new StockReconciler
func NewStockReconciler(repo stock.Repository) *StockReconciler {
	return &StockReconciler{stock: repo}
}

// Reconcile creates exactly one stock entry mirroring the order's material
func (r *StockReconciler) Reconcile(ctx context.Context, o *production.Order) (*stock.Entry, error) {
	if !o.IsCancelled() {
		return nil, shared.ErrInvalidState.WithMessage("order %s is not cancelled", o.OrderNo)
	}
	entry := stock.NewReconciliationEntry(o.ID, o.OrderNo, o.Material)
	if err := r.stock.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
