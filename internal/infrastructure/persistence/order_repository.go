package persistence

import (
	"context"
	"errors"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements production.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts an order. A clash on order_no is reported as a retryable
// DUPLICATE_DOCUMENT_NUMBER.
func (r *GormOrderRepository) Create(ctx context.Context, o *production.Order) error {
	if err := conn(ctx, r.db).Create(models.OrderModelFromDomain(o)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateDocumentNumber.WithCause(err)
		}
		return translate(err)
	}
	return nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Order, error) {
	var model models.OrderModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads an order with SELECT ... FOR UPDATE
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*production.Order, error) {
	var model models.OrderModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "order")
	}
	return model.ToDomain(), nil
}

// UpdateStatus writes the order's production status
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, o *production.Order) error {
	result := conn(ctx, r.db).Model(&models.OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{
			"production_status": string(o.ProductionStatus),
			"updated_at":        o.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("order not found")
	}
	return nil
}

// List returns a page of orders, newest first
func (r *GormOrderRepository) List(ctx context.Context, filter production.ListFilter) ([]production.Order, int64, error) {
	query := conn(ctx, r.db).Model(&models.OrderModel{})
	if filter.Status != "" {
		query = query.Where("production_status = ?", string(filter.Status))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("order_no LIKE ? OR customer LIKE ? OR car_model LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var rows []models.OrderModel
	if err := query.Order("created_at DESC").Offset(filter.Offset()).Limit(filter.Limit()).Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}
	orders := make([]production.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// GormStatusLogRepository implements production.StatusLogRepository using GORM
type GormStatusLogRepository struct {
	db *gorm.DB
}

// NewGormStatusLogRepository creates a new GormStatusLogRepository
func NewGormStatusLogRepository(db *gorm.DB) *GormStatusLogRepository {
	return &GormStatusLogRepository{db: db}
}

// Append inserts one log entry
func (r *GormStatusLogRepository) Append(ctx context.Context, e *production.StatusLogEntry) error {
	return translate(conn(ctx, r.db).Create(models.StatusLogModelFromDomain(e)).Error)
}

// ListByOrder returns an order's history, oldest first
func (r *GormStatusLogRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]production.StatusLogEntry, error) {
	var rows []models.StatusLogModel
	if err := conn(ctx, r.db).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	entries := make([]production.StatusLogEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

var (
	_ production.OrderRepository     = (*GormOrderRepository)(nil)
	_ production.StatusLogRepository = (*GormStatusLogRepository)(nil)
)
