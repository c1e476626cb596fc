package persistence

import (
	"context"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/bewloop/quark-system/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements stock.Repository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Create inserts a stock entry
func (r *GormStockRepository) Create(ctx context.Context, e *stock.Entry) error {
	return translate(conn(ctx, r.db).Create(models.StockModelFromDomain(e)).Error)
}

// FindByID finds a stock entry by its ID
func (r *GormStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Entry, error) {
	var model models.StockModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "stock entry")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a stock entry with SELECT ... FOR UPDATE
func (r *GormStockRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*stock.Entry, error) {
	var model models.StockModel
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "stock entry")
	}
	return model.ToDomain(), nil
}

// Update writes the mutable fields of a stock entry
func (r *GormStockRepository) Update(ctx context.Context, e *stock.Entry) error {
	result := conn(ctx, r.db).Model(&models.StockModel{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"note":           e.Note,
			"stock_out_date": e.StockOutDate,
			"updated_at":     e.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("stock entry not found")
	}
	return nil
}

// List returns a page of stock entries, newest first
func (r *GormStockRepository) List(ctx context.Context, filter stock.ListFilter) ([]stock.Entry, int64, error) {
	query := conn(ctx, r.db).Model(&models.StockModel{})
	if filter.InStockOnly {
		query = query.Where("stock_out_date IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var rows []models.StockModel
	if err := query.Order("created_at DESC").Offset(filter.Offset()).Limit(filter.Limit()).Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}
	entries := make([]stock.Entry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, total, nil
}

// CountByOrder counts stock entries created by cancelling the order
func (r *GormStockRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&models.StockModel{}).Where("order_id = ?", orderID).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

var _ stock.Repository = (*GormStockRepository)(nil)
