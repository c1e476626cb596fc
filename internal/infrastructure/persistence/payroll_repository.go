package persistence

import (
	"context"
	"time"

	"github.com/bewloop/quark-system/internal/domain/payroll"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPayrollPeriodRepository implements payroll.PeriodRepository using GORM
type GormPayrollPeriodRepository struct {
	db *gorm.DB
}

// NewGormPayrollPeriodRepository creates a new GormPayrollPeriodRepository
func NewGormPayrollPeriodRepository(db *gorm.DB) *GormPayrollPeriodRepository {
	return &GormPayrollPeriodRepository{db: db}
}

// Create inserts a period. On PostgreSQL the exclusion constraint on the date
// range rejects overlaps that slip past the application check.
func (r *GormPayrollPeriodRepository) Create(ctx context.Context, p *payroll.Period) error {
	return translate(conn(ctx, r.db).Create(models.PayrollPeriodModelFromDomain(p)).Error)
}

func (r *GormPayrollPeriodRepository) find(db *gorm.DB, id uuid.UUID) (*payroll.Period, error) {
	var model models.PayrollPeriodModel
	if err := db.First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "payroll period")
	}
	return model.ToDomain(), nil
}

// FindByID finds a period by its ID
func (r *GormPayrollPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Period, error) {
	return r.find(conn(ctx, r.db), id)
}

// FindByIDForUpdate loads a period with SELECT ... FOR UPDATE. Holding this lock
// serializes item saves against lock and unlock of the same period.
func (r *GormPayrollPeriodRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payroll.Period, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// FindOverlapping returns periods intersecting the inclusive range [start, end]
func (r *GormPayrollPeriodRepository) FindOverlapping(ctx context.Context, start, end time.Time) ([]payroll.Period, error) {
	var rows []models.PayrollPeriodModel
	err := conn(ctx, r.db).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return periodsToDomain(rows), nil
}

// UpdateLock writes the lock flag and stamps
func (r *GormPayrollPeriodRepository) UpdateLock(ctx context.Context, p *payroll.Period) error {
	result := conn(ctx, r.db).Model(&models.PayrollPeriodModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"is_locked":  p.IsLocked,
			"locked_at":  p.LockedAt,
			"locked_by":  p.LockedBy,
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("payroll period not found")
	}
	return nil
}

// List returns all periods, latest first
func (r *GormPayrollPeriodRepository) List(ctx context.Context) ([]payroll.Period, error) {
	var rows []models.PayrollPeriodModel
	if err := conn(ctx, r.db).Order("start_date DESC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return periodsToDomain(rows), nil
}

func periodsToDomain(rows []models.PayrollPeriodModel) []payroll.Period {
	periods := make([]payroll.Period, len(rows))
	for i := range rows {
		periods[i] = *rows[i].ToDomain()
	}
	return periods
}

// GormPayrollLockEventRepository implements payroll.LockEventRepository using GORM
type GormPayrollLockEventRepository struct {
	db *gorm.DB
}

// NewGormPayrollLockEventRepository creates a new GormPayrollLockEventRepository
func NewGormPayrollLockEventRepository(db *gorm.DB) *GormPayrollLockEventRepository {
	return &GormPayrollLockEventRepository{db: db}
}

// Append inserts one lock event
func (r *GormPayrollLockEventRepository) Append(ctx context.Context, e *payroll.LockEvent) error {
	return translate(conn(ctx, r.db).Create(models.PayrollLockEventModelFromDomain(e)).Error)
}

// ListByPeriod returns a period's lock history, oldest first
func (r *GormPayrollLockEventRepository) ListByPeriod(ctx context.Context, periodID uuid.UUID) ([]payroll.LockEvent, error) {
	var rows []models.PayrollLockEventModel
	if err := conn(ctx, r.db).Where("period_id = ?", periodID).Order("at ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	events := make([]payroll.LockEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

// GormPayrollItemRepository implements payroll.ItemRepository using GORM
type GormPayrollItemRepository struct {
	db *gorm.DB
}

// NewGormPayrollItemRepository creates a new GormPayrollItemRepository
func NewGormPayrollItemRepository(db *gorm.DB) *GormPayrollItemRepository {
	return &GormPayrollItemRepository{db: db}
}

// FindByPeriodAndWorker returns the worker's item in a period
func (r *GormPayrollItemRepository) FindByPeriodAndWorker(ctx context.Context, periodID, workerID uuid.UUID) (*payroll.Item, error) {
	var model models.PayrollItemModel
	err := conn(ctx, r.db).
		Where("period_id = ? AND user_id = ?", periodID, workerID).
		First(&model).Error
	if err != nil {
		return nil, notFound(err, "payroll item")
	}
	return model.ToDomain(), nil
}

// Create inserts an item
func (r *GormPayrollItemRepository) Create(ctx context.Context, i *payroll.Item) error {
	return translate(conn(ctx, r.db).Create(models.PayrollItemModelFromDomain(i)).Error)
}

// Update rewrites every input and computed column of an item
func (r *GormPayrollItemRepository) Update(ctx context.Context, i *payroll.Item) error {
	model := models.PayrollItemModelFromDomain(i)
	result := conn(ctx, r.db).Model(model).Select("*").Omit("id", "created_at").Updates(model)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("payroll item not found")
	}
	return nil
}

// ListByPeriod returns all items of a period
func (r *GormPayrollItemRepository) ListByPeriod(ctx context.Context, periodID uuid.UUID) ([]payroll.Item, error) {
	var rows []models.PayrollItemModel
	if err := conn(ctx, r.db).Where("period_id = ?", periodID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	items := make([]payroll.Item, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

var (
	_ payroll.PeriodRepository    = (*GormPayrollPeriodRepository)(nil)
	_ payroll.LockEventRepository = (*GormPayrollLockEventRepository)(nil)
	_ payroll.ItemRepository      = (*GormPayrollItemRepository)(nil)
)
