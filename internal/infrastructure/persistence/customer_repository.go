package persistence

import (
	"context"
	"errors"

	"github.com/bewloop/quark-system/internal/domain/partner"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func duplicateCode(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists.WithMessage("duplicate customer_code").WithCause(err)
	}
	return translate(err)
}

// Create inserts a customer
func (r *GormCustomerRepository) Create(ctx context.Context, c *partner.Customer) error {
	if err := conn(ctx, r.db).Create(models.CustomerModelFromDomain(c)).Error; err != nil {
		return duplicateCode(err)
	}
	return nil
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "customer")
	}
	return model.ToDomain(), nil
}

// Update writes every editable field of a customer
func (r *GormCustomerRepository) Update(ctx context.Context, c *partner.Customer) error {
	result := conn(ctx, r.db).Model(&models.CustomerModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"customer_code": c.Code,
			"name":          c.Name,
			"address":       c.Address,
			"tax_id":        c.TaxID,
			"updated_at":    c.UpdatedAt,
		})
	if result.Error != nil {
		return duplicateCode(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("customer not found")
	}
	return nil
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("customer not found")
	}
	return nil
}

// List returns all customers ordered by code
func (r *GormCustomerRepository) List(ctx context.Context) ([]partner.Customer, error) {
	var rows []models.CustomerModel
	if err := conn(ctx, r.db).Order("customer_code ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
