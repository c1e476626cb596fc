package persistence

import (
	"context"
	"errors"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a user
func (r *GormUserRepository) Create(ctx context.Context, u *identity.User) error {
	if err := conn(ctx, r.db).Create(models.UserModelFromDomain(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists.WithMessage("username %q already exists", u.Username).WithCause(err)
		}
		return translate(err)
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := conn(ctx, r.db).First(&model, "username = ?", username).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return model.ToDomain(), nil
}

// Update writes the password hash and role
func (r *GormUserRepository) Update(ctx context.Context, u *identity.User) error {
	result := conn(ctx, r.db).Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"password_hash": u.PasswordHash,
			"role":          string(u.Role),
			"updated_at":    u.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("user not found")
	}
	return nil
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound.WithMessage("user not found")
	}
	return nil
}

// List returns all users ordered by username
func (r *GormUserRepository) List(ctx context.Context) ([]identity.User, error) {
	var rows []models.UserModel
	if err := conn(ctx, r.db).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
