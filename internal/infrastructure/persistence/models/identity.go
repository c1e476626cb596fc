package models

import "github.com/bewloop/quark-system/internal/domain/identity"

// UserModel is the persistence model for users
type UserModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Role         string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         identity.Role(m.Role),
	}
}

// UserModelFromDomain converts a domain user to its model
func UserModelFromDomain(u *identity.User) *UserModel {
	return &UserModel{
		BaseModel:    baseFrom(u.BaseEntity),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
	}
}
