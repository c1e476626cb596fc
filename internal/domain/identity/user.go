// Package identity models workshop user accounts and their roles.
package identity

import (
	"regexp"
	"strings"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
var bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// Error codes raised by account validation
const (
	CodeInvalidRole     = "INVALID_ROLE"
	CodeInvalidUsername = "INVALID_USERNAME"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodePasswordHash    = "PASSWORD_HASH_ERROR"
)

// User is a login account
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Role         Role
}

// NewUser creates a user with a hashed password
func NewUser(username, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError(CodeInvalidRole, "Unknown role")
	}
	u := &User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   strings.ToLower(strings.TrimSpace(username)),
		Role:       role,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword validates and stores a new password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError(CodePasswordHash, "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// SetRole changes the user's role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError(CodeInvalidRole, "Unknown role")
	}
	u.Role = role
	u.Touch()
	return nil
}

// VerifyPassword checks password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewDomainError(CodeInvalidUsername, "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError(CodeInvalidUsername, "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError(CodeInvalidUsername, "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError(CodeInvalidPassword, "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError(CodeInvalidPassword, "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
