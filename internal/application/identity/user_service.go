package identity

import (
	"context"
	"time"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/auth"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user account administration
type UserService struct {
	users      identity.UserRepository
	revoker    auth.SessionRevoker
	sessionTTL time.Duration
}

// NewUserService creates a new UserService. sessionTTL should match the
// access token lifetime so revocations outlive every token already issued.
func NewUserService(users identity.UserRepository, revoker auth.SessionRevoker, sessionTTL time.Duration) *UserService {
	return &UserService{users: users, revoker: revoker, sessionTTL: sessionTTL}
}

// Create adds a user with a bcrypt-hashed password
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	u, err := identity.NewUser(req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("user created", zap.String("user_id", u.ID.String()), zap.String("role", req.Role))
	resp := ToUserResponse(u)
	return &resp, nil
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// List returns all users ordered by username
func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, nil
}

// Update changes the password and/or role. A role change revokes the user's
// existing tokens so the new capabilities take effect on next login.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if req.Password == "" && req.Role == "" {
		return nil, shared.ErrInvalidInput.WithMessage("password or role is required")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Password != "" {
		if err := u.SetPassword(req.Password); err != nil {
			return nil, err
		}
	}
	roleChanged := req.Role != "" && identity.Role(req.Role) != u.Role
	if roleChanged {
		if err := u.SetRole(identity.Role(req.Role)); err != nil {
			return nil, err
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	if roleChanged || req.Password != "" {
		s.revokeSessions(ctx, u.ID)
	}
	resp := ToUserResponse(u)
	return &resp, nil
}

// Delete removes a user. Callers cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if actor == id {
		return shared.ErrInvalidInput.WithMessage("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	logger.L(ctx).Info("user deleted", zap.String("user_id", id.String()), zap.String("actor_id", actor.String()))
	return nil
}

// revokeSessions is best effort; the account change itself already committed
func (s *UserService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUser(ctx, id.String(), s.sessionTTL); err != nil {
		logger.L(ctx).Warn("failed to revoke user sessions", zap.String("user_id", id.String()), zap.Error(err))
	}
}
