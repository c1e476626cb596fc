// Package identity provides sign-in, sign-out and user account management.
package identity

import (
	"context"
	"errors"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/auth"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errBadCredentials = shared.ErrUnauthorized.WithMessage("invalid username or password")

// AuthService handles login and logout
type AuthService struct {
	users   identity.UserRepository
	tokens  *auth.JWTService
	revoker auth.SessionRevoker
}

// NewAuthService creates a new AuthService
func NewAuthService(users identity.UserRepository, tokens *auth.JWTService, revoker auth.SessionRevoker) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoker: revoker}
}

// Login verifies credentials and issues an access token. Unknown users and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		logger.L(ctx).Info("login rejected", zap.String("username", user.Username))
		return nil, errBadCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, shared.StoreFailure(err)
	}
	logger.L(ctx).Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
	}, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return shared.StoreFailure(err)
	}
	logger.L(ctx).Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}
