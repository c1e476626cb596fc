package auth

import (
	"testing"
	"time"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough-32",
		AccessTokenExpiration: time.Hour,
		Issuer:                "quark-test",
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	tok, err := svc.Issue(userID, "mai", identity.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)

	claims, err := svc.Validate(tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "mai", claims.Username)
	assert.Equal(t, string(identity.RoleManager), claims.Role)
	assert.NotEmpty(t, claims.ID)

	got, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	assert.True(t, claims.HasPermission(string(identity.CapOrderTransition)))
	assert.False(t, claims.HasPermission(string(identity.CapUserManage)))
}

func TestJWTService_Validate_Rejects(t *testing.T) {
	svc := newTestJWTService()

	t.Run("expired", func(t *testing.T) {
		tok, err := svc.Issue(uuid.New(), "old", identity.RoleWorker)
		require.NoError(t, err)
		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err = svc.Validate(tok.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-another-secret-0000", AccessTokenExpiration: time.Hour, Issuer: "quark-test"})
		tok, err := other.Issue(uuid.New(), "x", identity.RoleWorker)
		require.NoError(t, err)
		_, err = svc.Validate(tok.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: uuid.NewString(), Role: "admin"}
		claims.Issuer = "quark-test"
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Validate(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
