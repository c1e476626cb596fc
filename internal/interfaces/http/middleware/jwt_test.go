package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/infrastructure/auth"
	"github.com/bewloop/quark-system/internal/infrastructure/config"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough-32",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "quark-test",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role identity.Role) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	tok, err := svc.Issue(userID, "somchai", role)
	require.NoError(t, err)
	return tok.AccessToken, userID
}

func jwtRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), JWTAuthMiddleware(cfg))
	r.GET("/orders/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    GetJWTUserID(c),
			"role":       GetJWTRole(c),
			"ctx_user":   logger.GetUserID(c.Request.Context()),
			"has_claims": GetJWTClaims(c) != nil,
		})
	})
	return r
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	token, userID := issueToken(t, svc, identity.RoleManager)

	w := doGet(jwtRouter(JWTMiddlewareConfig{JWTService: svc}), BearerPrefix+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, "manager", body["role"])
	assert.Equal(t, userID.String(), body["ctx_user"])
	assert.Equal(t, true, body["has_claims"])
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	svc := newTestJWTService()
	token, _ := issueToken(t, svc, identity.RoleWorker)
	other := auth.NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-secret-of-32",
		AccessTokenExpiration: time.Minute,
		Issuer:                "quark-test",
	})
	forged, _ := issueToken(t, other, identity.RoleAdmin)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.CodeTokenInvalid},
		{"wrong scheme", "Basic " + token, dto.CodeTokenInvalid},
		{"empty bearer", BearerPrefix, dto.CodeTokenInvalid},
		{"garbage", BearerPrefix + "not-a-jwt", dto.CodeTokenInvalid},
		{"wrong signature", BearerPrefix + forged, dto.CodeTokenInvalid},
	}
	r := jwtRouter(JWTMiddlewareConfig{JWTService: svc})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	svc := newTestJWTService()
	token, _ := issueToken(t, svc, identity.RoleManager)
	claims, err := svc.Validate(token)
	require.NoError(t, err)

	revoker := auth.NewInMemorySessionRevoker()
	r := jwtRouter(JWTMiddlewareConfig{JWTService: svc, Revoker: revoker})
	require.Equal(t, http.StatusOK, doGet(r, BearerPrefix+token).Code)

	require.NoError(t, revoker.RevokeToken(context.Background(), claims.ID, time.Minute))
	w := doGet(r, BearerPrefix+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.CodeTokenRevoked, errorCode(t, w))
}

func TestJWTAuthMiddleware_RevokedUser(t *testing.T) {
	svc := newTestJWTService()
	token, userID := issueToken(t, svc, identity.RoleManager)

	revoker := auth.NewInMemorySessionRevoker()
	require.NoError(t, revoker.RevokeUser(context.Background(), userID.String(), time.Minute))

	w := doGet(jwtRouter(JWTMiddlewareConfig{JWTService: svc, Revoker: revoker}), BearerPrefix+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.CodeTokenRevoked, errorCode(t, w))
}
