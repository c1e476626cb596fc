package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/bewloop/quark-system/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleErr(t *testing.T, err error) (int, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.RequestIDKey, "req-1")

	h := &BaseHandler{}
	h.HandleError(c, err)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"period locked", shared.ErrPeriodLocked, http.StatusBadRequest, shared.CodePeriodLocked, false},
		{"transition", production.ValidateTransition(production.StatusIntake, production.StatusQC),
			http.StatusBadRequest, shared.CodeInvalidTransition, false},
		{"not found", shared.ErrNotFound, http.StatusNotFound, shared.CodeNotFound, false},
		{"duplicate number", shared.ErrDuplicateDocumentNumber, http.StatusConflict, shared.CodeDuplicateDocumentNumber, true},
		{"store failure", shared.StoreFailure(errors.New("conn reset")), http.StatusInternalServerError, shared.CodeStoreFailure, false},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.CodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := handleErr(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.retryable, resp.Error.Retryable)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleErrorHidesInternals(t *testing.T) {
	_, resp := handleErr(t, shared.StoreFailure(errors.New("pq: password authentication failed")))
	assert.NotContains(t, resp.Error.Message, "pq:")
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	(&BaseHandler{}).SuccessWithMeta(c, []string{"a"}, 45, 2, 20)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestGetActorID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := getActorID(c)
	assert.Error(t, err)

	id := uuid.New()
	c.Set(middleware.JWTUserIDKey, id.String())
	got, err := getActorID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
