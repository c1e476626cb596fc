package handler

import (
	"net/http"
	"testing"

	stockapp "github.com/bewloop/quark-system/internal/application/stock"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockHandler_IntakeAndTakeOut(t *testing.T) {
	h := NewStockHandler(stockapp.NewStockService(directTx{}, newMemStock()))
	r := gin.New()
	r.GET("/stock", h.List)
	r.POST("/stock", h.Intake)
	r.PUT("/stock/:id/take-out", h.TakeOut)

	w, resp := doJSON(t, r, http.MethodPost, "/stock", map[string]any{
		"car_model": "Hilux", "mat_type": "rubber", "mat_qty": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := dataMap(t, resp)["id"].(string)

	w, resp = doJSON(t, r, http.MethodGet, "/stock?in_stock=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), resp.Meta.Total)

	w, resp = doJSON(t, r, http.MethodPut, "/stock/"+id+"/take-out", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, dataMap(t, resp)["stock_out_date"])

	w, resp = doJSON(t, r, http.MethodPut, "/stock/"+id+"/take-out", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, shared.CodeInvalidState, resp.Error.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/stock?in_stock=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), resp.Meta.Total)
}
