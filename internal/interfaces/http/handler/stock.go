package handler

import (
	stockapp "github.com/bewloop/quark-system/internal/application/stock"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// StockHandler handles finished-goods stock endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// List godoc
// @ID           listStock
// @Summary      List stock entries
// @Tags         stock
// @Produce      json
// @Param        in_stock query bool false "Only entries not yet taken out"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]stockapp.EntryResponse]
// @Security     BearerAuth
// @Router       /stock [get]
func (h *StockHandler) List(c *gin.Context) {
	var filter stockapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	filter.Page, filter.PageSize = dto.Page(filter.Page, filter.PageSize)

	entries, total, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Intake godoc
// @ID           createStockEntry
// @Summary      Record finished goods taken into stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body stockapp.IntakeRequest true "Material"
// @Success      201 {object} APIResponse[stockapp.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock [post]
func (h *StockHandler) Intake(c *gin.Context) {
	var req stockapp.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	entry, err := h.stockService.Intake(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// TakeOut godoc
// @ID           takeOutStockEntry
// @Summary      Stamp a stock entry as taken out
// @Tags         stock
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[stockapp.EntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/{id}/take-out [put]
func (h *StockHandler) TakeOut(c *gin.Context) {
	id, ok := h.parseID(c, "id", "stock entry")
	if !ok {
		return
	}
	entry, err := h.stockService.TakeOut(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Get godoc
// @ID           getStockEntry
// @Summary      Get a stock entry
// @Tags         stock
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[stockapp.EntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/{id} [get]
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "stock entry")
	if !ok {
		return
	}
	entry, err := h.stockService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
