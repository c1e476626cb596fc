package handler

import (
	productionapp "github.com/bewloop/quark-system/internal/application/production"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles production order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *productionapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *productionapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Create a production order
// @Description  Allocates the next order number and records the order at intake
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay-safe request key"
// @Param        request body productionapp.CreateOrderRequest true "Order details"
// @Success      201 {object} APIResponse[productionapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req productionapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// ChangeStatus godoc
// @ID           changeOrderProductionStatus
// @Summary      Move an order to another production status
// @Description  Forward one step, or cancel from any non-terminal status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body productionapp.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[productionapp.StatusChangeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/production-status [put]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id", "order")
	if !ok {
		return
	}
	var req productionapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.ChangeStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order with its status history
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.OrderDetailResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @ID           listOrders
// @Summary      List orders, newest first
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        production_status query string false "Status filter"
// @Param        search query string false "Order number, car model or customer"
// @Success      200 {object} APIResponse[[]productionapp.OrderResponse]
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter productionapp.ListOrdersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	filter.Page, filter.PageSize = dto.Page(filter.Page, filter.PageSize)

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}
