package handler

import (
	"context"

	payrollapp "github.com/bewloop/quark-system/internal/application/payroll"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PayrollHandler handles payroll period and pay item endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *payrollapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// CreatePeriod godoc
// @ID           createPayrollPeriod
// @Summary      Create a payroll period
// @Description  Rejected when the inclusive date range overlaps an existing period
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.CreatePeriodRequest true "Period dates"
// @Success      201 {object} APIResponse[payrollapp.PeriodResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/period [post]
func (h *PayrollHandler) CreatePeriod(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req payrollapp.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	period, err := h.payrollService.CreatePeriod(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, period)
}

// Lock godoc
// @ID           lockPayrollPeriod
// @Summary      Lock a payroll period against edits
// @Tags         payroll
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} APIResponse[payrollapp.PeriodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/lock/{id} [put]
func (h *PayrollHandler) Lock(c *gin.Context) {
	h.toggle(c, h.payrollService.Lock)
}

// Unlock godoc
// @ID           unlockPayrollPeriod
// @Summary      Reopen a locked payroll period
// @Tags         payroll
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} APIResponse[payrollapp.PeriodResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/unlock/{id} [put]
func (h *PayrollHandler) Unlock(c *gin.Context) {
	h.toggle(c, h.payrollService.Unlock)
}

func (h *PayrollHandler) toggle(c *gin.Context, fn func(ctx context.Context, actor, id uuid.UUID) (*payrollapp.PeriodResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id", "period")
	if !ok {
		return
	}
	period, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, period)
}

// Save godoc
// @ID           savePayrollItem
// @Summary      Compute and store a worker's pay for a period
// @Description  Rejected when the period is locked or does not exist
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.SaveItemRequest true "Pay inputs"
// @Success      200 {object} APIResponse[payrollapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/save [post]
func (h *PayrollHandler) Save(c *gin.Context) {
	var req payrollapp.SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	item, err := h.payrollService.Save(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListPeriods godoc
// @ID           listPayrollPeriods
// @Summary      List payroll periods
// @Tags         payroll
// @Produce      json
// @Success      200 {object} APIResponse[[]payrollapp.PeriodResponse]
// @Security     BearerAuth
// @Router       /payroll/periods [get]
func (h *PayrollHandler) ListPeriods(c *gin.Context) {
	periods, err := h.payrollService.ListPeriods(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, periods)
}

// ListItems godoc
// @ID           listPayrollItems
// @Summary      List pay items of a period
// @Tags         payroll
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} APIResponse[[]payrollapp.ItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/periods/{id}/items [get]
func (h *PayrollHandler) ListItems(c *gin.Context) {
	id, ok := h.parseID(c, "id", "period")
	if !ok {
		return
	}
	items, err := h.payrollService.ListItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// ListLockEvents godoc
// @ID           listPayrollLockEvents
// @Summary      List lock and unlock history of a period
// @Tags         payroll
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} APIResponse[[]payrollapp.LockEventResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payroll/periods/{id}/lock-events [get]
func (h *PayrollHandler) ListLockEvents(c *gin.Context) {
	id, ok := h.parseID(c, "id", "period")
	if !ok {
		return
	}
	events, err := h.payrollService.ListLockEvents(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}
