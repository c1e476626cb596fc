package handler

import (
	"net/http"

	invoicingapp "github.com/bewloop/quark-system/internal/application/invoicing"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ArchiveURLHeader carries the presigned link of the archived PDF
const ArchiveURLHeader = "X-Archive-URL"

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create godoc
// @ID           createInvoice
// @Summary      Issue an invoice with its receipt number
// @Description  Totals, VAT and the due date are computed server-side
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replay-safe request key"
// @Param        request body invoicingapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[invoicingapp.InvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req invoicingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	inv, err := h.invoiceService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Invoice number or customer"
// @Success      200 {object} APIResponse[[]invoicingapp.InvoiceSummaryResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter invoicingapp.ListInvoicesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	filter.Page, filter.PageSize = dto.Page(filter.Page, filter.PageSize)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getInvoice
// @Summary      Get an invoice with its lines and customer
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[invoicingapp.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}
	inv, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// NextNumber godoc
// @ID           peekInvoiceNumber
// @Summary      Preview the next invoice or receipt number
// @Description  Reads the counter without reserving a number
// @Tags         invoices
// @Produce      json
// @Param        docType path string true "iv or re"
// @Success      200 {object} APIResponse[invoicingapp.NextNumberResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/next-number/{docType} [get]
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	next, err := h.invoiceService.PeekNext(c.Request.Context(), c.Param("docType"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, next)
}

// PDF godoc
// @ID           getInvoicePdf
// @Summary      Render an invoice as PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := h.parseID(c, "id", "invoice")
	if !ok {
		return
	}
	result, err := h.invoiceService.PDF(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.DownloadURL != "" {
		c.Header(ArchiveURLHeader, result.DownloadURL)
	}
	c.Header("Content-Disposition", `inline; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
