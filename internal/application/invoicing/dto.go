package invoicing

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/invoicing"
	"github.com/bewloop/quark-system/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest represents a request to issue an invoice.
// Line and invoice totals are computed server-side.
type CreateInvoiceRequest struct {
	CustomerID  uuid.UUID            `json:"customer_id" binding:"required"`
	InvoiceDate string               `json:"invoice_date" binding:"omitempty,datetime=2006-01-02"`
	CreditDays  int                  `json:"credit_days" binding:"min=0,max=365"`
	Note        string               `json:"note" binding:"max=2000"`
	Items       []InvoiceLineRequest `json:"items" binding:"required,min=1,max=100,dive"`
	Discount    decimal.Decimal      `json:"discount"`
	Deposit     decimal.Decimal      `json:"deposit"`
}

// InvoiceLineRequest is one requested invoice line
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ListInvoicesFilter holds query parameters for listing invoices
type ListInvoicesFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
}

// CustomerRef is the customer block embedded in invoice responses
type CustomerRef struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"customer_code"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	TaxID   string    `json:"tax_id"`
}

// InvoiceLineResponse is one invoice line in API responses
type InvoiceLineResponse struct {
	ItemNo      int             `json:"item_no"`
	Description string          `json:"description"`
	Qty         decimal.Decimal `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceResponse is an invoice with its lines and customer
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNo     string                `json:"invoice_no"`
	ReceiptNo     string                `json:"receipt_no"`
	InvoiceDate   string                `json:"invoice_date"`
	CreditDays    int                   `json:"credit_days"`
	DueDate       string                `json:"due_date"`
	Note          string                `json:"note"`
	Customer      CustomerRef           `json:"customer"`
	Items         []InvoiceLineResponse `json:"items"`
	Total         decimal.Decimal       `json:"total"`
	Discount      decimal.Decimal       `json:"discount"`
	AfterDiscount decimal.Decimal       `json:"after_discount"`
	Deposit       decimal.Decimal       `json:"deposit"`
	Net           decimal.Decimal       `json:"net"`
	VAT           decimal.Decimal       `json:"vat"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	CreatedBy     uuid.UUID             `json:"created_by"`
	CreatedAt     time.Time             `json:"created_at"`
}

// InvoiceSummaryResponse is an invoice list row
type InvoiceSummaryResponse struct {
	ID           uuid.UUID       `json:"id"`
	InvoiceNo    string          `json:"invoice_no"`
	ReceiptNo    string          `json:"receipt_no"`
	InvoiceDate  string          `json:"invoice_date"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	CustomerName string          `json:"customer_name"`
}

// NextNumberResponse reports the number the next invoice would receive
type NextNumberResponse struct {
	DocType string `json:"doc_type"`
	NextNo  string `json:"next_no"`
}

// PDFResult is a rendered invoice document
type PDFResult struct {
	Filename string
	Data     []byte
	// DownloadURL is a presigned link to the archived copy, empty when archiving is off
	DownloadURL string
}

// Party is a seller or buyer block on the printed invoice
type Party struct {
	Name    string
	Address string
	TaxID   string
}

// InvoiceDocument is everything the printed invoice shows
type InvoiceDocument struct {
	Seller  Party
	Buyer   Party
	Invoice InvoiceResponse
}

// ToCustomerRef converts a domain customer to its embedded form
func ToCustomerRef(c *partner.Customer) CustomerRef {
	return CustomerRef{ID: c.ID, Code: c.Code, Name: c.Name, Address: c.Address, TaxID: c.TaxID}
}

// ToInvoiceResponse converts a domain invoice and its customer to a response DTO
func ToInvoiceResponse(inv *invoicing.Invoice, c *partner.Customer) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNo:     inv.InvoiceNo,
		ReceiptNo:     inv.ReceiptNo,
		InvoiceDate:   inv.InvoiceDate.Format(time.DateOnly),
		CreditDays:    inv.CreditDays,
		DueDate:       inv.DueDate.Format(time.DateOnly),
		Note:          inv.Note,
		Items:         make([]InvoiceLineResponse, len(inv.Lines)),
		Total:         inv.Totals.Total,
		Discount:      inv.Discount,
		AfterDiscount: inv.AfterDiscount,
		Deposit:       inv.Deposit,
		Net:           inv.Net,
		VAT:           inv.VAT,
		GrandTotal:    inv.Grand,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
	}
	if c != nil {
		resp.Customer = ToCustomerRef(c)
	} else {
		resp.Customer = CustomerRef{ID: inv.CustomerID}
	}
	for i, l := range inv.Lines {
		resp.Items[i] = InvoiceLineResponse{
			ItemNo:      l.ItemNo,
			Description: l.Description,
			Qty:         l.Qty,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
		}
	}
	return resp
}

// ToInvoiceSummaryResponse converts a list row to a response DTO
func ToInvoiceSummaryResponse(s invoicing.Summary) InvoiceSummaryResponse {
	return InvoiceSummaryResponse{
		ID:           s.ID,
		InvoiceNo:    s.InvoiceNo,
		ReceiptNo:    s.ReceiptNo,
		InvoiceDate:  s.InvoiceDate.Format(time.DateOnly),
		GrandTotal:   s.GrandTotal,
		CustomerName: s.CustomerName,
	}
}
