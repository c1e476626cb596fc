// Package invoicing models customer invoices with their paired receipt number.
package invoicing

import (
	"context"
	"strings"
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VATRate is the Thai value added tax rate
var VATRate = decimal.RequireFromString("0.07")

// Line is one billed line of an invoice
type Line struct {
	ItemNo      int
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Totals is the derived money breakdown of an invoice
type Totals struct {
	Total         decimal.Decimal
	Discount      decimal.Decimal
	AfterDiscount decimal.Decimal
	Deposit       decimal.Decimal
	Net           decimal.Decimal
	VAT           decimal.Decimal
	Grand         decimal.Decimal
}

// LineInput is a caller-supplied line before totals are derived
type LineInput struct {
	Description string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Invoice is an issued invoice. InvoiceNo and ReceiptNo are allocated together
// when the invoice is created.
type Invoice struct {
	shared.BaseEntity
	InvoiceNo   string
	ReceiptNo   string
	CustomerID  uuid.UUID
	InvoiceDate time.Time
	CreditDays  int
	DueDate     time.Time
	Note        string
	Lines       []Line
	Totals
	CreatedBy uuid.UUID
}

// Draft holds everything needed to issue an invoice except its numbers
type Draft struct {
	CustomerID  uuid.UUID
	InvoiceDate time.Time
	CreditDays  int
	Note        string
	Lines       []LineInput
	Discount    decimal.Decimal
	Deposit     decimal.Decimal
}

// NewInvoice validates the draft and derives line and invoice totals
func NewInvoice(invoiceNo, receiptNo string, d Draft, createdBy uuid.UUID) (*Invoice, error) {
	if invoiceNo == "" || receiptNo == "" {
		return nil, shared.ErrInvalidInput.WithMessage("invoice and receipt numbers are required")
	}
	if d.CustomerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("customer_id is required")
	}
	if d.CreditDays < 0 {
		return nil, shared.ErrInvalidInput.WithMessage("credit_days must not be negative")
	}
	lines, err := buildLines(d.Lines)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(lines, d.Discount, d.Deposit)
	if err != nil {
		return nil, err
	}

	date := d.InvoiceDate
	if date.IsZero() {
		date = time.Now()
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	return &Invoice{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceNo:   invoiceNo,
		ReceiptNo:   receiptNo,
		CustomerID:  d.CustomerID,
		InvoiceDate: date,
		CreditDays:  d.CreditDays,
		DueDate:     date.AddDate(0, 0, d.CreditDays),
		Note:        strings.TrimSpace(d.Note),
		Lines:       lines,
		Totals:      totals,
		CreatedBy:   createdBy,
	}, nil
}

func buildLines(in []LineInput) ([]Line, error) {
	if len(in) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("at least one item is required")
	}
	lines := make([]Line, 0, len(in))
	for i, l := range in {
		if strings.TrimSpace(l.Description) == "" {
			return nil, shared.ErrInvalidInput.WithMessage("item %d: description is required", i+1)
		}
		if !l.Qty.IsPositive() {
			return nil, shared.ErrInvalidInput.WithMessage("item %d: qty must be positive", i+1)
		}
		if l.UnitPrice.IsNegative() {
			return nil, shared.ErrInvalidInput.WithMessage("item %d: unit_price must not be negative", i+1)
		}
		lines = append(lines, Line{
			ItemNo:      i + 1,
			Description: strings.TrimSpace(l.Description),
			Qty:         l.Qty,
			UnitPrice:   l.UnitPrice,
			Total:       l.Qty.Mul(l.UnitPrice).Round(2),
		})
	}
	return lines, nil
}

// ComputeTotals derives the invoice totals from its lines.
// net = sum(lines) - discount - deposit, VAT is 7% of net, grand = net + VAT.
func ComputeTotals(lines []Line, discount, deposit decimal.Decimal) (Totals, error) {
	if discount.IsNegative() || deposit.IsNegative() {
		return Totals{}, shared.ErrInvalidInput.WithMessage("discount and deposit must not be negative")
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	after := total.Sub(discount)
	if after.IsNegative() {
		return Totals{}, shared.ErrInvalidInput.WithMessage("discount exceeds total")
	}
	net := after.Sub(deposit)
	if net.IsNegative() {
		return Totals{}, shared.ErrInvalidInput.WithMessage("deposit exceeds total after discount")
	}
	vat := net.Mul(VATRate).Round(2)
	return Totals{
		Total:         total,
		Discount:      discount,
		AfterDiscount: after,
		Deposit:       deposit,
		Net:           net,
		VAT:           vat,
		Grand:         net.Add(vat),
	}, nil
}

// Summary is a list row for invoices
type Summary struct {
	ID           uuid.UUID
	InvoiceNo    string
	ReceiptNo    string
	InvoiceDate  time.Time
	GrandTotal   decimal.Decimal
	CustomerName string
}

// Repository persists invoices with their lines
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, filter shared.Filter) ([]Summary, int64, error)
}
