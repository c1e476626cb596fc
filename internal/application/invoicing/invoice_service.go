// Package invoicing issues customer invoices and renders them to PDF.
package invoicing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bewloop/quark-system/internal/domain/invoicing"
	"github.com/bewloop/quark-system/internal/domain/partner"
	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/bewloop/quark-system/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoicePrinter renders an invoice document to PDF bytes
type InvoicePrinter interface {
	Print(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// DocumentArchive keeps rendered documents in object storage
type DocumentArchive interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// InvoiceServiceConfig holds numbering and letterhead settings
type InvoiceServiceConfig struct {
	Location *time.Location
	Seller   Party
}

// InvoiceService handles invoice operations
type InvoiceService struct {
	tx        shared.TxManager
	allocator sequence.Allocator
	invoices  invoicing.Repository
	customers partner.CustomerRepository
	printer   InvoicePrinter
	archive   DocumentArchive
	metrics   *telemetry.BusinessMetrics
	cfg       InvoiceServiceConfig
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService. printer and archive may be
// nil, which disables PDF output and archiving respectively.
func NewInvoiceService(
	tx shared.TxManager,
	allocator sequence.Allocator,
	invoices invoicing.Repository,
	customers partner.CustomerRepository,
	printer InvoicePrinter,
	archive DocumentArchive,
	metrics *telemetry.BusinessMetrics,
	cfg InvoiceServiceConfig,
) *InvoiceService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &InvoiceService{
		tx:        tx,
		allocator: allocator,
		invoices:  invoices,
		customers: customers,
		printer:   printer,
		archive:   archive,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create issues an invoice. The IV and RE numbers, the invoice and its lines
// commit in one transaction.
func (s *InvoiceService) Create(ctx context.Context, actor uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID.String()))
	defer span.End()

	now := s.now().In(s.cfg.Location)
	draft := invoicing.Draft{
		CustomerID:  req.CustomerID,
		InvoiceDate: now,
		CreditDays:  req.CreditDays,
		Note:        req.Note,
		Discount:    req.Discount,
		Deposit:     req.Deposit,
		Lines:       make([]invoicing.LineInput, len(req.Items)),
	}
	if req.InvoiceDate != "" {
		d, err := time.Parse(time.DateOnly, req.InvoiceDate)
		if err != nil {
			return nil, shared.ErrInvalidInput.WithMessage("invoice_date must be YYYY-MM-DD")
		}
		draft.InvoiceDate = d
	}
	for i, l := range req.Items {
		draft.Lines[i] = invoicing.LineInput{Description: l.Description, Qty: l.Qty, UnitPrice: l.UnitPrice}
	}

	var (
		inv      *invoicing.Invoice
		customer *partner.Customer
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if customer, err = s.customers.FindByID(ctx, req.CustomerID); err != nil {
			return err
		}
		period := sequence.PeriodKey(now)
		ivNo, err := s.allocator.Next(ctx, sequence.DocumentTypeInvoice, period)
		if err != nil {
			return err
		}
		reNo, err := s.allocator.Next(ctx, sequence.DocumentTypeReceipt, period)
		if err != nil {
			return err
		}
		inv, err = invoicing.NewInvoice(
			sequence.FormatInvoiceNumber(now.Year(), ivNo),
			sequence.FormatReceiptNumber(now.Year(), reNo),
			draft, actor)
		if err != nil {
			return err
		}
		return s.invoices.Create(ctx, inv)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceNo, inv.InvoiceNo)
	s.metrics.RecordInvoiceIssued(ctx)
	logger.L(ctx).Info("invoice issued",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_no", inv.InvoiceNo),
		zap.String("receipt_no", inv.ReceiptNo),
		zap.String("grand_total", inv.Grand.StringFixed(2)))

	resp := ToInvoiceResponse(inv, customer)
	return &resp, nil
}

// PeekNext returns the number the next invoice or receipt would receive
// without reserving it. docType is "iv" or "re".
func (s *InvoiceService) PeekNext(ctx context.Context, docType string) (*NextNumberResponse, error) {
	t := sequence.DocumentType(strings.ToUpper(docType))
	if t != sequence.DocumentTypeInvoice && t != sequence.DocumentTypeReceipt {
		return nil, shared.ErrInvalidInput.WithMessage("unknown document type %q", docType)
	}
	now := s.now().In(s.cfg.Location)
	n, err := s.allocator.Peek(ctx, t, sequence.PeriodKey(now))
	if err != nil {
		return nil, err
	}
	next := sequence.FormatInvoiceNumber(now.Year(), n)
	if t == sequence.DocumentTypeReceipt {
		next = sequence.FormatReceiptNumber(now.Year(), n)
	}
	return &NextNumberResponse{DocType: strings.ToLower(docType), NextNo: next}, nil
}

// Get returns an invoice with its lines and customer
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.FindByID(ctx, inv.CustomerID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	resp := ToInvoiceResponse(inv, customer)
	return &resp, nil
}

// List returns a page of invoices, newest first
func (s *InvoiceService) List(ctx context.Context, f ListInvoicesFilter) ([]InvoiceSummaryResponse, int64, error) {
	rows, total, err := s.invoices.List(ctx, shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search})
	if err != nil {
		return nil, 0, err
	}
	out := make([]InvoiceSummaryResponse, len(rows))
	for i, r := range rows {
		out[i] = ToInvoiceSummaryResponse(r)
	}
	return out, total, nil
}

// PDF renders the invoice. When archiving is configured the PDF is also
// stored and a presigned download link returned; an archive failure does
// not fail the render.
func (s *InvoiceService) PDF(ctx context.Context, id uuid.UUID) (*PDFResult, error) {
	if s.printer == nil {
		return nil, shared.ErrInvalidState.WithMessage("PDF rendering is not configured")
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "pdf")
	defer span.End()

	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := &InvoiceDocument{
		Seller:  s.cfg.Seller,
		Buyer:   Party{Name: inv.Customer.Name, Address: inv.Customer.Address, TaxID: inv.Customer.TaxID},
		Invoice: *inv,
	}
	data, err := s.printer.Print(ctx, doc)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Error("invoice render failed", zap.String("invoice_no", inv.InvoiceNo), zap.Error(err))
		return nil, shared.StoreFailure(err)
	}

	result := &PDFResult{Filename: inv.InvoiceNo + ".pdf", Data: data}
	if s.archive != nil {
		key := archiveKey(inv)
		if err := s.archive.Upload(ctx, key, data, "application/pdf"); err != nil {
			logger.L(ctx).Warn("invoice archive failed", zap.String("key", key), zap.Error(err))
			return result, nil
		}
		if url, _, err := s.archive.GenerateDownloadURL(ctx, key, 0); err == nil {
			result.DownloadURL = url
		}
	}
	return result, nil
}

func archiveKey(inv *InvoiceResponse) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", inv.InvoiceDate[:4], inv.InvoiceNo)
}
