package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bewloop/quark-system/internal/domain/invoicing"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements invoicing.Repository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts the invoice header and its lines in one statement batch
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoicing.Invoice) error {
	if err := conn(ctx, r.db).Create(models.InvoiceModelFromDomain(inv)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateDocumentNumber.WithCause(err)
		}
		return translate(err)
	}
	return nil
}

// FindByID loads an invoice with its lines in item order
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_no ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "invoice")
	}
	return model.ToDomain(), nil
}

type invoiceSummaryRow struct {
	ID           uuid.UUID
	InvoiceNo    string
	ReceiptNo    string
	InvoiceDate  time.Time
	GrandTotal   decimal.Decimal
	CustomerName string
}

// List returns invoice summaries with the customer name, newest first
func (r *GormInvoiceRepository) List(ctx context.Context, filter shared.Filter) ([]invoicing.Summary, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.InvoiceModel{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var rows []invoiceSummaryRow
	err := db.Table("invoices AS i").
		Select("i.id, i.invoice_no, i.receipt_no, i.invoice_date, i.grand_total, c.name AS customer_name").
		Joins("LEFT JOIN customers AS c ON c.id = i.customer_id").
		Order("i.invoice_date DESC, i.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	out := make([]invoicing.Summary, len(rows))
	for i, row := range rows {
		out[i] = invoicing.Summary(row)
	}
	return out, total, nil
}

var _ invoicing.Repository = (*GormInvoiceRepository)(nil)
