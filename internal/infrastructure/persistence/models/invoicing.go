package models

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for invoices
type InvoiceModel struct {
	BaseModel
	InvoiceNo     string             `gorm:"type:varchar(20);not null;uniqueIndex"`
	ReceiptNo     string             `gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	InvoiceDate   time.Time          `gorm:"type:date;not null"`
	CreditDays    int                `gorm:"not null;default:0"`
	DueDate       time.Time          `gorm:"type:date;not null"`
	Note          string             `gorm:"type:text"`
	TotalAmount   decimal.Decimal    `gorm:"type:numeric(14,2);not null"`
	Discount      decimal.Decimal    `gorm:"type:numeric(14,2);not null"`
	AfterDiscount decimal.Decimal    `gorm:"type:numeric(14,2);not null"`
	Deposit       decimal.Decimal    `gorm:"type:numeric(14,2);not null"`
	NetAmount     decimal.Decimal    `gorm:"type:numeric(14,2);not null"`
	VATAmount     decimal.Decimal    `gorm:"column:vat_amount;type:numeric(14,2);not null"`
	GrandTotal    decimal.Decimal    `gorm:"type:numeric(14,2);not null"`
	CreatedBy     uuid.UUID          `gorm:"type:uuid;not null"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceItemModel is one billed line
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemNo      int             `gorm:"not null"`
	Description string          `gorm:"type:text;not null"`
	Qty         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// TableName returns the table name
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the model and its loaded items to a domain invoice
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	lines := make([]invoicing.Line, len(m.Items))
	for i, it := range m.Items {
		lines[i] = invoicing.Line{
			ItemNo:      it.ItemNo,
			Description: it.Description,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
	}
	return &invoicing.Invoice{
		BaseEntity:  m.BaseModel.ToDomain(),
		InvoiceNo:   m.InvoiceNo,
		ReceiptNo:   m.ReceiptNo,
		CustomerID:  m.CustomerID,
		InvoiceDate: m.InvoiceDate,
		CreditDays:  m.CreditDays,
		DueDate:     m.DueDate,
		Note:        m.Note,
		Lines:       lines,
		Totals: invoicing.Totals{
			Total:         m.TotalAmount,
			Discount:      m.Discount,
			AfterDiscount: m.AfterDiscount,
			Deposit:       m.Deposit,
			Net:           m.NetAmount,
			VAT:           m.VATAmount,
			Grand:         m.GrandTotal,
		},
		CreatedBy: m.CreatedBy,
	}
}

// InvoiceModelFromDomain converts a domain invoice, including lines, to its model
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	items := make([]InvoiceItemModel, len(inv.Lines))
	for i, l := range inv.Lines {
		items[i] = InvoiceItemModel{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			ItemNo:      l.ItemNo,
			Description: l.Description,
			Qty:         l.Qty,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
		}
	}
	return &InvoiceModel{
		BaseModel:     baseFrom(inv.BaseEntity),
		InvoiceNo:     inv.InvoiceNo,
		ReceiptNo:     inv.ReceiptNo,
		CustomerID:    inv.CustomerID,
		InvoiceDate:   inv.InvoiceDate,
		CreditDays:    inv.CreditDays,
		DueDate:       inv.DueDate,
		Note:          inv.Note,
		TotalAmount:   inv.Total,
		Discount:      inv.Discount,
		AfterDiscount: inv.AfterDiscount,
		Deposit:       inv.Deposit,
		NetAmount:     inv.Net,
		VATAmount:     inv.VAT,
		GrandTotal:    inv.Grand,
		CreatedBy:     inv.CreatedBy,
		Items:         items,
	}
}
