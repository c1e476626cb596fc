// Package sequence defines document number allocation and formatting.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// DocumentType identifies an independent running-number series
type DocumentType string

const (
	DocumentTypeOrder   DocumentType = "ORDER"
	DocumentTypeInvoice DocumentType = "IV"
	DocumentTypeReceipt DocumentType = "RE"
)

// IsValid checks if the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeOrder, DocumentTypeInvoice, DocumentTypeReceipt:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// PeriodKey returns the partition key for numbers issued at t
func PeriodKey(t time.Time) string {
	return strconv.Itoa(t.Year())
}

// Allocator issues document numbers.
//
// Next must be called with a context that carries the caller's transaction, so
// that the increment commits or rolls back together with the document it numbers.
// Two concurrent callers never receive the same (docType, periodKey, number).
type Allocator interface {
	Next(ctx context.Context, docType DocumentType, periodKey string) (int64, error)
	// Peek returns the number the next call to Next would return, without
	// reserving it.
	Peek(ctx context.Context, docType DocumentType, periodKey string) (int64, error)
}

// FormatOrderNumber renders an order number, e.g. QK-2026-0007
func FormatOrderNumber(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%04d-%04d", prefix, year, n)
}

// FormatInvoiceNumber renders an invoice number, e.g. IV260007
func FormatInvoiceNumber(year int, n int64) string {
	return formatShort(DocumentTypeInvoice, year, n)
}

// FormatReceiptNumber renders a receipt number, e.g. RE260007
func FormatReceiptNumber(year int, n int64) string {
	return formatShort(DocumentTypeReceipt, year, n)
}

func formatShort(t DocumentType, year int, n int64) string {
	return fmt.Sprintf("%s%02d%04d", t, year%100, n)
}
