package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "QK-2026-0007", FormatOrderNumber("QK", 2026, 7))
	assert.Equal(t, "QK-2026-12345", FormatOrderNumber("QK", 2026, 12345))
}

func TestFormatInvoiceAndReceiptNumber(t *testing.T) {
	assert.Equal(t, "IV260007", FormatInvoiceNumber(2026, 7))
	assert.Equal(t, "RE260123", FormatReceiptNumber(2026, 123))
	assert.Equal(t, "IV300001", FormatInvoiceNumber(2030, 1))
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2026", PeriodKey(time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)))
}

func TestDocumentType_IsValid(t *testing.T) {
	tests := []struct {
		docType DocumentType
		isValid bool
	}{
		{DocumentTypeOrder, true},
		{DocumentTypeInvoice, true},
		{DocumentTypeReceipt, true},
		{DocumentType("PO"), false},
		{DocumentType(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.docType.IsValid())
		})
	}
}
