package integration

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	invoicingapp "github.com/bewloop/quark-system/internal/application/invoicing"
	partnerapp "github.com/bewloop/quark-system/internal/application/partner"
	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceRequest(customerID uuid.UUID) invoicingapp.CreateInvoiceRequest {
	return invoicingapp.CreateInvoiceRequest{
		CustomerID: customerID,
		Items: []invoicingapp.InvoiceLineRequest{
			{Description: "Seat cover set", Qty: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(1500)},
		},
	}
}

func TestInvoiceCreate_ConcurrentNumbersAreUnique(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	svc := newServices(tdb)
	actor := tdb.CreateUser("cashier", identity.RoleManager)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	customer, err := svc.Customers.Create(ctx, partnerapp.CustomerRequest{Code: "C001", Name: "Garage One"})
	require.NoError(t, err)

	const n = 15
	var (
		mu       sync.Mutex
		invoices []string
		receipts []string
	)
	errs := testutil.RunConcurrently(n, func(int) error {
		resp, err := svc.Invoices.Create(ctx, actor, invoiceRequest(customer.ID))
		if err != nil {
			return err
		}
		mu.Lock()
		invoices = append(invoices, resp.InvoiceNo)
		receipts = append(receipts, resp.ReceiptNo)
		mu.Unlock()
		return nil
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	year := time.Now().UTC().Year()
	wantIV := make([]string, n)
	wantRE := make([]string, n)
	for i := 0; i < n; i++ {
		wantIV[i] = sequence.FormatInvoiceNumber(year, int64(i+1))
		wantRE[i] = sequence.FormatReceiptNumber(year, int64(i+1))
	}
	sort.Strings(invoices)
	sort.Strings(receipts)
	assert.Equal(t, wantIV, invoices)
	assert.Equal(t, wantRE, receipts)
}

func TestInvoicePeekNext_DoesNotReserve(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	svc := newServices(tdb)
	actor := tdb.CreateUser("cashier", identity.RoleManager)
	ctx := context.Background()

	customer, err := svc.Customers.Create(ctx, partnerapp.CustomerRequest{Code: "C002", Name: "Garage Two"})
	require.NoError(t, err)

	first, err := svc.Invoices.PeekNext(ctx, "iv")
	require.NoError(t, err)
	again, err := svc.Invoices.PeekNext(ctx, "iv")
	require.NoError(t, err)
	assert.Equal(t, first.NextNo, again.NextNo)

	inv, err := svc.Invoices.Create(ctx, actor, invoiceRequest(customer.ID))
	require.NoError(t, err)
	assert.Equal(t, first.NextNo, inv.InvoiceNo)

	next, err := svc.Invoices.PeekNext(ctx, "re")
	require.NoError(t, err)
	assert.Equal(t, sequence.FormatReceiptNumber(time.Now().UTC().Year(), 2), next.NextNo)
}
