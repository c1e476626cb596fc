package integration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	productionapp "github.com/bewloop/quark-system/internal/application/production"
	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRequest(model string) productionapp.CreateOrderRequest {
	return productionapp.CreateOrderRequest{
		CarModel:      model,
		CarYear:       "2022",
		MatType:       "leather",
		MatColor:      "black",
		MatQty:        1,
		Channel:       "walk-in",
		PaymentStatus: string(production.PaymentStatusDeposit),
	}
}

func TestOrderCreate_ConcurrentNumbersAreUniqueAndGapless(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	svc := newServices(tdb)
	actor := tdb.CreateUser("front-desk", identity.RoleManager)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	const n = 25
	var (
		mu      sync.Mutex
		numbers []string
	)
	errs := testutil.RunConcurrently(n, func(i int) error {
		resp, err := svc.Orders.Create(ctx, actor, orderRequest(fmt.Sprintf("Model %d", i)))
		if err != nil {
			return err
		}
		mu.Lock()
		numbers = append(numbers, resp.OrderNo)
		mu.Unlock()
		return nil
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	year := time.Now().UTC().Year()
	want := make([]string, n)
	for i := range want {
		want[i] = sequence.FormatOrderNumber("QK", year, int64(i+1))
	}
	sort.Strings(numbers)
	assert.Equal(t, want, numbers)

	var counter int64
	require.NoError(t, tdb.DB.Raw(
		`SELECT current_no FROM document_counters WHERE doc_type = ? AND period_key = ?`,
		string(sequence.DocumentTypeOrder), sequence.PeriodKey(time.Now().UTC()),
	).Scan(&counter).Error)
	assert.Equal(t, int64(n), counter)
}

func TestOrderCreate_FailedInsertDoesNotConsumeNumber(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	svc := newServices(tdb)
	actor := tdb.CreateUser("front-desk", identity.RoleManager)
	ctx := context.Background()

	first, err := svc.Orders.Create(ctx, actor, orderRequest("Civic"))
	require.NoError(t, err)

	// The order insert fails on the users foreign key after the counter moved
	_, err = svc.Orders.Create(ctx, testutil.NewTestUUID("nobody"), orderRequest("Jazz"))
	require.Error(t, err)

	second, err := svc.Orders.Create(ctx, actor, orderRequest("City"))
	require.NoError(t, err)

	year := time.Now().UTC().Year()
	assert.Equal(t, sequence.FormatOrderNumber("QK", year, 1), first.OrderNo)
	assert.Equal(t, sequence.FormatOrderNumber("QK", year, 2), second.OrderNo)
}

func TestOrderStatus_ConcurrentCancelAppliesOnce(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	svc := newServices(tdb)
	actor := tdb.CreateUser("supervisor", identity.RoleManager)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	order, err := svc.Orders.Create(ctx, actor, orderRequest("Fortuner"))
	require.NoError(t, err)

	errs := testutil.RunConcurrently(10, func(int) error {
		_, err := svc.Orders.ChangeStatus(ctx, actor, order.ID,
			productionapp.ChangeStatusRequest{ProductionStatus: string(production.StatusCancelled)})
		return err
	})

	assert.Equal(t, 1, testutil.CountNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, shared.ErrInvalidTransition), "unexpected error: %v", err)
		}
	}

	var cancelledLogs, stockEntries int64
	require.NoError(t, tdb.DB.Raw(
		`SELECT COUNT(*) FROM order_status_log WHERE order_id = ? AND status = ?`,
		order.ID, string(production.StatusCancelled)).Scan(&cancelledLogs).Error)
	require.NoError(t, tdb.DB.Raw(
		`SELECT COUNT(*) FROM stock WHERE order_id = ?`, order.ID).Scan(&stockEntries).Error)
	assert.Equal(t, int64(1), cancelledLogs)
	assert.Equal(t, int64(1), stockEntries)
}

func TestOrderStatus_ConcurrentAdvanceAppliesOnce(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	svc := newServices(tdb)
	actor := tdb.CreateUser("cutter", identity.RoleWorker)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	order, err := svc.Orders.Create(ctx, actor, orderRequest("Hilux"))
	require.NoError(t, err)

	errs := testutil.RunConcurrently(8, func(int) error {
		_, err := svc.Orders.ChangeStatus(ctx, actor, order.ID,
			productionapp.ChangeStatusRequest{ProductionStatus: string(production.StatusCut)})
		return err
	})
	assert.Equal(t, 1, testutil.CountNil(errs))

	detail, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(production.StatusCut), detail.ProductionStatus)
}

func TestOrderStatus_FullPipeline(t *testing.T) {
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	svc := newServices(tdb)
	actor := tdb.CreateUser("line-lead", identity.RoleManager)
	ctx := context.Background()

	order, err := svc.Orders.Create(ctx, actor, orderRequest("Vios"))
	require.NoError(t, err)

	// Skipping a stage is rejected and leaves the order untouched
	_, err = svc.Orders.ChangeStatus(ctx, actor, order.ID,
		productionapp.ChangeStatusRequest{ProductionStatus: string(production.StatusSewn)})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)

	stages := []production.Status{
		production.StatusCut, production.StatusAssembled, production.StatusSewn,
		production.StatusQC, production.StatusShipped,
	}
	for _, to := range stages {
		resp, err := svc.Orders.ChangeStatus(ctx, actor, order.ID,
			productionapp.ChangeStatusRequest{ProductionStatus: string(to)})
		require.NoError(t, err, "advance to %s", to)
		assert.Equal(t, string(to), resp.Order.ProductionStatus)
		assert.Nil(t, resp.StockEntryID)
	}

	// Shipped orders can no longer be cancelled
	_, err = svc.Orders.ChangeStatus(ctx, actor, order.ID,
		productionapp.ChangeStatusRequest{ProductionStatus: string(production.StatusCancelled)})
	require.ErrorIs(t, err, shared.ErrInvalidTransition)

	detail, err := svc.Orders.Get(ctx, order.ID)
	require.NoError(t, err)
	var logged []string
	for _, h := range detail.History {
		logged = append(logged, h.Status)
	}
	// Exactly one audit entry per accepted change, in order; rejected changes log nothing
	assert.Equal(t, []string{"cut", "assembled", "sewn", "qc", "shipped"}, logged)
}
