package production

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tx     *passThroughTx
	alloc  *MockAllocator
	orders *MockOrderRepository
	logs   *MockStatusLogRepository
	stock  *MockStockRepository
	svc    *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	f := &fixture{
		tx:     &passThroughTx{},
		alloc:  new(MockAllocator),
		orders: new(MockOrderRepository),
		logs:   new(MockStatusLogRepository),
		stock:  new(MockStockRepository),
	}
	f.svc = NewOrderService(f.tx, f.alloc, f.orders, f.logs, f.stock, nil,
		OrderServiceConfig{OrderPrefix: "QK", Location: bangkok})
	return f
}

func validCreateRequest() CreateOrderRequest {
	return CreateOrderRequest{
		CarModel: "Civic",
		CarYear:  "2019",
		MatType:  "5D",
		MatColor: "black",
		MatQty:   5,
		Channel:  "facebook",
		Customer: "K. Somchai",
	}
}

func orderAt(status production.Status) *production.Order {
	o, _ := production.NewOrder("QK-2026-0001", production.OrderDetails{
		Material: stock.Material{CarModel: "Civic", MatType: "5D", MatColor: "black", MatQty: 5},
	}, uuid.New(), time.Now())
	o.ProductionStatus = status
	return o
}

func TestOrderService_Create(t *testing.T) {
	f := newFixture(t)
	// 2026-12-31 18:00 UTC is already 2027 in Bangkok
	f.svc.now = func() time.Time { return time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC) }
	actor := uuid.New()

	f.alloc.On("Next", mock.Anything, sequence.DocumentTypeOrder, "2027").Return(int64(7), nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *production.Order) bool {
		return o.OrderNo == "QK-2027-0007" && o.ProductionStatus == production.StatusIntake
	})).Return(nil)

	resp, err := f.svc.Create(context.Background(), actor, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "QK-2027-0007", resp.OrderNo)
	assert.Equal(t, "intake", resp.ProductionStatus)
	assert.Equal(t, "unpaid", resp.PaymentStatus)
	assert.Equal(t, actor, resp.CreatedBy)
	assert.Equal(t, 1, f.tx.calls)
	f.alloc.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.logs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestOrderService_Create_InvalidMaterialSkipsAllocation(t *testing.T) {
	f := newFixture(t)
	req := validCreateRequest()
	req.MatQty = 0

	_, err := f.svc.Create(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	f.alloc.AssertNotCalled(t, "Next", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Create_InsertFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.alloc.On("Next", mock.Anything, sequence.DocumentTypeOrder, mock.Anything).Return(int64(3), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).
		Return(shared.ErrDuplicateDocumentNumber.WithCause(errors.New("unique violation")))

	_, err := f.svc.Create(context.Background(), uuid.New(), validCreateRequest())
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.True(t, de.Retryable)
	assert.True(t, f.tx.rolledBack)
}

func TestOrderService_ChangeStatus_Forward(t *testing.T) {
	f := newFixture(t)
	order := orderAt(production.StatusIntake)
	actor := uuid.New()

	f.orders.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("UpdateStatus", mock.Anything, order).Return(nil)
	f.logs.On("Append", mock.Anything, mock.MatchedBy(func(e *production.StatusLogEntry) bool {
		return e.OrderID == order.ID && e.Status == production.StatusCut && e.UserID == actor
	})).Return(nil)

	resp, err := f.svc.ChangeStatus(context.Background(), actor, order.ID, ChangeStatusRequest{ProductionStatus: "cut"})
	require.NoError(t, err)
	assert.Equal(t, "cut", resp.Order.ProductionStatus)
	assert.Equal(t, "cut", resp.Log.Status)
	assert.Nil(t, resp.StockEntryID)
	f.stock.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.logs.AssertExpectations(t)
}

func TestOrderService_ChangeStatus_CancelReconcilesStock(t *testing.T) {
	f := newFixture(t)
	order := orderAt(production.StatusSewn)

	f.orders.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("UpdateStatus", mock.Anything, order).Return(nil)
	f.logs.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.stock.On("Create", mock.Anything, mock.MatchedBy(func(e *stock.Entry) bool {
		return e.OrderID != nil && *e.OrderID == order.ID &&
			e.Material == order.Material &&
			e.Note == "returned from cancelled order #QK-2026-0001" &&
			e.Source == stock.SourceCancellation
	})).Return(nil).Once()

	resp, err := f.svc.ChangeStatus(context.Background(), uuid.New(), order.ID, ChangeStatusRequest{ProductionStatus: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Order.ProductionStatus)
	require.NotNil(t, resp.StockEntryID)
	f.stock.AssertExpectations(t)
}

func TestOrderService_ChangeStatus_Rejected(t *testing.T) {
	tests := []struct {
		name string
		from production.Status
		to   string
	}{
		{"skip a stage", production.StatusIntake, "sewn"},
		{"backwards", production.StatusQC, "cut"},
		{"from shipped", production.StatusShipped, "cancelled"},
		{"cancel twice", production.StatusCancelled, "cancelled"},
		{"unknown status", production.StatusIntake, "painted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			order := orderAt(tt.from)
			f.orders.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)

			_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), order.ID, ChangeStatusRequest{ProductionStatus: tt.to})
			assert.ErrorIs(t, err, shared.ErrInvalidTransition)
			assert.Equal(t, tt.from, order.ProductionStatus)
			f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
			f.logs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
			f.stock.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_ChangeStatus_NotFound(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.orders.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), id, ChangeStatusRequest{ProductionStatus: "cut"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderService_ChangeStatus_StockFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	order := orderAt(production.StatusCut)
	f.orders.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	f.orders.On("UpdateStatus", mock.Anything, order).Return(nil)
	f.logs.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.stock.On("Create", mock.Anything, mock.Anything).Return(shared.StoreFailure(errors.New("disk full")))

	_, err := f.svc.ChangeStatus(context.Background(), uuid.New(), order.ID, ChangeStatusRequest{ProductionStatus: "cancelled"})
	assert.ErrorIs(t, err, shared.ErrStoreFailure)
	assert.True(t, f.tx.rolledBack)
}

func TestOrderService_Get(t *testing.T) {
	f := newFixture(t)
	order := orderAt(production.StatusCut)
	user := uuid.New()
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.logs.On("ListByOrder", mock.Anything, order.ID).Return([]production.StatusLogEntry{
		*production.NewStatusLogEntry(order.ID, production.StatusCut, user, t0),
	}, nil)

	resp, err := f.svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "cut", resp.History[0].Status)
	assert.Equal(t, user, resp.History[0].UserID)
}

func TestOrderService_List(t *testing.T) {
	f := newFixture(t)
	f.orders.On("List", mock.Anything, mock.MatchedBy(func(lf production.ListFilter) bool {
		return lf.Status == production.StatusQC && lf.Page == 2 && lf.Search == "civic"
	})).Return([]production.Order{*orderAt(production.StatusQC)}, int64(21), nil)

	out, total, err := f.svc.List(context.Background(), ListOrdersFilter{Page: 2, Status: "qc", Search: "civic"})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	assert.Len(t, out, 1)

	_, _, err = f.svc.List(context.Background(), ListOrdersFilter{Status: "done"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestStockReconciler_RejectsLiveOrder(t *testing.T) {
	r := NewStockReconciler(new(MockStockRepository))
	_, err := r.Reconcile(context.Background(), orderAt(production.StatusQC))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
