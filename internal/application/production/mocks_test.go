package production

import (
	"context"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// passThroughTx runs fn directly; rolledBack records whether fn failed
type passThroughTx struct {
	calls      int
	rolledBack bool
}

func (p *passThroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	err := fn(ctx)
	p.rolledBack = err != nil
	return err
}

type MockAllocator struct {
	mock.Mock
}

func (m *MockAllocator) Next(ctx context.Context, t sequence.DocumentType, period string) (int64, error) {
	args := m.Called(ctx, t, period)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocator) Peek(ctx context.Context, t sequence.DocumentType, period string) (int64, error) {
	args := m.Called(ctx, t, period)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *production.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*production.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *production.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) List(ctx context.Context, f production.ListFilter) ([]production.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]production.Order), args.Get(1).(int64), args.Error(2)
}

type MockStatusLogRepository struct {
	mock.Mock
}

func (m *MockStatusLogRepository) Append(ctx context.Context, e *production.StatusLogEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockStatusLogRepository) ListByOrder(ctx context.Context, id uuid.UUID) ([]production.StatusLogEntry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]production.StatusLogEntry), args.Error(1)
}

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Create(ctx context.Context, e *stock.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Entry), args.Error(1)
}

func (m *MockStockRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*stock.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Entry), args.Error(1)
}

func (m *MockStockRepository) Update(ctx context.Context, e *stock.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockStockRepository) List(ctx context.Context, f stock.ListFilter) ([]stock.Entry, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]stock.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) CountByOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
