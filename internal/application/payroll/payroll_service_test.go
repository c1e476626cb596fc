package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/payroll"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type passThroughTx struct{}

func (passThroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) Create(ctx context.Context, p *payroll.Period) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Period, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payroll.Period, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Period), args.Error(1)
}

func (m *MockPeriodRepository) FindOverlapping(ctx context.Context, start, end time.Time) ([]payroll.Period, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]payroll.Period), args.Error(1)
}

func (m *MockPeriodRepository) UpdateLock(ctx context.Context, p *payroll.Period) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPeriodRepository) List(ctx context.Context) ([]payroll.Period, error) {
	args := m.Called(ctx)
	return args.Get(0).([]payroll.Period), args.Error(1)
}

type MockLockEventRepository struct {
	mock.Mock
}

func (m *MockLockEventRepository) Append(ctx context.Context, e *payroll.LockEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockLockEventRepository) ListByPeriod(ctx context.Context, id uuid.UUID) ([]payroll.LockEvent, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]payroll.LockEvent), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByPeriodAndWorker(ctx context.Context, periodID, workerID uuid.UUID) (*payroll.Item, error) {
	args := m.Called(ctx, periodID, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.Item), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, i *payroll.Item) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, i *payroll.Item) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockItemRepository) ListByPeriod(ctx context.Context, id uuid.UUID) ([]payroll.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]payroll.Item), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, name string) (*identity.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.User), args.Error(1)
}

type fixture struct {
	periods *MockPeriodRepository
	events  *MockLockEventRepository
	items   *MockItemRepository
	users   *MockUserRepository
	svc     *PayrollService
}

func newFixture() *fixture {
	f := &fixture{
		periods: new(MockPeriodRepository),
		events:  new(MockLockEventRepository),
		items:   new(MockItemRepository),
		users:   new(MockUserRepository),
	}
	f.svc = NewPayrollService(passThroughTx{}, f.periods, f.events, f.items, f.users, nil)
	return f
}

func openPeriod(t *testing.T) *payroll.Period {
	t.Helper()
	p, err := payroll.NewPeriod(
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		uuid.New())
	require.NoError(t, err)
	return p
}

func TestPayrollService_CreatePeriod(t *testing.T) {
	f := newFixture()
	f.periods.On("FindOverlapping", mock.Anything, mock.Anything, mock.Anything).Return([]payroll.Period{}, nil)
	f.periods.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.CreatePeriod(context.Background(), uuid.New(),
		CreatePeriodRequest{StartDate: "2026-03-01", EndDate: "2026-03-15"})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", resp.StartDate)
	assert.False(t, resp.IsLocked)
}

func TestPayrollService_CreatePeriod_Overlap(t *testing.T) {
	f := newFixture()
	existing := openPeriod(t)
	f.periods.On("FindOverlapping", mock.Anything, mock.Anything, mock.Anything).Return([]payroll.Period{*existing}, nil)

	_, err := f.svc.CreatePeriod(context.Background(), uuid.New(),
		CreatePeriodRequest{StartDate: "2026-03-15", EndDate: "2026-03-31"})
	assert.ErrorIs(t, err, shared.ErrOverlappingPeriod)
	f.periods.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPayrollService_CreatePeriod_BadRange(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreatePeriod(context.Background(), uuid.New(),
		CreatePeriodRequest{StartDate: "2026-03-15", EndDate: "2026-03-01"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestPayrollService_LockUnlockHistory(t *testing.T) {
	f := newFixture()
	period := openPeriod(t)
	admin := uuid.New()
	f.periods.On("FindByIDForUpdate", mock.Anything, period.ID).Return(period, nil)
	f.periods.On("UpdateLock", mock.Anything, period).Return(nil)
	f.events.On("Append", mock.Anything, mock.MatchedBy(func(e *payroll.LockEvent) bool {
		return e.Action == payroll.LockActionLock && e.ActorID == admin
	})).Return(nil).Once()
	f.events.On("Append", mock.Anything, mock.MatchedBy(func(e *payroll.LockEvent) bool {
		return e.Action == payroll.LockActionUnlock
	})).Return(nil).Once()

	resp, err := f.svc.Lock(context.Background(), admin, period.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsLocked)
	require.NotNil(t, resp.LockedBy)
	assert.Equal(t, admin, *resp.LockedBy)

	_, err = f.svc.Lock(context.Background(), admin, period.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err = f.svc.Unlock(context.Background(), admin, period.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsLocked)
	assert.Nil(t, resp.LockedAt)
	f.events.AssertExpectations(t)
}

func TestPayrollService_Save_CreatesComputedItem(t *testing.T) {
	f := newFixture()
	period := openPeriod(t)
	worker := uuid.New()
	f.periods.On("FindByIDForUpdate", mock.Anything, period.ID).Return(period, nil)
	f.users.On("FindByID", mock.Anything, worker).Return(&identity.User{}, nil)
	f.items.On("FindByPeriodAndWorker", mock.Anything, period.ID, worker).Return(nil, shared.ErrNotFound)
	f.items.On("Create", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Save(context.Background(), SaveItemRequest{
		PeriodID:   period.ID,
		UserID:     worker,
		PayType:    "piece",
		PieceCount: 20,
		OTHours:    decimal.NewFromInt(2),
		Bonus:      decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6030).Equal(resp.PieceTotal))
	assert.True(t, decimal.NewFromInt(120).Equal(resp.OTTotal))
	assert.True(t, decimal.NewFromInt(6250).Equal(resp.Total))
}

func TestPayrollService_Save_UpdatesExisting(t *testing.T) {
	f := newFixture()
	period := openPeriod(t)
	worker := uuid.New()
	existing, err := payroll.NewItem(period.ID, worker, payroll.PayTypeDaily,
		payroll.Inputs{DailyRate: decimal.NewFromInt(400), WorkDays: decimal.NewFromInt(10)}, "")
	require.NoError(t, err)

	f.periods.On("FindByIDForUpdate", mock.Anything, period.ID).Return(period, nil)
	f.users.On("FindByID", mock.Anything, worker).Return(&identity.User{}, nil)
	f.items.On("FindByPeriodAndWorker", mock.Anything, period.ID, worker).Return(existing, nil)
	f.items.On("Update", mock.Anything, existing).Return(nil)

	resp, err := f.svc.Save(context.Background(), SaveItemRequest{
		PeriodID:  period.ID,
		UserID:    worker,
		PayType:   "daily",
		DailyRate: decimal.NewFromInt(400),
		WorkDays:  decimal.NewFromInt(22),
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.True(t, decimal.NewFromInt(8800).Equal(resp.Total))
	f.items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPayrollService_Save_LockedPeriodWritesNothing(t *testing.T) {
	f := newFixture()
	period := openPeriod(t)
	_, err := period.Lock(uuid.New(), time.Now())
	require.NoError(t, err)
	f.periods.On("FindByIDForUpdate", mock.Anything, period.ID).Return(period, nil)

	_, err = f.svc.Save(context.Background(), SaveItemRequest{PeriodID: period.ID, UserID: uuid.New(), PayType: "piece", PieceCount: 10})
	assert.ErrorIs(t, err, shared.ErrPeriodLocked)
	f.items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.items.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPayrollService_Save_MissingPeriod(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.periods.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Save(context.Background(), SaveItemRequest{PeriodID: id, UserID: uuid.New(), PayType: "daily"})
	assert.ErrorIs(t, err, shared.ErrPeriodNotFound)
}

func TestPayrollService_Lock_MissingPeriodIsNotFound(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.periods.On("FindByIDForUpdate", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Lock(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NotErrorIs(t, err, shared.ErrPeriodNotFound)
	f.events.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestPayrollService_ListLockEvents(t *testing.T) {
	f := newFixture()
	period := openPeriod(t)
	actor := uuid.New()
	at := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	f.periods.On("FindByID", mock.Anything, period.ID).Return(period, nil)
	f.events.On("ListByPeriod", mock.Anything, period.ID).Return([]payroll.LockEvent{
		{ID: uuid.New(), PeriodID: period.ID, Action: payroll.LockActionLock, ActorID: actor, At: at},
	}, nil)

	out, err := f.svc.ListLockEvents(context.Background(), period.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "lock", out[0].Action)
	assert.Equal(t, at, out[0].At)
}
