// Package payroll implements pay period management and pay item saving.
//
// Every write that depends on a period's lock state row-locks the period first,
// so a save can never interleave with a lock of the same period.
package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/bewloop/quark-system/internal/domain/identity"
	"github.com/bewloop/quark-system/internal/domain/payroll"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/bewloop/quark-system/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayrollService handles payroll operations
type PayrollService struct {
	tx      shared.TxManager
	periods payroll.PeriodRepository
	events  payroll.LockEventRepository
	items   payroll.ItemRepository
	users   identity.UserRepository
	metrics *telemetry.BusinessMetrics
	now     func() time.Time
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(
	tx shared.TxManager,
	periods payroll.PeriodRepository,
	events payroll.LockEventRepository,
	items payroll.ItemRepository,
	users identity.UserRepository,
	metrics *telemetry.BusinessMetrics,
) *PayrollService {
	return &PayrollService{
		tx:      tx,
		periods: periods,
		events:  events,
		items:   items,
		users:   users,
		metrics: metrics,
		now:     time.Now,
	}
}

// CreatePeriod opens a new period. Ranges of distinct periods must not
// intersect; the store's exclusion constraint backs up the pre-check.
func (s *PayrollService) CreatePeriod(ctx context.Context, actor uuid.UUID, req CreatePeriodRequest) (*PeriodResponse, error) {
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("end_date must be YYYY-MM-DD")
	}
	period, err := payroll.NewPeriod(start, end, actor)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.periods.FindOverlapping(ctx, period.StartDate, period.EndDate)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return shared.ErrOverlappingPeriod.WithMessage("period overlaps %s to %s",
				existing[0].StartDate.Format(time.DateOnly), existing[0].EndDate.Format(time.DateOnly))
		}
		return s.periods.Create(ctx, period)
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("payroll period created",
		zap.String("period_id", period.ID.String()),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate))
	resp := ToPeriodResponse(period)
	return &resp, nil
}

// Lock closes a period for edits and appends a lock event
func (s *PayrollService) Lock(ctx context.Context, actor, periodID uuid.UUID) (*PeriodResponse, error) {
	return s.toggle(ctx, actor, periodID, payroll.LockActionLock)
}

// Unlock reopens a period and appends an unlock event
func (s *PayrollService) Unlock(ctx context.Context, actor, periodID uuid.UUID) (*PeriodResponse, error) {
	return s.toggle(ctx, actor, periodID, payroll.LockActionUnlock)
}

func (s *PayrollService) toggle(ctx context.Context, actor, periodID uuid.UUID, action payroll.LockAction) (*PeriodResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll", string(action),
		telemetry.WithAttribute(telemetry.SpanAttrPeriodID, periodID.String()))
	defer span.End()

	var period *payroll.Period
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if period, err = s.periods.FindByIDForUpdate(ctx, periodID); err != nil {
			return err
		}
		at := s.now().UTC()
		var event *payroll.LockEvent
		if action == payroll.LockActionLock {
			event, err = period.Lock(actor, at)
		} else {
			event, err = period.Unlock(actor, at)
		}
		if err != nil {
			return err
		}
		if err := s.periods.UpdateLock(ctx, period); err != nil {
			return err
		}
		return s.events.Append(ctx, event)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordPeriodLock(ctx, string(action))
	logger.L(ctx).Info("payroll period "+string(action)+"ed",
		zap.String("period_id", periodID.String()),
		zap.String("actor_id", actor.String()))
	resp := ToPeriodResponse(period)
	return &resp, nil
}

// Save computes and upserts the item for (period, worker). It is rejected
// before any write when the period is missing or locked.
func (s *PayrollService) Save(ctx context.Context, req SaveItemRequest) (*ItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payroll", "save")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPeriodID, req.PeriodID.String(),
		telemetry.SpanAttrWorkerID, req.UserID.String())

	payType := payroll.PayType(req.PayType)
	var item *payroll.Item
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		period, err := s.periods.FindByIDForUpdate(ctx, req.PeriodID)
		if errors.Is(err, shared.ErrNotFound) {
			// A save names its period in the body, so a missing one is a rejected input
			return shared.ErrPeriodNotFound
		}
		if err != nil {
			return err
		}
		if err := period.AssertOpen(); err != nil {
			return err
		}
		if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
			return err
		}

		item, err = s.items.FindByPeriodAndWorker(ctx, period.ID, req.UserID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			if item, err = payroll.NewItem(period.ID, req.UserID, payType, req.inputs(), req.Note); err != nil {
				return err
			}
			return s.items.Create(ctx, item)
		case err != nil:
			return err
		}
		if err := item.Recompute(payType, req.inputs(), req.Note); err != nil {
			return err
		}
		return s.items.Update(ctx, item)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Info("payroll save rejected",
			zap.String("period_id", req.PeriodID.String()),
			zap.Error(err))
		return nil, err
	}

	s.metrics.RecordPayrollSaved(ctx, req.PayType)
	resp := ToItemResponse(item)
	return &resp, nil
}

// ListPeriods returns all periods, most recent first
func (s *PayrollService) ListPeriods(ctx context.Context) ([]PeriodResponse, error) {
	periods, err := s.periods.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PeriodResponse, len(periods))
	for i := range periods {
		out[i] = ToPeriodResponse(&periods[i])
	}
	return out, nil
}

// ListItems returns the items saved for a period
func (s *PayrollService) ListItems(ctx context.Context, periodID uuid.UUID) ([]ItemResponse, error) {
	if _, err := s.periods.FindByID(ctx, periodID); err != nil {
		return nil, err
	}
	items, err := s.items.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out, nil
}

// ListLockEvents returns the lock history of a period, oldest first
func (s *PayrollService) ListLockEvents(ctx context.Context, periodID uuid.UUID) ([]LockEventResponse, error) {
	if _, err := s.periods.FindByID(ctx, periodID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	out := make([]LockEventResponse, len(events))
	for i, e := range events {
		out[i] = ToLockEventResponse(e)
	}
	return out, nil
}
