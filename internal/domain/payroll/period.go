// Package payroll models pay periods, their lock state and per-worker pay items.
package payroll

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
)

// Period is a payroll period. Items can only be saved while it is open.
type Period struct {
	shared.BaseEntity
	StartDate time.Time
	EndDate   time.Time
	IsLocked  bool
	LockedAt  *time.Time
	LockedBy  *uuid.UUID
	CreatedBy uuid.UUID
}

// NewPeriod creates an open period covering [start, end], both days inclusive
func NewPeriod(start, end time.Time, createdBy uuid.UUID) (*Period, error) {
	start, end = truncateDay(start), truncateDay(end)
	if start.IsZero() || end.IsZero() {
		return nil, shared.ErrInvalidInput.WithMessage("start_date and end_date are required")
	}
	if end.Before(start) {
		return nil, shared.ErrInvalidInput.WithMessage("end_date must not be before start_date")
	}
	return &Period{
		BaseEntity: shared.NewBaseEntity(),
		StartDate:  start,
		EndDate:    end,
		CreatedBy:  createdBy,
	}, nil
}

// Overlaps reports whether the inclusive date ranges intersect
func (p *Period) Overlaps(start, end time.Time) bool {
	return !truncateDay(start).After(p.EndDate) && !p.StartDate.After(truncateDay(end))
}

// AssertOpen fails with PeriodLocked if the period is locked
func (p *Period) AssertOpen() error {
	if p.IsLocked {
		return shared.ErrPeriodLocked.WithMessage("payroll period %s to %s is locked",
			p.StartDate.Format(time.DateOnly), p.EndDate.Format(time.DateOnly))
	}
	return nil
}

// Lock closes the period and stamps who closed it
func (p *Period) Lock(by uuid.UUID, at time.Time) (*LockEvent, error) {
	if p.IsLocked {
		return nil, shared.ErrInvalidState.WithMessage("payroll period is already locked")
	}
	p.IsLocked = true
	p.LockedAt = &at
	p.LockedBy = &by
	p.Touch()
	return newLockEvent(p.ID, LockActionLock, by, at), nil
}

// Unlock reopens the period. The previous lock stamp survives in the
// returned event history, not on the period row.
func (p *Period) Unlock(by uuid.UUID, at time.Time) (*LockEvent, error) {
	if !p.IsLocked {
		return nil, shared.ErrInvalidState.WithMessage("payroll period is not locked")
	}
	p.IsLocked = false
	p.LockedAt = nil
	p.LockedBy = nil
	p.Touch()
	return newLockEvent(p.ID, LockActionUnlock, by, at), nil
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LockAction is the kind of lock state change
type LockAction string

const (
	LockActionLock   LockAction = "lock"
	LockActionUnlock LockAction = "unlock"
)

// LockEvent records one lock or unlock of a period
type LockEvent struct {
	ID       uuid.UUID
	PeriodID uuid.UUID
	Action   LockAction
	ActorID  uuid.UUID
	At       time.Time
}

func newLockEvent(periodID uuid.UUID, action LockAction, actor uuid.UUID, at time.Time) *LockEvent {
	return &LockEvent{
		ID:       uuid.New(),
		PeriodID: periodID,
		Action:   action,
		ActorID:  actor,
		At:       at,
	}
}
