package payroll

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePeriodRequest represents a request to open a payroll period.
// Dates are YYYY-MM-DD and both ends are inclusive.
type CreatePeriodRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// SaveItemRequest carries the pay inputs for one worker in one period.
// Totals are always computed server-side.
type SaveItemRequest struct {
	PeriodID   uuid.UUID        `json:"period_id" binding:"required"`
	UserID     uuid.UUID        `json:"user_id" binding:"required"`
	PayType    string           `json:"pay_type" binding:"required,oneof=daily piece"`
	DailyRate  decimal.Decimal  `json:"daily_rate"`
	WorkDays   decimal.Decimal  `json:"work_days"`
	PieceCount int              `json:"piece_count" binding:"min=0,max=100000"`
	ExtraRate  *decimal.Decimal `json:"extra_rate"`
	OTHours    decimal.Decimal  `json:"ot_hours"`
	Bonus      decimal.Decimal  `json:"bonus"`
	Deduction  decimal.Decimal  `json:"deduction"`
	Note       string           `json:"note" binding:"max=1000"`
}

func (r SaveItemRequest) inputs() payroll.Inputs {
	return payroll.Inputs{
		DailyRate:  r.DailyRate,
		WorkDays:   r.WorkDays,
		PieceCount: r.PieceCount,
		ExtraRate:  r.ExtraRate,
		OTHours:    r.OTHours,
		Bonus:      r.Bonus,
		Deduction:  r.Deduction,
	}
}

// PeriodResponse represents a payroll period in API responses
type PeriodResponse struct {
	ID        uuid.UUID  `json:"id"`
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	IsLocked  bool       `json:"is_locked"`
	LockedAt  *time.Time `json:"locked_at,omitempty"`
	LockedBy  *uuid.UUID `json:"locked_by,omitempty"`
	CreatedBy uuid.UUID  `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// ItemResponse represents a saved payroll item
type ItemResponse struct {
	ID         uuid.UUID        `json:"id"`
	PeriodID   uuid.UUID        `json:"period_id"`
	UserID     uuid.UUID        `json:"user_id"`
	PayType    string           `json:"pay_type"`
	DailyRate  decimal.Decimal  `json:"daily_rate"`
	WorkDays   decimal.Decimal  `json:"work_days"`
	PieceCount int              `json:"piece_count"`
	ExtraRate  *decimal.Decimal `json:"extra_rate,omitempty"`
	PieceTotal decimal.Decimal  `json:"piece_total"`
	OTHours    decimal.Decimal  `json:"ot_hours"`
	OTTotal    decimal.Decimal  `json:"ot_total"`
	Bonus      decimal.Decimal  `json:"bonus"`
	Deduction  decimal.Decimal  `json:"deduction"`
	Total      decimal.Decimal  `json:"total"`
	Note       string           `json:"note"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// LockEventResponse is one entry of a period's lock history
type LockEventResponse struct {
	ID      uuid.UUID `json:"id"`
	Action  string    `json:"action"`
	ActorID uuid.UUID `json:"actor_id"`
	At      time.Time `json:"at"`
}

// ToPeriodResponse converts a domain period to a response DTO
func ToPeriodResponse(p *payroll.Period) PeriodResponse {
	return PeriodResponse{
		ID:        p.ID,
		StartDate: p.StartDate.Format(time.DateOnly),
		EndDate:   p.EndDate.Format(time.DateOnly),
		IsLocked:  p.IsLocked,
		LockedAt:  p.LockedAt,
		LockedBy:  p.LockedBy,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

// ToItemResponse converts a domain item to a response DTO
func ToItemResponse(i *payroll.Item) ItemResponse {
	return ItemResponse{
		ID:         i.ID,
		PeriodID:   i.PeriodID,
		UserID:     i.WorkerID,
		PayType:    string(i.PayType),
		DailyRate:  i.Inputs.DailyRate,
		WorkDays:   i.Inputs.WorkDays,
		PieceCount: i.Inputs.PieceCount,
		ExtraRate:  i.Inputs.ExtraRate,
		PieceTotal: i.WageTotal,
		OTHours:    i.Inputs.OTHours,
		OTTotal:    i.OTTotal,
		Bonus:      i.Inputs.Bonus,
		Deduction:  i.Inputs.Deduction,
		Total:      i.Total,
		Note:       i.Note,
		UpdatedAt:  i.UpdatedAt,
	}
}

// ToLockEventResponse converts a lock event to a response DTO
func ToLockEventResponse(e payroll.LockEvent) LockEventResponse {
	return LockEventResponse{ID: e.ID, Action: string(e.Action), ActorID: e.ActorID, At: e.At}
}
