package models

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/payroll"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollPeriodModel is the persistence model for payroll periods
type PayrollPeriodModel struct {
	BaseModel
	StartDate time.Time  `gorm:"type:date;not null"`
	EndDate   time.Time  `gorm:"type:date;not null"`
	IsLocked  bool       `gorm:"not null;default:false"`
	LockedAt  *time.Time `gorm:"default:null"`
	LockedBy  *uuid.UUID `gorm:"type:uuid"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null"`
}

// TableName returns the table name
func (PayrollPeriodModel) TableName() string {
	return "payroll_periods"
}

// ToDomain converts the model to a domain period
func (m *PayrollPeriodModel) ToDomain() *payroll.Period {
	return &payroll.Period{
		BaseEntity: m.BaseModel.ToDomain(),
		StartDate:  m.StartDate.UTC(),
		EndDate:    m.EndDate.UTC(),
		IsLocked:   m.IsLocked,
		LockedAt:   m.LockedAt,
		LockedBy:   m.LockedBy,
		CreatedBy:  m.CreatedBy,
	}
}

// PayrollPeriodModelFromDomain converts a domain period to its model
func PayrollPeriodModelFromDomain(p *payroll.Period) *PayrollPeriodModel {
	return &PayrollPeriodModel{
		BaseModel: baseFrom(p.BaseEntity),
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		IsLocked:  p.IsLocked,
		LockedAt:  p.LockedAt,
		LockedBy:  p.LockedBy,
		CreatedBy: p.CreatedBy,
	}
}

// PayrollLockEventModel is one row of payroll_period_lock_events
type PayrollLockEventModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PeriodID uuid.UUID `gorm:"type:uuid;not null;index"`
	Action   string    `gorm:"type:varchar(10);not null"`
	ActorID  uuid.UUID `gorm:"type:uuid;not null"`
	At       time.Time `gorm:"not null"`
}

// TableName returns the table name
func (PayrollLockEventModel) TableName() string {
	return "payroll_period_lock_events"
}

// ToDomain converts the model to a domain lock event
func (m *PayrollLockEventModel) ToDomain() payroll.LockEvent {
	return payroll.LockEvent{
		ID:       m.ID,
		PeriodID: m.PeriodID,
		Action:   payroll.LockAction(m.Action),
		ActorID:  m.ActorID,
		At:       m.At,
	}
}

// PayrollLockEventModelFromDomain converts a domain lock event to its model
func PayrollLockEventModelFromDomain(e *payroll.LockEvent) *PayrollLockEventModel {
	return &PayrollLockEventModel{
		ID:       e.ID,
		PeriodID: e.PeriodID,
		Action:   string(e.Action),
		ActorID:  e.ActorID,
		At:       e.At,
	}
}

// PayrollItemModel is the persistence model for payroll items.
// PieceTotal holds the base wage for both pay types.
type PayrollItemModel struct {
	BaseModel
	PeriodID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_items_period_user"`
	UserID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_items_period_user"`
	PayType    string              `gorm:"type:varchar(10);not null"`
	DailyRate  decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
	WorkDays   decimal.Decimal     `gorm:"type:numeric(6,2);not null;default:0"`
	PieceCount int                 `gorm:"not null;default:0"`
	ExtraRate  decimal.NullDecimal `gorm:"type:numeric(14,2)"`
	PieceTotal decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
	OTHours    decimal.Decimal     `gorm:"column:ot_hours;type:numeric(6,2);not null;default:0"`
	OTTotal    decimal.Decimal     `gorm:"column:ot_total;type:numeric(14,2);not null;default:0"`
	Bonus      decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
	Deduction  decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
	Total      decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0"`
	Note       string              `gorm:"type:text"`
}

// TableName returns the table name
func (PayrollItemModel) TableName() string {
	return "payroll_items"
}

// ToDomain converts the model to a domain item
func (m *PayrollItemModel) ToDomain() *payroll.Item {
	in := payroll.Inputs{
		DailyRate:  m.DailyRate,
		WorkDays:   m.WorkDays,
		PieceCount: m.PieceCount,
		OTHours:    m.OTHours,
		Bonus:      m.Bonus,
		Deduction:  m.Deduction,
	}
	if m.ExtraRate.Valid {
		r := m.ExtraRate.Decimal
		in.ExtraRate = &r
	}
	return &payroll.Item{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		PeriodID:   m.PeriodID,
		WorkerID:   m.UserID,
		PayType:    payroll.PayType(m.PayType),
		Inputs:     in,
		Result: payroll.Result{
			WageTotal: m.PieceTotal,
			OTTotal:   m.OTTotal,
			Total:     m.Total,
		},
		Note: m.Note,
	}
}

// PayrollItemModelFromDomain converts a domain item to its model
func PayrollItemModelFromDomain(i *payroll.Item) *PayrollItemModel {
	m := &PayrollItemModel{
		BaseModel:  baseFrom(i.BaseEntity),
		PeriodID:   i.PeriodID,
		UserID:     i.WorkerID,
		PayType:    string(i.PayType),
		DailyRate:  i.Inputs.DailyRate,
		WorkDays:   i.Inputs.WorkDays,
		PieceCount: i.Inputs.PieceCount,
		PieceTotal: i.WageTotal,
		OTHours:    i.Inputs.OTHours,
		OTTotal:    i.OTTotal,
		Bonus:      i.Inputs.Bonus,
		Deduction:  i.Inputs.Deduction,
		Total:      i.Total,
		Note:       i.Note,
	}
	if i.Inputs.ExtraRate != nil {
		m.ExtraRate = decimal.NewNullDecimal(*i.Inputs.ExtraRate)
	}
	return m
}
