package payroll

import (
	"strings"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one worker's pay for one period. WageTotal, OTTotal and Total are
// always derived through Compute.
type Item struct {
	shared.BaseEntity
	PeriodID uuid.UUID
	WorkerID uuid.UUID
	PayType  PayType
	Inputs   Inputs
	Result
	Note string
}

// NewItem computes a pay item for worker in period
func NewItem(periodID, workerID uuid.UUID, payType PayType, in Inputs, note string) (*Item, error) {
	if workerID == uuid.Nil {
		return nil, shared.ErrInvalidInput.WithMessage("user_id is required")
	}
	r, err := Compute(payType, in)
	if err != nil {
		return nil, err
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		PeriodID:   periodID,
		WorkerID:   workerID,
		PayType:    payType,
		Inputs:     in,
		Result:     r,
		Note:       strings.TrimSpace(note),
	}, nil
}

// Recompute replaces the inputs of an existing item and derives its totals again
func (i *Item) Recompute(payType PayType, in Inputs, note string) error {
	r, err := Compute(payType, in)
	if err != nil {
		return err
	}
	i.PayType = payType
	i.Inputs = in
	i.Result = r
	i.Note = strings.TrimSpace(note)
	i.Touch()
	return nil
}

// ExtraRateOrDefault returns the over-tier piece rate in effect for the item
func (i *Item) ExtraRateOrDefault() decimal.Decimal {
	return i.Inputs.extraRate()
}
