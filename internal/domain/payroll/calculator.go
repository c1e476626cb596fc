package payroll

import (
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PayType selects how the base wage is computed
type PayType string

const (
	PayTypeDaily PayType = "daily"
	PayTypePiece PayType = "piece"
)

// IsValid checks if the pay type is known
func (p PayType) IsValid() bool {
	return p == PayTypeDaily || p == PayTypePiece
}

// Piece-rate schedule and overtime rate, in baht
var (
	PieceRateBase        = decimal.NewFromInt(380)
	PieceRateTier        = decimal.NewFromInt(420)
	DefaultPieceRateOver = decimal.NewFromInt(25)
	OvertimeHourlyRate   = decimal.NewFromInt(60)
)

const (
	pieceBaseLimit = 10
	pieceTierLimit = 14
)

// Input bounds, matching the payroll_items column types
var (
	// MaxPieceCount keeps piece_count and its wage well inside INTEGER and NUMERIC(14,2)
	MaxPieceCount = 100000
	// MaxQuantity is the largest NUMERIC(6,2) value (work_days, ot_hours)
	MaxQuantity = decimal.RequireFromString("9999.99")
	// MaxAmount is the largest NUMERIC(14,2) value (rates, bonus, deduction, totals)
	MaxAmount = decimal.RequireFromString("999999999999.99")
)

// amountScale is the number of decimal places stored for every figure
const amountScale = 2

// Inputs are the caller-supplied figures for one worker in one period.
// Zero values mean absent.
type Inputs struct {
	DailyRate  decimal.Decimal
	WorkDays   decimal.Decimal
	PieceCount int
	// ExtraRate overrides DefaultPieceRateOver for pieces beyond the tier limit
	ExtraRate *decimal.Decimal
	OTHours   decimal.Decimal
	Bonus     decimal.Decimal
	Deduction decimal.Decimal
}

// Result holds the derived pay components
type Result struct {
	WageTotal decimal.Decimal
	OTTotal   decimal.Decimal
	Total     decimal.Decimal
}

// Compute derives wage, overtime and grand total. It has no side effects.
func Compute(payType PayType, in Inputs) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}

	var wage decimal.Decimal
	switch payType {
	case PayTypeDaily:
		wage = in.DailyRate.Mul(in.WorkDays)
	case PayTypePiece:
		wage = PieceWage(in.PieceCount, in.extraRate())
	default:
		return Result{}, shared.ErrInvalidInput.WithMessage("unknown pay type %q", payType)
	}

	ot := in.OTHours.Mul(OvertimeHourlyRate)
	r := Result{
		WageTotal: wage,
		OTTotal:   ot,
		Total:     wage.Add(ot).Add(in.Bonus).Sub(in.Deduction),
	}
	for name, v := range map[string]decimal.Decimal{"wage": r.WageTotal, "ot_total": r.OTTotal, "total": r.Total} {
		if v.Abs().GreaterThan(MaxAmount) {
			return Result{}, shared.ErrInvalidInput.WithMessage("%s exceeds %s", name, MaxAmount)
		}
	}
	return r, nil
}

// PieceWage applies the tiered piece-rate schedule:
// up to 10 pieces at 380, 11 to 14 pieces all at 420, and beyond 14 the first
// 14 at 420 plus extra for each additional piece.
func PieceWage(count int, extra decimal.Decimal) decimal.Decimal {
	n := decimal.NewFromInt(int64(count))
	switch {
	case count <= pieceBaseLimit:
		return n.Mul(PieceRateBase)
	case count <= pieceTierLimit:
		return n.Mul(PieceRateTier)
	default:
		over := decimal.NewFromInt(int64(count - pieceTierLimit))
		return decimal.NewFromInt(pieceTierLimit).Mul(PieceRateTier).Add(over.Mul(extra))
	}
}

func (in Inputs) extraRate() decimal.Decimal {
	if in.ExtraRate == nil {
		return DefaultPieceRateOver
	}
	return *in.ExtraRate
}

func (in Inputs) validate() error {
	if in.PieceCount < 0 || in.PieceCount > MaxPieceCount {
		return shared.ErrInvalidInput.WithMessage("piece_count must be between 0 and %d", MaxPieceCount)
	}
	quantities := map[string]decimal.Decimal{
		"work_days": in.WorkDays,
		"ot_hours":  in.OTHours,
	}
	amounts := map[string]decimal.Decimal{
		"daily_rate": in.DailyRate,
		"bonus":      in.Bonus,
		"deduction":  in.Deduction,
	}
	if in.ExtraRate != nil {
		amounts["extra_rate"] = *in.ExtraRate
	}
	for name, v := range quantities {
		if err := checkFigure(name, v, MaxQuantity); err != nil {
			return err
		}
	}
	for name, v := range amounts {
		if err := checkFigure(name, v, MaxAmount); err != nil {
			return err
		}
	}
	return nil
}

// checkFigure rejects negatives, values above limit and more than two decimal
// places, so stored inputs always reproduce the stored totals
func checkFigure(name string, v, limit decimal.Decimal) error {
	switch {
	case v.IsNegative():
		return shared.ErrInvalidInput.WithMessage("%s must not be negative", name)
	case v.GreaterThan(limit):
		return shared.ErrInvalidInput.WithMessage("%s must not exceed %s", name, limit)
	case !v.Equal(v.Round(amountScale)):
		return shared.ErrInvalidInput.WithMessage("%s allows at most %d decimal places", name, amountScale)
	}
	return nil
}
