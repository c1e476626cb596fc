package production

import (
	"strings"
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/google/uuid"
)

// PaymentStatus tracks customer payment for an order
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusDeposit PaymentStatus = "deposit"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusUnpaid, PaymentStatusDeposit, PaymentStatusPaid:
		return true
	}
	return false
}

// Order is a production order for a set of car mats
type Order struct {
	shared.BaseEntity
	// OrderNo is assigned once at creation and never changes
	OrderNo   string
	OrderDate time.Time
	Material  stock.Material
	Channel   string
	Customer  string
	SetType   string
	Note      string

	PaymentStatus    PaymentStatus
	ProductionStatus Status
	CreatedBy        uuid.UUID
}

// OrderDetails holds the caller-supplied descriptive fields of an order
type OrderDetails struct {
	Material      stock.Material
	Channel       string
	Customer      string
	SetType       string
	Note          string
	PaymentStatus PaymentStatus
}

// NewOrder creates an order at the intake stage
func NewOrder(orderNo string, d OrderDetails, createdBy uuid.UUID, now time.Time) (*Order, error) {
	if strings.TrimSpace(orderNo) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("order number is required")
	}
	if err := d.Material.Validate(); err != nil {
		return nil, err
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = PaymentStatusUnpaid
	}
	if !d.PaymentStatus.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("unknown payment status %q", d.PaymentStatus)
	}

	base := shared.NewBaseEntity()
	base.CreatedAt, base.UpdatedAt = now, now
	return &Order{
		BaseEntity:       base,
		OrderNo:          orderNo,
		OrderDate:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Material:         d.Material,
		Channel:          strings.TrimSpace(d.Channel),
		Customer:         strings.TrimSpace(d.Customer),
		SetType:          strings.TrimSpace(d.SetType),
		Note:             strings.TrimSpace(d.Note),
		PaymentStatus:    d.PaymentStatus,
		ProductionStatus: StatusIntake,
		CreatedBy:        createdBy,
	}, nil
}

// ChangeStatus validates and applies a stage transition
func (o *Order) ChangeStatus(to Status) error {
	if err := ValidateTransition(o.ProductionStatus, to); err != nil {
		return err
	}
	o.ProductionStatus = to
	o.Touch()
	return nil
}

// IsCancelled reports whether the order has been cancelled
func (o *Order) IsCancelled() bool {
	return o.ProductionStatus == StatusCancelled
}
