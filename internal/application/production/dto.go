package production

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/google/uuid"
)

// CreateOrderRequest represents a request to create a production order
type CreateOrderRequest struct {
	CarModel      string `json:"car_model" binding:"required,max=100"`
	CarYear       string `json:"car_year" binding:"max=20"`
	MatType       string `json:"mat_type" binding:"required,max=50"`
	MatColor      string `json:"mat_color" binding:"max=50"`
	MatQty        int    `json:"mat_qty" binding:"required,min=1,max=1000"`
	Channel       string `json:"channel" binding:"max=50"`
	Customer      string `json:"customer" binding:"max=200"`
	SetType       string `json:"set_type" binding:"max=50"`
	PaymentStatus string `json:"payment_status" binding:"omitempty,oneof=unpaid deposit paid"`
	Note          string `json:"note" binding:"max=2000"`
}

// ChangeStatusRequest represents a requested production stage change
type ChangeStatusRequest struct {
	ProductionStatus string `json:"production_status" binding:"required"`
}

// ListOrdersFilter holds query parameters for listing orders
type ListOrdersFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"production_status"`
	Search   string `form:"search" binding:"max=100"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID               uuid.UUID `json:"id"`
	OrderNo          string    `json:"order_no"`
	OrderDate        time.Time `json:"order_date"`
	CarModel         string    `json:"car_model"`
	CarYear          string    `json:"car_year"`
	MatType          string    `json:"mat_type"`
	MatColor         string    `json:"mat_color"`
	MatQty           int       `json:"mat_qty"`
	Channel          string    `json:"channel"`
	Customer         string    `json:"customer"`
	SetType          string    `json:"set_type"`
	PaymentStatus    string    `json:"payment_status"`
	ProductionStatus string    `json:"production_status"`
	Note             string    `json:"note"`
	CreatedBy        uuid.UUID `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StatusLogResponse is one entry of an order's history
type StatusLogResponse struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderDetailResponse is an order with its status history
type OrderDetailResponse struct {
	OrderResponse
	History []StatusLogResponse `json:"history"`
}

// StatusChangeResponse reports an accepted transition
type StatusChangeResponse struct {
	Order        OrderResponse     `json:"order"`
	Log          StatusLogResponse `json:"log"`
	StockEntryID *uuid.UUID        `json:"stock_entry_id,omitempty"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *production.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		OrderNo:          o.OrderNo,
		OrderDate:        o.OrderDate,
		CarModel:         o.Material.CarModel,
		CarYear:          o.Material.CarYear,
		MatType:          o.Material.MatType,
		MatColor:         o.Material.MatColor,
		MatQty:           o.Material.MatQty,
		Channel:          o.Channel,
		Customer:         o.Customer,
		SetType:          o.SetType,
		PaymentStatus:    string(o.PaymentStatus),
		ProductionStatus: string(o.ProductionStatus),
		Note:             o.Note,
		CreatedBy:        o.CreatedBy,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToStatusLogResponse converts a log entry to a response DTO
func ToStatusLogResponse(e production.StatusLogEntry) StatusLogResponse {
	return StatusLogResponse{
		ID:        e.ID,
		Status:    string(e.Status),
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt,
	}
}
