package models

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/google/uuid"
)

// OrderModel is the persistence model for production orders
type OrderModel struct {
	BaseModel
	OrderNo          string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	OrderDate        time.Time `gorm:"type:date;not null"`
	CarModel         string    `gorm:"type:varchar(100);not null"`
	CarYear          string    `gorm:"type:varchar(20)"`
	MatType          string    `gorm:"type:varchar(50);not null"`
	MatColor         string    `gorm:"type:varchar(50)"`
	MatQty           int       `gorm:"not null"`
	Channel          string    `gorm:"type:varchar(50)"`
	Customer         string    `gorm:"type:varchar(200)"`
	SetType          string    `gorm:"type:varchar(50)"`
	Note             string    `gorm:"type:text"`
	PaymentStatus    string    `gorm:"type:varchar(20);not null"`
	ProductionStatus string    `gorm:"type:varchar(20);not null;index"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName returns the table name
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the model to a domain order
func (m *OrderModel) ToDomain() *production.Order {
	return &production.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderNo:    m.OrderNo,
		OrderDate:  m.OrderDate,
		Material: stock.Material{
			CarModel: m.CarModel,
			CarYear:  m.CarYear,
			MatType:  m.MatType,
			MatColor: m.MatColor,
			MatQty:   m.MatQty,
		},
		Channel:          m.Channel,
		Customer:         m.Customer,
		SetType:          m.SetType,
		Note:             m.Note,
		PaymentStatus:    production.PaymentStatus(m.PaymentStatus),
		ProductionStatus: production.Status(m.ProductionStatus),
		CreatedBy:        m.CreatedBy,
	}
}

// OrderModelFromDomain converts a domain order to its model
func OrderModelFromDomain(o *production.Order) *OrderModel {
	return &OrderModel{
		BaseModel:        baseFrom(o.BaseEntity),
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
		Note:             o.Note,
		PaymentStatus:    string(o.PaymentStatus),
		ProductionStatus: string(o.ProductionStatus),
		CreatedBy:        o.CreatedBy,
	}
}

// StatusLogModel is one row of order_status_log
type StatusLogModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(20);not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name
func (StatusLogModel) TableName() string {
	return "order_status_log"
}

// ToDomain converts the model to a domain log entry
func (m *StatusLogModel) ToDomain() production.StatusLogEntry {
	return production.StatusLogEntry{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Status:    production.Status(m.Status),
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

// StatusLogModelFromDomain converts a domain log entry to its model
func StatusLogModelFromDomain(e *production.StatusLogEntry) *StatusLogModel {
	return &StatusLogModel{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Status:    string(e.Status),
		UserID:    e.UserID,
		CreatedAt: e.CreatedAt,
	}
}
