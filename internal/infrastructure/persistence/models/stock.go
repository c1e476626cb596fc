package models

import (
	"time"

	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/google/uuid"
)

// StockModel is the persistence model for stock entries
type StockModel struct {
	BaseModel
	CarModel     string     `gorm:"type:varchar(100);not null"`
	CarYear      string     `gorm:"type:varchar(20)"`
	MatType      string     `gorm:"type:varchar(50);not null"`
	MatColor     string     `gorm:"type:varchar(50)"`
	MatQty       int        `gorm:"not null"`
	Note         string     `gorm:"type:text"`
	Source       string     `gorm:"type:varchar(20);not null"`
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	StockOutDate *time.Time
}

// TableName returns the table name
func (StockModel) TableName() string {
	return "stock"
}

// ToDomain converts the model to a domain stock entry
func (m *StockModel) ToDomain() *stock.Entry {
	return &stock.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		Material: stock.Material{
			CarModel: m.CarModel,
			CarYear:  m.CarYear,
			MatType:  m.MatType,
			MatColor: m.MatColor,
			MatQty:   m.MatQty,
		},
		Note:         m.Note,
		OrderID:      m.OrderID,
		Source:       stock.Source(m.Source),
		StockOutDate: m.StockOutDate,
	}
}

// StockModelFromDomain converts a domain stock entry to its model
func StockModelFromDomain(e *stock.Entry) *StockModel {
	return &StockModel{
		BaseModel:    baseFrom(e.BaseEntity),
		CarModel:     e.CarModel,
		CarYear:      e.CarYear,
		MatType:      e.MatType,
		MatColor:     e.MatColor,
		MatQty:       e.MatQty,
		Note:         e.Note,
		Source:       string(e.Source),
		OrderID:      e.OrderID,
		StockOutDate: e.StockOutDate,
	}
}
