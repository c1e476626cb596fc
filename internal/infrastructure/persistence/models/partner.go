package models

import "github.com/bewloop/quark-system/internal/domain/partner"

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	BaseModel
	CustomerCode string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	Address      string `gorm:"type:text"`
	TaxID        string `gorm:"column:tax_id;type:varchar(20)"`
}

// TableName returns the table name
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.CustomerCode,
		Name:       m.Name,
		Address:    m.Address,
		TaxID:      m.TaxID,
	}
}

// CustomerModelFromDomain converts a domain customer to its model
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	return &CustomerModel{
		BaseModel:    baseFrom(c.BaseEntity),
		CustomerCode: c.Code,
		Name:         c.Name,
		Address:      c.Address,
		TaxID:        c.TaxID,
	}
}
