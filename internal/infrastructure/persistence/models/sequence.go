package models

import "time"

// DocumentCounterModel is the running number row for one document type and period
type DocumentCounterModel struct {
	DocType   string    `gorm:"type:varchar(20);primaryKey"`
	PeriodKey string    `gorm:"type:varchar(20);primaryKey"`
	CurrentNo int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name
func (DocumentCounterModel) TableName() string {
	return "document_counters"
}
