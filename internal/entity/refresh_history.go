package entity

import (
	"time"

	"gorm.io/datatypes"
)

// RefreshStatus is the outcome of a price refresh run.
type RefreshStatus string

const (
	RefreshStatusRunning   RefreshStatus = "RUNNING"
	RefreshStatusCompleted RefreshStatus = "COMPLETED"
	RefreshStatusFailed    RefreshStatus = "FAILED"
)

// RefreshHistory records one execution of the price refresh flow.
type RefreshHistory struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Trigger       string         `gorm:"type:varchar(16);not null" json:"trigger"`
	Status        RefreshStatus  `gorm:"type:varchar(16);not null" json:"status"`
	StocksUpdated int            `gorm:"not null" json:"stocks_updated"`
	StocksSkipped int            `gorm:"not null" json:"stocks_skipped"`
	ErrorMessage  string         `gorm:"type:text" json:"error_message,omitempty"`
	Result        datatypes.JSON `gorm:"type:jsonb" json:"result" swaggertype:"object"`
	StartedAt     time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

// TableName specifies the table name for the RefreshHistory model.
func (RefreshHistory) TableName() string {
	return "refresh_history"
}
