package dto

import (
	"encoding/json"
	"time"
)

// Refresh triggers.
const (
	RefreshTriggerManual    = "manual"
	RefreshTriggerScheduled = "scheduled"
)

// SkippedStock is a stock left untouched by a refresh and the reason why.
type SkippedStock struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// RefreshResult is stored as the result of a refresh run and returned by the API.
type RefreshResult struct {
	HistoryID          uint           `json:"history_id"`
	Trigger            string         `json:"trigger"`
	Status             string         `json:"status"`
	Updated            []string       `json:"updated"`
	Skipped            []SkippedStock `json:"skipped"`
	PortfoliosRevalued int            `json:"portfolios_revalued"`
	StartedAt          time.Time      `json:"started_at"`
	CompletedAt        time.Time      `json:"completed_at"`
}

// RefreshHistoryResponse is one past refresh run.
type RefreshHistoryResponse struct {
	ID            uint            `json:"id"`
	Trigger       string          `json:"trigger"`
	Status        string          `json:"status"`
	StocksUpdated int             `json:"stocks_updated"`
	StocksSkipped int             `json:"stocks_skipped"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	Result        json.RawMessage `json:"result,omitempty" swaggertype:"object"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}
