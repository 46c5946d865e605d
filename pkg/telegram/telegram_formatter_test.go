package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
)

func TestFormatTradeExecuted(t *testing.T) {
	msg := FormatTradeExecuted(dto.TradeExecutedEvent{
		Side:             dto.TradeSideBuy,
		Ticker:           "SBER",
		Quantity:         50,
		Price:            decimal.RequireFromString("280"),
		PositionQuantity: 150,
		AveragePrice:     decimal.RequireFromString("260"),
		AvailableCash:    decimal.RequireFromString("61000"),
		TotalValue:       decimal.RequireFromString("100825"),
		ExecutedAt:       time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC),
	})

	assert.Contains(t, msg, "Покупка SBER")
	assert.Contains(t, msg, "280.00 ₽")
	assert.Contains(t, msg, "150 шт. по средней 260.00 ₽")
	assert.Contains(t, msg, "06.05.2024 12:30")
}

func TestFormatTradeExecuted_ClosedPosition(t *testing.T) {
	msg := FormatTradeExecuted(dto.TradeExecutedEvent{Side: dto.TradeSideSell, Ticker: "MGNT", Quantity: 2})

	assert.Contains(t, msg, "Продажа MGNT")
	assert.Contains(t, msg, "Позиция закрыта")
}

func TestFormatRefreshCompleted(t *testing.T) {
	ok := FormatRefreshCompleted(dto.RefreshCompletedEvent{
		HistoryID: 3, Trigger: "scheduled", Status: "COMPLETED",
		StocksUpdated: 3, StocksSkipped: 1, Skipped: []string{"LKOH"},
	})
	assert.Contains(t, ok, "Обновлено:* 3")
	assert.Contains(t, ok, "(LKOH)")

	failed := FormatRefreshCompleted(dto.RefreshCompletedEvent{HistoryID: 4, Status: "FAILED", ErrorMessage: "upstream unavailable"})
	assert.Contains(t, failed, "не удалось")
	assert.Contains(t, failed, "upstream unavailable")
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	text := strings.Repeat("abcd\n", 5)
	parts := SplitMessage(text, 10)
	assert.Equal(t, []string{"abcd\nabcd\n", "abcd\nabcd\n", "abcd\n"}, parts)
	assert.Equal(t, text, strings.Join(parts, ""))

	long := SplitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, long)
}
