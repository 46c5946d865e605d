package telegram

import (
	"fmt"
	"strings"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/utils"
)

// MaxMessageLength keeps a message under the 4096 character Telegram limit.
const MaxMessageLength = 4090

// FormatTradeExecuted formats a trade event into a Markdown message.
func FormatTradeExecuted(e dto.TradeExecutedEvent) string {
	var builder strings.Builder

	icon, action := "🟢", "Покупка"
	if e.Side == dto.TradeSideSell {
		icon, action = "🔴", "Продажа"
	}

	builder.WriteString(fmt.Sprintf("%s *%s %s*\n\n", icon, action, e.Ticker))
	builder.WriteString(fmt.Sprintf("📦 *Количество:* %d\n", e.Quantity))
	builder.WriteString(fmt.Sprintf("💵 *Цена:* %s ₽\n", e.Price.StringFixed(2)))
	if e.PositionQuantity > 0 {
		builder.WriteString(fmt.Sprintf("📊 *Позиция:* %d шт. по средней %s ₽\n", e.PositionQuantity, e.AveragePrice.StringFixed(2)))
	} else {
		builder.WriteString("📊 *Позиция закрыта*\n")
	}
	builder.WriteString(fmt.Sprintf("💰 *Свободные средства:* %s ₽\n", e.AvailableCash.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("🏦 *Стоимость портфеля:* %s ₽\n", e.TotalValue.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("\n🕒 %s", e.ExecutedAt.In(utils.GetMskTimeLocation()).Format("02.01.2006 15:04 MST")))

	return builder.String()
}

// FormatRefreshCompleted formats the outcome of a price refresh into a Markdown message.
func FormatRefreshCompleted(e dto.RefreshCompletedEvent) string {
	var builder strings.Builder

	if e.Status == "FAILED" {
		builder.WriteString("⚠️ *Обновление котировок не удалось*\n\n")
		if e.ErrorMessage != "" {
			builder.WriteString(fmt.Sprintf("_%s_\n", e.ErrorMessage))
		}
	} else {
		builder.WriteString("🔄 *Котировки обновлены*\n\n")
		builder.WriteString(fmt.Sprintf("✅ *Обновлено:* %d\n", e.StocksUpdated))
		if e.StocksSkipped > 0 {
			builder.WriteString(fmt.Sprintf("⏭ *Пропущено:* %d (%s)\n", e.StocksSkipped, strings.Join(e.Skipped, ", ")))
		}
	}
	builder.WriteString(fmt.Sprintf("\n🏷 Запуск #%d, %s", e.HistoryID, e.Trigger))

	return builder.String()
}

// SplitMessage breaks text at line boundaries into parts of at most maxLen bytes.
// A single line longer than maxLen is cut.
func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > maxLen {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			parts = append(parts, line[:maxLen])
			line = line[maxLen:]
		}
		if current.Len()+len(line) > maxLen {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
