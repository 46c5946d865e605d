package repository

import (
	"fmt"
	"strings"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

// BuildSentimentPrompt asks for a 0-100 news sentiment score with short
// bullish and bearish arguments, in Russian.
func BuildSentimentPrompt(stock entity.Stock, headlines []dto.NewsHeadline) string {
	var newsBuilder strings.Builder
	for i, h := range headlines {
		published := "N/A"
		if h.PublishedAt != nil {
			published = h.PublishedAt.Format("2006-01-02 15:04")
		}
		newsBuilder.WriteString(fmt.Sprintf("%d. %s (%s, %s)\n", i+1, h.Title, h.Source, published))
	}

	promptTemplate := `Ты аналитик российского фондового рынка. Ниже последние новости по акции %s (%s):

%s
Оцени общий новостной фон для акции и ответь строго в формате JSON:

{
  "sentiment": {число от 0 до 100, где 0 крайне негативно, 50 нейтрально, 100 крайне позитивно},
  "bullish_points": ["{до 3 коротких позитивных факторов}"],
  "bearish_points": ["{до 3 коротких негативных факторов}"]
}`

	return fmt.Sprintf(promptTemplate, stock.Ticker, stock.Name, newsBuilder.String())
}
