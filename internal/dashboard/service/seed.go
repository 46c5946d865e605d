package service

import (
	"context"
	"fmt"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/utils"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type seedStock struct {
	ticker, name, figi, sector string
	lot                        int
	current, previous          string
}

type seedPosition struct {
	ticker         string
	quantity       int64
	averagePrice   string
	recommendation string
}

var (
	demoStocks = []seedStock{
		{ticker: "SBER", name: "Сбербанк", figi: "BBG004730N88", sector: "Финансы", lot: 10, current: "265.50", previous: "260.00"},
		{ticker: "LKOH", name: "Лукойл", figi: "BBG004731354", sector: "Нефть и газ", lot: 1, current: "6420.00", previous: "6350.00"},
		{ticker: "MGNT", name: "Магнит", figi: "BBG004730RP0", sector: "Потребительские товары", lot: 10, current: "5680.00", previous: "5720.00"},
		{ticker: "GAZP", name: "Газпром", figi: "BBG004730ZJ9", sector: "Нефть и газ", lot: 10, current: "128.50", previous: "126.00"},
	}

	demoPositions = []seedPosition{
		{ticker: "SBER", quantity: 174, averagePrice: "250.00", recommendation: entity.PositionRecommendationBuy},
		{ticker: "LKOH", quantity: 3, averagePrice: "6300.00", recommendation: entity.PositionRecommendationHold},
		{ticker: "MGNT", quantity: 2, averagePrice: "5800.00", recommendation: entity.PositionRecommendationPartialSell},
		{ticker: "GAZP", quantity: 10, averagePrice: "125.00", recommendation: entity.PositionRecommendationHold},
	}
)

// Seed loads the demo data set into an empty store. It does nothing when any
// stock already exists.
func Seed(ctx context.Context, repos *repository.Repositories, log *logger.Logger) error {
	existing, err := repos.Stocks.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check stocks: %w", err)
	}
	if len(existing) > 0 {
		log.Info("Store already has data, skipping seed", logger.IntField("stocks", len(existing)))
		return nil
	}

	stocks := make(map[string]entity.Stock, len(demoStocks))
	for _, s := range demoStocks {
		current := decimal.RequireFromString(s.current)
		previous := decimal.RequireFromString(s.previous)
		stock := entity.Stock{
			Ticker:        s.ticker,
			Name:          s.name,
			FIGI:          s.figi,
			Currency:      "RUB",
			Lot:           s.lot,
			CurrentPrice:  current,
			PreviousPrice: previous,
			ChangePercent: changePercent(current, previous),
			Sector:        utils.ToPointer(s.sector),
		}
		if err := repos.Stocks.Create(ctx, &stock); err != nil {
			return fmt.Errorf("failed to seed stock %s: %w", s.ticker, err)
		}
		stocks[s.ticker] = stock
	}

	portfolio := entity.Portfolio{
		UserID:        1,
		Name:          "Основной портфель",
		AvailableCash: decimal.RequireFromString("15332.00"),
		RiskProfile:   "Умеренный",
		Budget:        decimal.RequireFromString("110000.00"),
	}
	if err := repos.Portfolios.Create(ctx, &portfolio); err != nil {
		return fmt.Errorf("failed to seed portfolio: %w", err)
	}

	positions := make([]entity.Position, 0, len(demoPositions))
	for _, p := range demoPositions {
		stock := stocks[p.ticker]
		position := entity.Position{
			PortfolioID:    portfolio.ID,
			StockID:        stock.ID,
			Quantity:       p.quantity,
			AveragePrice:   decimal.RequireFromString(p.averagePrice),
			Recommendation: p.recommendation,
		}
		Revalue(&position, stock.CurrentPrice)
		if err := repos.Positions.Create(ctx, &position); err != nil {
			return fmt.Errorf("failed to seed position %s: %w", p.ticker, err)
		}
		positions = append(positions, position)
	}

	Aggregate(&portfolio, positions)
	if err := repos.Portfolios.Update(ctx, &portfolio); err != nil {
		return fmt.Errorf("failed to aggregate seeded portfolio: %w", err)
	}

	sber, mgnt := stocks["SBER"].ID, stocks["MGNT"].ID
	recommendations := []entity.Recommendation{
		{
			PortfolioID: portfolio.ID,
			StockID:     &sber,
			Type:        entity.RecommendationTypeBuy,
			Title:       "Увеличить позицию в SBER",
			Description: "Сбербанк показывает стабильный рост. Рекомендуется докупить на текущих уровнях.",
			TargetPrice: decimal.NewNullDecimal(decimal.RequireFromString("285.00")),
			RiskLevel:   "LOW",
			Potential:   "+8-12%",
		},
		{
			PortfolioID: portfolio.ID,
			StockID:     &mgnt,
			Type:        entity.RecommendationTypeSell,
			Title:       "Зафиксировать прибыль MGNT",
			Description: "Магнит достиг целевых уровней. Рекомендуется частичная фиксация прибыли.",
			RiskLevel:   "MEDIUM",
			Potential:   "Фиксация: +15%",
		},
	}
	for i := range recommendations {
		if err := repos.Recommendations.Create(ctx, &recommendations[i]); err != nil {
			return fmt.Errorf("failed to seed recommendation: %w", err)
		}
	}

	sentiments := []entity.NewsSentiment{
		{
			StockID:       stocks["SBER"].ID,
			Sentiment:     decimal.RequireFromString("75.00"),
			BullishPoints: pq.StringArray{"Рост кредитного портфеля на 12% г/г", "Увеличение дивидендных выплат"},
			BearishPoints: pq.StringArray{"Возможное ужесточение регулирования"},
		},
		{
			StockID:       stocks["GAZP"].ID,
			Sentiment:     decimal.RequireFromString("45.00"),
			BullishPoints: pq.StringArray{"Высокие цены на газ в Европе"},
			BearishPoints: pq.StringArray{"Геополитические риски", "Снижение экспортных объёмов"},
		},
	}
	for i := range sentiments {
		if err := repos.Sentiments.Create(ctx, &sentiments[i]); err != nil {
			return fmt.Errorf("failed to seed sentiment: %w", err)
		}
	}

	log.Info("Demo data seeded",
		logger.Field("portfolio_id", portfolio.ID),
		logger.IntField("stocks", len(stocks)),
		logger.IntField("positions", len(positions)),
		logger.StringField("total_value", portfolio.TotalValue.String()))
	return nil
}
