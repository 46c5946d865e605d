package repository

import (
	"errors"

	"gorm.io/gorm"
)

// NewGormRepositories wires every repository to the given gorm handle.
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Portfolios:      NewPortfolioRepository(db),
		Stocks:          NewStocksRepository(db),
		Positions:       NewPositionsRepository(db),
		Recommendations: NewRecommendationRepository(db),
		Sentiments:      NewNewsSentimentRepository(db),
		MarketData:      NewMarketDataRepository(db),
		RefreshHistory:  NewRefreshHistoryRepository(db),
	}
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
