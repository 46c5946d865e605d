package repository

import (
	"context"
	"errors"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

// ErrRecordNotFound is returned by every repository when a keyed lookup misses.
var ErrRecordNotFound = errors.New("record not found")

// PortfolioRepository defines the storage operations for portfolios.
type PortfolioRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Portfolio, error)
	FindAll(ctx context.Context) ([]entity.Portfolio, error)
	Create(ctx context.Context, portfolio *entity.Portfolio) error
	Update(ctx context.Context, portfolio *entity.Portfolio) error
}

// StockRepository defines the storage operations for stocks.
type StockRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)
	FindByTicker(ctx context.Context, ticker string) (*entity.Stock, error)
	FindAll(ctx context.Context) ([]entity.Stock, error)
	Create(ctx context.Context, stock *entity.Stock) error
	Update(ctx context.Context, stock *entity.Stock) error
}

// PositionRepository defines the storage operations for positions.
type PositionRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Position, error)
	// FindByPortfolioAndStock returns the position record for the pair,
	// open or soft-closed.
	FindByPortfolioAndStock(ctx context.Context, portfolioID, stockID uint) (*entity.Position, error)
	// FindOpenByPortfolio returns the positions that still hold shares.
	FindOpenByPortfolio(ctx context.Context, portfolioID uint) ([]entity.Position, error)
	Create(ctx context.Context, position *entity.Position) error
	Update(ctx context.Context, position *entity.Position) error
}

// RecommendationRepository defines the storage operations for recommendations.
type RecommendationRepository interface {
	FindByPortfolio(ctx context.Context, portfolioID uint) ([]entity.Recommendation, error)
	Create(ctx context.Context, recommendation *entity.Recommendation) error
	Update(ctx context.Context, recommendation *entity.Recommendation) error
}

// NewsSentimentRepository defines the storage operations for news sentiment.
type NewsSentimentRepository interface {
	FindByStock(ctx context.Context, stockID uint) (*entity.NewsSentiment, error)
	Create(ctx context.Context, sentiment *entity.NewsSentiment) error
	Update(ctx context.Context, sentiment *entity.NewsSentiment) error
}

// MarketDataRepository defines the storage operations for recorded prices.
type MarketDataRepository interface {
	Create(ctx context.Context, data *entity.MarketData) error
	FindSince(ctx context.Context, stockID uint, since time.Time) ([]entity.MarketData, error)
}

// RefreshHistoryRepository defines the storage operations for refresh runs.
type RefreshHistoryRepository interface {
	Create(ctx context.Context, history *entity.RefreshHistory) error
	Update(ctx context.Context, history *entity.RefreshHistory) error
	FindRecent(ctx context.Context, limit int) ([]entity.RefreshHistory, error)
}

// Repositories bundles the storage collaborators of the dashboard so the
// backend can be swapped in one place.
type Repositories struct {
	Portfolios      PortfolioRepository
	Stocks          StockRepository
	Positions       PositionRepository
	Recommendations RecommendationRepository
	Sentiments      NewsSentimentRepository
	MarketData      MarketDataRepository
	RefreshHistory  RefreshHistoryRepository
}
