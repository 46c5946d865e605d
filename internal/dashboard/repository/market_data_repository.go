package repository

import (
	"context"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"gorm.io/gorm"
)

type marketDataRepository struct {
	db *gorm.DB
}

// NewMarketDataRepository creates a new GORM-based market data repository.
func NewMarketDataRepository(db *gorm.DB) MarketDataRepository {
	return &marketDataRepository{db: db}
}

func (r *marketDataRepository) Create(ctx context.Context, data *entity.MarketData) error {
	return r.db.WithContext(ctx).Create(data).Error
}

func (r *marketDataRepository) FindSince(ctx context.Context, stockID uint, since time.Time) ([]entity.MarketData, error) {
	var rows []entity.MarketData
	err := r.db.WithContext(ctx).
		Where("stock_id = ? AND timestamp >= ?", stockID, since).
		Order("timestamp").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
