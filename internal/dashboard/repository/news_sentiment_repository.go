package repository

import (
	"context"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"gorm.io/gorm"
)

// NewNewsSentimentRepository creates a new instance of NewsSentimentRepository.
func NewNewsSentimentRepository(db *gorm.DB) NewsSentimentRepository {
	return &newsSentimentRepository{
		db: db,
	}
}

type newsSentimentRepository struct {
	db *gorm.DB
}

// FindByStock returns the sentiment stored for the stock.
func (r *newsSentimentRepository) FindByStock(ctx context.Context, stockID uint) (*entity.NewsSentiment, error) {
	var sentiment entity.NewsSentiment
	result := r.db.WithContext(ctx).Where("stock_id = ?", stockID).First(&sentiment)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	return &sentiment, nil
}

// Create saves a new sentiment record to the database.
func (r *newsSentimentRepository) Create(ctx context.Context, sentiment *entity.NewsSentiment) error {
	return r.db.WithContext(ctx).Create(sentiment).Error
}

func (r *newsSentimentRepository) Update(ctx context.Context, sentiment *entity.NewsSentiment) error {
	return r.db.WithContext(ctx).Save(sentiment).Error
}
