package repository

import (
	"context"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"gorm.io/gorm"
)

// NewRecommendationRepository creates a new GORM-based recommendation repository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

type recommendationRepository struct {
	db *gorm.DB
}

func (r *recommendationRepository) FindByPortfolio(ctx context.Context, portfolioID uint) ([]entity.Recommendation, error) {
	var recommendations []entity.Recommendation
	if err := r.db.WithContext(ctx).Where("portfolio_id = ?", portfolioID).Order("id").Find(&recommendations).Error; err != nil {
		return nil, err
	}
	return recommendations, nil
}

func (r *recommendationRepository) Create(ctx context.Context, recommendation *entity.Recommendation) error {
	return r.db.WithContext(ctx).Create(recommendation).Error
}

func (r *recommendationRepository) Update(ctx context.Context, recommendation *entity.Recommendation) error {
	return r.db.WithContext(ctx).Save(recommendation).Error
}
