package repository

import (
	"context"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"gorm.io/gorm"
)

type positionsRepository struct {
	db *gorm.DB
}

// NewPositionsRepository creates a new GORM-based position repository.
func NewPositionsRepository(db *gorm.DB) PositionRepository {
	return &positionsRepository{
		db: db,
	}
}

func (r *positionsRepository) FindByID(ctx context.Context, id uint) (*entity.Position, error) {
	var position entity.Position
	if err := r.db.WithContext(ctx).First(&position, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &position, nil
}

func (r *positionsRepository) FindByPortfolioAndStock(ctx context.Context, portfolioID, stockID uint) (*entity.Position, error) {
	var position entity.Position
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND stock_id = ?", portfolioID, stockID).
		Order("id").
		First(&position).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &position, nil
}

func (r *positionsRepository) FindOpenByPortfolio(ctx context.Context, portfolioID uint) ([]entity.Position, error) {
	var positions []entity.Position
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND closed_at IS NULL AND quantity > 0", portfolioID).
		Order("id").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionsRepository) Create(ctx context.Context, position *entity.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

// Update saves every column so that a reopened position clears closed_at.
func (r *positionsRepository) Update(ctx context.Context, position *entity.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}
