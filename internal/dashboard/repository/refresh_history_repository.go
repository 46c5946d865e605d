package repository

import (
	"context"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"gorm.io/gorm"
)

// NewRefreshHistoryRepository creates a new GORM-based refresh history repository.
func NewRefreshHistoryRepository(db *gorm.DB) RefreshHistoryRepository {
	return &refreshHistoryRepository{db: db}
}

type refreshHistoryRepository struct {
	db *gorm.DB
}

// Create creates a new refresh history record.
func (r *refreshHistoryRepository) Create(ctx context.Context, history *entity.RefreshHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// Update updates an existing refresh history record.
func (r *refreshHistoryRepository) Update(ctx context.Context, history *entity.RefreshHistory) error {
	return r.db.WithContext(ctx).Save(history).Error
}

// FindRecent returns the latest runs, newest first.
func (r *refreshHistoryRepository) FindRecent(ctx context.Context, limit int) ([]entity.RefreshHistory, error) {
	var histories []entity.RefreshHistory
	if err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}
