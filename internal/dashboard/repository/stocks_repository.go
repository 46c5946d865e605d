package repository

import (
	"context"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"gorm.io/gorm"
)

type stocksRepository struct {
	db *gorm.DB
}

// NewStocksRepository creates a new GORM-based stock repository.
func NewStocksRepository(db *gorm.DB) StockRepository {
	return &stocksRepository{db: db}
}

func (s *stocksRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var stock entity.Stock
	if err := s.db.WithContext(ctx).First(&stock, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

func (s *stocksRepository) FindByTicker(ctx context.Context, ticker string) (*entity.Stock, error) {
	var stock entity.Stock
	if err := s.db.WithContext(ctx).Where("ticker = ?", ticker).First(&stock).Error; err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

func (s *stocksRepository) FindAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).Order("id").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (s *stocksRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return s.db.WithContext(ctx).Create(stock).Error
}

func (s *stocksRepository) Update(ctx context.Context, stock *entity.Stock) error {
	return s.db.WithContext(ctx).Save(stock).Error
}
