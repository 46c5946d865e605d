package repository

import (
	"context"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"

	"gorm.io/gorm"
)

// NewPortfolioRepository creates a new GORM-based portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

// FindByID retrieves a portfolio by its ID.
func (r *portfolioRepository) FindByID(ctx context.Context, id uint) (*entity.Portfolio, error) {
	var portfolio entity.Portfolio
	if err := r.db.WithContext(ctx).First(&portfolio, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &portfolio, nil
}

// FindAll retrieves all portfolios.
func (r *portfolioRepository) FindAll(ctx context.Context) ([]entity.Portfolio, error) {
	var portfolios []entity.Portfolio
	if err := r.db.WithContext(ctx).Order("id").Find(&portfolios).Error; err != nil {
		return nil, err
	}
	return portfolios, nil
}

// Create creates a new portfolio in the database.
func (r *portfolioRepository) Create(ctx context.Context, portfolio *entity.Portfolio) error {
	return r.db.WithContext(ctx).Create(portfolio).Error
}

// Update saves every column of the portfolio.
func (r *portfolioRepository) Update(ctx context.Context, portfolio *entity.Portfolio) error {
	result := r.db.WithContext(ctx).Save(portfolio)
	if result.Error != nil {
		return result.Error
	}
	return nil
}
