package memory

import (
	"context"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
)

var (
	_ repository.PortfolioRepository      = (*portfolioRepository)(nil)
	_ repository.StockRepository          = (*stockRepository)(nil)
	_ repository.PositionRepository       = (*positionRepository)(nil)
	_ repository.RecommendationRepository = (*recommendationRepository)(nil)
	_ repository.NewsSentimentRepository  = (*newsSentimentRepository)(nil)
	_ repository.MarketDataRepository     = (*marketDataRepository)(nil)
	_ repository.RefreshHistoryRepository = (*refreshHistoryRepository)(nil)
)

type portfolioRepository struct {
	store *Store
}

func (r *portfolioRepository) FindByID(_ context.Context, id uint) (*entity.Portfolio, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.portfolios[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &p, nil
}

func (r *portfolioRepository) FindAll(_ context.Context) ([]entity.Portfolio, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return sortedByID(r.store.portfolios, nil), nil
}

func (r *portfolioRepository) Create(_ context.Context, portfolio *entity.Portfolio) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	portfolio.ID = r.store.assignID(KindPortfolio, portfolio.ID)
	portfolio.UpdatedAt = r.store.now()
	r.store.portfolios[portfolio.ID] = *portfolio
	return nil
}

func (r *portfolioRepository) Update(_ context.Context, portfolio *entity.Portfolio) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.portfolios[portfolio.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	portfolio.UpdatedAt = r.store.now()
	r.store.portfolios[portfolio.ID] = *portfolio
	return nil
}

type stockRepository struct {
	store *Store
}

func (r *stockRepository) FindByID(_ context.Context, id uint) (*entity.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.stocks[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	s = cloneStock(s)
	return &s, nil
}

func (r *stockRepository) FindByTicker(_ context.Context, ticker string) (*entity.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.stocks {
		if s.Ticker == ticker {
			s = cloneStock(s)
			return &s, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *stockRepository) FindAll(_ context.Context) ([]entity.Stock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stocks := sortedByID(r.store.stocks, nil)
	for i := range stocks {
		stocks[i] = cloneStock(stocks[i])
	}
	return stocks, nil
}

func (r *stockRepository) Create(_ context.Context, stock *entity.Stock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stock.ID = r.store.assignID(KindStock, stock.ID)
	stock.UpdatedAt = r.store.now()
	r.store.stocks[stock.ID] = cloneStock(*stock)
	return nil
}

func (r *stockRepository) Update(_ context.Context, stock *entity.Stock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.stocks[stock.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	stock.UpdatedAt = r.store.now()
	r.store.stocks[stock.ID] = cloneStock(*stock)
	return nil
}

type positionRepository struct {
	store *Store
}

func (r *positionRepository) FindByID(_ context.Context, id uint) (*entity.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.positions[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	p = clonePosition(p)
	return &p, nil
}

func (r *positionRepository) FindByPortfolioAndStock(_ context.Context, portfolioID, stockID uint) (*entity.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matches := sortedByID(r.store.positions, func(p entity.Position) bool {
		return p.PortfolioID == portfolioID && p.StockID == stockID
	})
	if len(matches) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	p := clonePosition(matches[0])
	return &p, nil
}

func (r *positionRepository) FindOpenByPortfolio(_ context.Context, portfolioID uint) ([]entity.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	positions := sortedByID(r.store.positions, func(p entity.Position) bool {
		return p.PortfolioID == portfolioID && p.IsOpen()
	})
	for i := range positions {
		positions[i] = clonePosition(positions[i])
	}
	return positions, nil
}

func (r *positionRepository) Create(_ context.Context, position *entity.Position) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	position.ID = r.store.assignID(KindPosition, position.ID)
	position.UpdatedAt = r.store.now()
	r.store.positions[position.ID] = clonePosition(*position)
	return nil
}

func (r *positionRepository) Update(_ context.Context, position *entity.Position) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.positions[position.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	position.UpdatedAt = r.store.now()
	r.store.positions[position.ID] = clonePosition(*position)
	return nil
}

type recommendationRepository struct {
	store *Store
}

func (r *recommendationRepository) FindByPortfolio(_ context.Context, portfolioID uint) ([]entity.Recommendation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	recs := sortedByID(r.store.recommendations, func(rec entity.Recommendation) bool {
		return rec.PortfolioID == portfolioID
	})
	for i := range recs {
		recs[i] = cloneRecommendation(recs[i])
	}
	return recs, nil
}

func (r *recommendationRepository) Create(_ context.Context, recommendation *entity.Recommendation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recommendation.ID = r.store.assignID(KindRecommendation, recommendation.ID)
	if recommendation.CreatedAt.IsZero() {
		recommendation.CreatedAt = r.store.now()
	}
	r.store.recommendations[recommendation.ID] = cloneRecommendation(*recommendation)
	return nil
}

func (r *recommendationRepository) Update(_ context.Context, recommendation *entity.Recommendation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.recommendations[recommendation.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	r.store.recommendations[recommendation.ID] = cloneRecommendation(*recommendation)
	return nil
}

type newsSentimentRepository struct {
	store *Store
}

func (r *newsSentimentRepository) FindByStock(_ context.Context, stockID uint) (*entity.NewsSentiment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, n := range r.store.sentiments {
		if n.StockID == stockID {
			n = cloneSentiment(n)
			return &n, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (r *newsSentimentRepository) Create(_ context.Context, sentiment *entity.NewsSentiment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sentiment.ID = r.store.assignID(KindNewsSentiment, sentiment.ID)
	sentiment.UpdatedAt = r.store.now()
	r.store.sentiments[sentiment.ID] = cloneSentiment(*sentiment)
	return nil
}

func (r *newsSentimentRepository) Update(_ context.Context, sentiment *entity.NewsSentiment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sentiments[sentiment.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	sentiment.UpdatedAt = r.store.now()
	r.store.sentiments[sentiment.ID] = cloneSentiment(*sentiment)
	return nil
}

type marketDataRepository struct {
	store *Store
}

func (r *marketDataRepository) Create(_ context.Context, data *entity.MarketData) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data.ID = r.store.assignID(KindMarketData, data.ID)
	r.store.marketData[data.ID] = *data
	return nil
}

func (r *marketDataRepository) FindSince(_ context.Context, stockID uint, since time.Time) ([]entity.MarketData, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := sortedByID(r.store.marketData, func(m entity.MarketData) bool {
		return m.StockID == stockID && !m.Timestamp.Before(since)
	})
	return rows, nil
}

type refreshHistoryRepository struct {
	store *Store
}

func (r *refreshHistoryRepository) Create(_ context.Context, history *entity.RefreshHistory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	history.ID = r.store.assignID(KindRefreshHistory, history.ID)
	r.store.refreshHistory[history.ID] = cloneRefreshHistory(*history)
	return nil
}

func (r *refreshHistoryRepository) Update(_ context.Context, history *entity.RefreshHistory) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.refreshHistory[history.ID]; !ok {
		return repository.ErrRecordNotFound
	}
	r.store.refreshHistory[history.ID] = cloneRefreshHistory(*history)
	return nil
}

// FindRecent returns the latest runs, newest first.
func (r *refreshHistoryRepository) FindRecent(_ context.Context, limit int) ([]entity.RefreshHistory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := sortedByID(r.store.refreshHistory, nil)
	out := make([]entity.RefreshHistory, 0, len(rows))
	for i := len(rows) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, cloneRefreshHistory(rows[i]))
	}
	return out, nil
}
