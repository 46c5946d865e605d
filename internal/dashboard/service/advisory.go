package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/entity"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// AdvisoryProvider supplies the recommendation and sentiment panels.
// Ledger and aggregation never read from it.
type AdvisoryProvider interface {
	Recommendations(ctx context.Context, portfolioID uint) ([]entity.Recommendation, error)
	Sentiment(ctx context.Context, stock entity.Stock) (*entity.NewsSentiment, error)
}

// NewStaticAdvisoryProvider serves advisory data exactly as stored.
func NewStaticAdvisoryProvider(repos *repository.Repositories) AdvisoryProvider {
	return &staticAdvisoryProvider{
		recommendations: repos.Recommendations,
		sentiments:      repos.Sentiments,
	}
}

type staticAdvisoryProvider struct {
	recommendations repository.RecommendationRepository
	sentiments      repository.NewsSentimentRepository
}

func (p *staticAdvisoryProvider) Recommendations(ctx context.Context, portfolioID uint) ([]entity.Recommendation, error) {
	recs, err := p.recommendations.FindByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	return recs, nil
}

func (p *staticAdvisoryProvider) Sentiment(ctx context.Context, stock entity.Stock) (*entity.NewsSentiment, error) {
	sentiment, err := p.sentiments.FindByStock(ctx, stock.ID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperror.NotFound("sentiment", stock.Ticker)
		}
		return nil, fmt.Errorf("failed to load sentiment: %w", err)
	}
	return sentiment, nil
}

// NewGeminiAdvisoryProvider scores stale sentiment from fresh news headlines
// and stores the result. Recommendations are served from the repository.
func NewGeminiAdvisoryProvider(cfg *config.Config, repos *repository.Repositories, news repository.NewsFeedRepository, ai repository.AIRepository, log *logger.Logger) AdvisoryProvider {
	return &geminiAdvisoryProvider{
		static:     &staticAdvisoryProvider{recommendations: repos.Recommendations, sentiments: repos.Sentiments},
		sentiments: repos.Sentiments,
		news:       news,
		ai:         ai,
		maxAge:     cfg.Advisory.SentimentMaxAge,
		logger:     log,
		now:        time.Now,
	}
}

type geminiAdvisoryProvider struct {
	static     *staticAdvisoryProvider
	sentiments repository.NewsSentimentRepository
	news       repository.NewsFeedRepository
	ai         repository.AIRepository
	maxAge     time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

func (p *geminiAdvisoryProvider) Recommendations(ctx context.Context, portfolioID uint) ([]entity.Recommendation, error) {
	return p.static.Recommendations(ctx, portfolioID)
}

// Sentiment returns the stored score when it is younger than maxAge, otherwise
// it asks the model. A failed analysis falls back to whatever is stored.
func (p *geminiAdvisoryProvider) Sentiment(ctx context.Context, stock entity.Stock) (*entity.NewsSentiment, error) {
	stored, err := p.sentiments.FindByStock(ctx, stock.ID)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load sentiment: %w", err)
	}
	if stored != nil && p.now().Sub(stored.UpdatedAt) < p.maxAge {
		return stored, nil
	}

	fresh, err := p.analyze(ctx, stock, stored)
	if err != nil {
		p.logger.WarnContext(ctx, "Sentiment analysis failed, serving stored data",
			logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
		if stored == nil {
			return nil, apperror.NotFound("sentiment", stock.Ticker)
		}
		return stored, nil
	}
	return fresh, nil
}

func (p *geminiAdvisoryProvider) analyze(ctx context.Context, stock entity.Stock, stored *entity.NewsSentiment) (*entity.NewsSentiment, error) {
	headlines, err := p.news.Headlines(ctx, stock.Name+" акции")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch headlines: %w", err)
	}

	result, err := p.ai.AnalyzeSentiment(ctx, stock, headlines)
	if err != nil {
		return nil, err
	}
	score, err := sentimentScore(result.Sentiment)
	if err != nil {
		return nil, err
	}

	sentiment := entity.NewsSentiment{StockID: stock.ID}
	if stored != nil {
		sentiment = *stored
	}
	sentiment.Sentiment = score
	sentiment.BullishPoints = pq.StringArray(result.BullishPoints)
	sentiment.BearishPoints = pq.StringArray(result.BearishPoints)

	if stored == nil {
		err = p.sentiments.Create(ctx, &sentiment)
	} else {
		err = p.sentiments.Update(ctx, &sentiment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store sentiment: %w", err)
	}

	p.logger.InfoContext(ctx, "Sentiment updated",
		logger.StringField("ticker", stock.Ticker),
		logger.StringField("sentiment", sentiment.Sentiment.String()),
		logger.IntField("headlines", len(headlines)))
	return &sentiment, nil
}

var (
	minSentiment = decimal.Zero
	maxSentiment = decimal.NewFromInt(100)
)

// sentimentScore converts a model score to the stored 0-100 scale, clamping
// out-of-range values.
func sentimentScore(raw float64) (decimal.Decimal, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return decimal.Zero, fmt.Errorf("invalid sentiment score %v", raw)
	}
	score := decimal.NewFromFloat(raw).Round(percentPlaces)
	if score.LessThan(minSentiment) {
		return minSentiment, nil
	}
	if score.GreaterThan(maxSentiment) {
		return maxSentiment, nil
	}
	return score, nil
}
