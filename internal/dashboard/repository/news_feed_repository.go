package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/mmcdole/gofeed"
)

// NewsFeedRepository reads the latest headlines about a company from an RSS feed.
type NewsFeedRepository interface {
	Headlines(ctx context.Context, query string) ([]dto.NewsHeadline, error)
}

type newsFeedRepository struct {
	cfg    config.NewsFeed
	client *http.Client
	logger *logger.Logger
}

// NewNewsFeedRepository creates a feed reader. cfg.NewsFeed.URLTemplate must
// contain one %s verb that receives the escaped query.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	return &newsFeedRepository{
		cfg:    cfg.NewsFeed,
		client: &http.Client{Timeout: cfg.NewsFeed.Timeout},
		logger: log,
	}
}

// Headlines returns at most MaxItems items, newest first.
func (r *newsFeedRepository) Headlines(ctx context.Context, query string) ([]dto.NewsHeadline, error) {
	if r.cfg.URLTemplate == "" {
		return nil, fmt.Errorf("news feed url template not configured")
	}
	feedURL := fmt.Sprintf(r.cfg.URLTemplate, url.QueryEscape(query))

	fp := gofeed.NewParser()
	fp.Client = r.client
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("query", query))
		return nil, err
	}

	items := feed.Items
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].PublishedParsed == nil || items[j].PublishedParsed == nil {
			return items[j].PublishedParsed == nil && items[i].PublishedParsed != nil
		}
		return items[i].PublishedParsed.After(*items[j].PublishedParsed)
	})

	limit := r.cfg.MaxItems
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	headlines := make([]dto.NewsHeadline, 0, limit)
	for _, item := range items[:limit] {
		h := dto.NewsHeadline{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: item.PublishedParsed,
		}
		if item.Author != nil {
			h.Source = item.Author.Name
		}
		if h.Source == "" {
			h.Source = feed.Title
		}
		headlines = append(headlines, h)
	}

	r.logger.DebugContext(ctx, "News headlines fetched", logger.StringField("query", query), logger.IntField("count", len(headlines)))
	return headlines, nil
}
