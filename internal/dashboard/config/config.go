package config

import (
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/pkg/config"
)

// Storage selects the repository backend: "memory" or "postgres".
type Storage struct {
	Driver string `mapstructure:"driver"`
	Seed   bool   `mapstructure:"seed"`
}

// Tinkoff holds the configuration for the Tinkoff Invest REST API.
type Tinkoff struct {
	BaseURL             string        `mapstructure:"base_url"`
	Token               string        `mapstructure:"token"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// QuoteCache holds the TTL cache settings for outbound market-data requests.
type QuoteCache struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Refresh holds the price refresh settings.
type Refresh struct {
	TrackedTickers []string `mapstructure:"tracked_tickers"`
	CronExpression string   `mapstructure:"cron_expression"`
	Enabled        bool     `mapstructure:"enabled"`
	Timeout        string   `mapstructure:"timeout"`
}

// Portfolio holds trading rules.
// With RequireSufficientCash unset a buy may take available cash below zero.
type Portfolio struct {
	RequireSufficientCash bool `mapstructure:"require_sufficient_cash"`
	DefaultID             uint `mapstructure:"default_id"`
}

// Advisory selects the sentiment/recommendation provider: "static" or "gemini".
type Advisory struct {
	Provider        string        `mapstructure:"provider"`
	SentimentMaxAge time.Duration `mapstructure:"sentiment_max_age"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// NewsFeed holds the RSS source used for news headlines.
type NewsFeed struct {
	URLTemplate string        `mapstructure:"url_template"`
	MaxItems    int           `mapstructure:"max_items"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the portfolio service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Storage    Storage         `mapstructure:"storage"`
	Tinkoff    Tinkoff         `mapstructure:"tinkoff"`
	QuoteCache QuoteCache      `mapstructure:"quote_cache"`
	Refresh    Refresh         `mapstructure:"refresh"`
	Portfolio  Portfolio       `mapstructure:"portfolio"`
	Advisory   Advisory        `mapstructure:"advisory"`
	Gemini     Gemini          `mapstructure:"gemini"`
	NewsFeed   NewsFeed        `mapstructure:"news_feed"`
	Telegram   Telegram        `mapstructure:"telegram"`
}

// Load loads the portfolio service configuration from the given path and
// fills in defaults for values the file leaves empty.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Tinkoff.BaseURL == "" {
		c.Tinkoff.BaseURL = "https://invest-public-api.tinkoff.ru/rest"
	}
	if c.Tinkoff.Timeout == 0 {
		c.Tinkoff.Timeout = 10 * time.Second
	}
	if c.Tinkoff.MaxRequestPerMinute == 0 {
		c.Tinkoff.MaxRequestPerMinute = 300
	}
	if c.QuoteCache.TTL == 0 {
		c.QuoteCache.TTL = time.Minute
	}
	if c.QuoteCache.CleanupInterval == 0 {
		c.QuoteCache.CleanupInterval = 5 * time.Minute
	}
	if len(c.Refresh.TrackedTickers) == 0 {
		c.Refresh.TrackedTickers = []string{"SBER", "GAZP", "LKOH", "MGNT", "ROSN", "NVTK", "YNDX", "OZON"}
	}
	if c.Refresh.CronExpression == "" {
		c.Refresh.CronExpression = "*/5 * * * *"
	}
	if c.Refresh.Timeout == "" {
		c.Refresh.Timeout = "2m"
	}
	if c.Portfolio.DefaultID == 0 {
		c.Portfolio.DefaultID = 1
	}
	if c.Advisory.Provider == "" {
		c.Advisory.Provider = "static"
	}
	if c.Advisory.SentimentMaxAge == 0 {
		c.Advisory.SentimentMaxAge = 6 * time.Hour
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.MaxRequestPerMinute == 0 {
		c.Gemini.MaxRequestPerMinute = 10
	}
	if c.NewsFeed.MaxItems == 0 {
		c.NewsFeed.MaxItems = 10
	}
	if c.NewsFeed.Timeout == 0 {
		c.NewsFeed.Timeout = 10 * time.Second
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
}
