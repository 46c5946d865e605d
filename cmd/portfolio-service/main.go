package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/config"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/delivery/consumer"
	delivery "github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/delivery/http"
	_ "github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/docs"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/repository/memory"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/service"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/common"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/metrics"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/postgres"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/quotecache"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/redis"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/telegram"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

const lastPriceTTL = 24 * time.Hour

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio dashboard service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Portfolio Service", logger.Field("name", cfg.App.Name), logger.Field("storage", cfg.Storage.Driver))

	// Repositories
	var repos *repository.Repositories
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			TimeZone:        cfg.Database.TimeZone,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			LogLevel:        cfg.Database.LogLevel,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			defer sqlDB.Close()
		}
		repos = repository.NewGormRepositories(db.DB)
	case "memory":
		repos = memory.NewRepositories(memory.NewStore())
	default:
		appLogger.Fatal("Invalid storage driver specified in config", logger.StringField("driver", cfg.Storage.Driver))
	}

	if cfg.Storage.Seed {
		if err := service.Seed(ctx, repos, appLogger); err != nil {
			appLogger.Fatal("Failed to seed demo data", logger.ErrorField(err))
		}
	}

	// Redis: event streams and last prices
	publisher := repository.NewNopEventPublisher()
	lastPrices := repository.NewNopLastPriceRepository()
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()

		publisher = repository.NewRedisEventPublisher(redisClient.Client, cfg.Redis.StreamMaxLen, appLogger)
		lastPrices = repository.NewRedisLastPriceRepository(redisClient.Client, lastPriceTTL)
	}

	m := metrics.New()
	cache := quotecache.New(cfg.QuoteCache.TTL, cfg.QuoteCache.CleanupInterval)
	tinkoffRepo := repository.NewTinkoffRepository(cfg, cache, m, appLogger)

	// Advisory provider
	var advisory service.AdvisoryProvider
	switch cfg.Advisory.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		aiRepo := repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		newsRepo := repository.NewNewsFeedRepository(cfg, appLogger)
		advisory = service.NewGeminiAdvisoryProvider(cfg, repos, newsRepo, aiRepo, appLogger)
	case "static":
		advisory = service.NewStaticAdvisoryProvider(repos)
	default:
		appLogger.Fatal("Invalid advisory provider specified in config", logger.StringField("provider", cfg.Advisory.Provider))
	}

	// Services
	aggregator := service.NewAggregator(repos)
	locker := service.NewPortfolioLocker()
	tradeSvc := service.NewTradeService(cfg, repos, service.NewLedger(repos, appLogger), aggregator, locker, publisher, m, appLogger)
	portfolioSvc := service.NewPortfolioService(repos, aggregator, locker, advisory, appLogger)
	historySvc := service.NewHistoryService(repos, tinkoffRepo, appLogger)
	stockSvc := service.NewStockService(repos, advisory, lastPrices, appLogger)
	refreshSvc := service.NewRefreshService(cfg, repos, tinkoffRepo, lastPrices, aggregator, locker, publisher, m, appLogger)

	if cfg.Refresh.Enabled {
		scheduler, err := service.NewRefreshScheduler(cfg, refreshSvc, appLogger)
		if err != nil {
			appLogger.Fatal("Invalid refresh schedule", logger.ErrorField(err))
		}
		utils.GoSafe(func() { scheduler.Start(ctx) })
	}

	// Telegram notifications
	if cfg.Telegram.BotToken != "" && redisClient != nil {
		notifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram client", logger.ErrorField(err))
		}
		redisConsumer := consumer.NewRedisConsumer(redisClient.Client, notifier, appLogger)
		for _, stream := range redisConsumer.Streams() {
			err := redisClient.XGroupCreateMkStream(ctx, stream, common.RedisStreamGroup, "0").Err()
			if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
				appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err), logger.StringField("stream", stream))
			}
		}
		redisConsumer.Start(ctx)
		defer redisConsumer.Stop()
	}

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(delivery.RequestID(), delivery.Metrics(m))

	apiV1 := e.Group("/api/v1")
	delivery.NewPortfolioHandler(portfolioSvc, tradeSvc, historySvc, appLogger).RegisterRoutes(apiV1.Group("/portfolios"))
	delivery.NewStockHandler(stockSvc, appLogger).RegisterRoutes(apiV1.Group("/stocks"))
	delivery.NewRefreshHandler(refreshSvc, appLogger).RegisterRoutes(apiV1.Group("/refresh"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title StockSentinel Portfolio API
// @version 1.0
// @description Portfolio dashboard over MOEX stocks: positions, trades, allocation, value history, price refresh and advisory data.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "portfolio-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-portfolio.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing portfolio-service CLI: %s\n", err)
		os.Exit(1)
	}
}
