package http

import (
	"net/http"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/service"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for stocks.
type StockHandler struct {
	stockService service.StockService
	logger       *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService service.StockService, logger *logger.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListStocks)
	g.GET("/:ticker/sentiment", h.GetSentiment)
	g.GET("/:ticker/last-price", h.GetLastPrice)
}

// ListStocks godoc
// @Summary List stocks
// @Description All known stocks with their latest prices
// @Tags stocks
// @Produce  json
// @Success 200 {array} dto.StockResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) ListStocks(c echo.Context) error {
	stocks, err := h.stockService.ListStocks(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, "Failed to list stocks", err)
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetSentiment godoc
// @Summary Get stock sentiment
// @Description News sentiment of a stock on a 0-100 scale with bullish and bearish points
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string true    "Ticker, case-insensitive"
// @Success 200 {object} dto.SentimentResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/sentiment [get]
func (h *StockHandler) GetSentiment(c echo.Context) error {
	resp, err := h.stockService.Sentiment(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return respondError(c, h.logger, "Failed to get sentiment", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetLastPrice godoc
// @Summary Get last refreshed price
// @Description The price stored by the most recent refresh
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string true    "Ticker, case-insensitive"
// @Success 200 {object} dto.LastPriceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/last-price [get]
func (h *StockHandler) GetLastPrice(c echo.Context) error {
	resp, err := h.stockService.LastPrice(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return respondError(c, h.logger, "Failed to get last price", err)
	}
	return c.JSON(http.StatusOK, resp)
}
