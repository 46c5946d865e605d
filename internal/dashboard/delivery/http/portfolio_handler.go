package http

import (
	"net/http"
	"strconv"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/service"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for portfolios and trades.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	tradeService     service.TradeService
	historyService   service.HistoryService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, tradeService service.TradeService, historyService service.HistoryService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
		tradeService:     tradeService,
		historyService:   historyService,
		logger:           logger,
	}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id", h.GetPortfolio)
	g.PATCH("/:id", h.UpdatePortfolio)
	g.GET("/:id/allocation", h.GetAllocation)
	g.GET("/:id/history", h.GetHistory)
	g.GET("/:id/recommendations", h.GetRecommendations)
	g.POST("/:id/buy", h.Buy)
	g.POST("/:id/sell", h.Sell)
}

func portfolioID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// GetPortfolio godoc
// @Summary Get a portfolio
// @Description Get a portfolio snapshot with its open positions and their stocks
// @Tags portfolios
// @Produce  json
// @Param   id  path    int true    "Portfolio ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	id, ok := portfolioID(c)
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}

	resp, err := h.portfolioService.GetPortfolio(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to get portfolio", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdatePortfolio godoc
// @Summary Update portfolio settings
// @Description Update name, risk profile, budget or available cash. Omitted fields are kept.
// @Tags portfolios
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Portfolio ID"
// @Param   settings  body    dto.UpdatePortfolioRequest   true    "Settings to change"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id} [patch]
func (h *PortfolioHandler) UpdatePortfolio(c echo.Context) error {
	id, ok := portfolioID(c)
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}

	var req dto.UpdatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.portfolioService.UpdatePortfolio(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to update portfolio", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAllocation godoc
// @Summary Get portfolio allocation
// @Description Share of every open position and of cash in the total portfolio value
// @Tags portfolios
// @Produce  json
// @Param   id  path    int true    "Portfolio ID"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id}/allocation [get]
func (h *PortfolioHandler) GetAllocation(c echo.Context) error {
	id, ok := portfolioID(c)
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}

	resp, err := h.portfolioService.Allocation(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to get allocation", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetHistory godoc
// @Summary Get portfolio value history
// @Description Hourly portfolio value over the last N days, at most 24 points
// @Tags portfolios
// @Produce  json
// @Param   id  path    int true    "Portfolio ID"
// @Param   days  query    int false    "Days to look back (1-90, default 7)"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id}/history [get]
func (h *PortfolioHandler) GetHistory(c echo.Context) error {
	id, ok := portfolioID(c)
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}

	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid days parameter")
		}
		days = parsed
	}

	resp, err := h.historyService.History(c.Request().Context(), id, days)
	if err != nil {
		return respondError(c, h.logger, "Failed to get portfolio history", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetRecommendations godoc
// @Summary Get recommendations
// @Description Advisory recommendations for a portfolio
// @Tags portfolios
// @Produce  json
// @Param   id  path    int true    "Portfolio ID"
// @Success 200 {array} dto.RecommendationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id}/recommendations [get]
func (h *PortfolioHandler) GetRecommendations(c echo.Context) error {
	id, ok := portfolioID(c)
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}

	resp, err := h.portfolioService.Recommendations(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Failed to get recommendations", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Buy godoc
// @Summary Buy shares
// @Description Add shares to a position at the given price and recompute the portfolio
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Portfolio ID"
// @Param   order  body    dto.BuyRequest   true    "Buy order"
// @Success 200 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id}/buy [post]
func (h *PortfolioHandler) Buy(c echo.Context) error {
	id, ok := portfolioID(c)
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}

	var req dto.BuyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.tradeService.Buy(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to buy", err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Sell godoc
// @Summary Sell shares
// @Description Remove shares from a position and recompute the portfolio. Selling everything closes the position.
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Portfolio ID"
// @Param   order  body    dto.SellRequest   true    "Sell order"
// @Success 200 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id}/sell [post]
func (h *PortfolioHandler) Sell(c echo.Context) error {
	id, ok := portfolioID(c)
	if !ok {
		return badRequest(c, "Invalid portfolio ID")
	}

	var req dto.SellRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.tradeService.Sell(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, h.logger, "Failed to sell", err)
	}
	return c.JSON(http.StatusOK, resp)
}
