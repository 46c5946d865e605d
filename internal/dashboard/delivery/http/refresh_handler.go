package http

import (
	"net/http"
	"strconv"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/service"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RefreshHandler handles HTTP requests for price refreshes.
type RefreshHandler struct {
	refreshService service.RefreshService
	logger         *logger.Logger
}

// NewRefreshHandler creates a new RefreshHandler.
func NewRefreshHandler(refreshService service.RefreshService, logger *logger.Logger) *RefreshHandler {
	return &RefreshHandler{refreshService: refreshService, logger: logger}
}

// RegisterRoutes registers the refresh routes to the Echo group.
func (h *RefreshHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Refresh)
	g.GET("/history", h.GetHistory)
}

// Refresh godoc
// @Summary Refresh prices
// @Description Pull last prices from the market-data provider and revalue every portfolio
// @Tags refresh
// @Produce  json
// @Success 200 {object} dto.RefreshResult
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /refresh [post]
func (h *RefreshHandler) Refresh(c echo.Context) error {
	result, err := h.refreshService.Refresh(c.Request().Context(), dto.RefreshTriggerManual)
	if err != nil {
		return respondError(c, h.logger, "Failed to refresh prices", err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetHistory godoc
// @Summary Get refresh history
// @Description Past refresh runs, newest first
// @Tags refresh
// @Produce  json
// @Param   limit  query    int false    "Number of runs (default 20, max 100)"
// @Success 200 {array} dto.RefreshHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /refresh/history [get]
func (h *RefreshHandler) GetHistory(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid limit parameter")
		}
		limit = parsed
	}

	history, err := h.refreshService.History(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, h.logger, "Failed to get refresh history", err)
	}
	return c.JSON(http.StatusOK, history)
}
