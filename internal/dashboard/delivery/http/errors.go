package http

import (
	"errors"
	"net/http"

	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/apperror"
	"github.com/npcpromdragonsvitex/StockSentinel/internal/dashboard/dto"
	"github.com/npcpromdragonsvitex/StockSentinel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrInsufficientShares):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"message": ...}. Internal errors are logged and
// their details hidden from the client.
func respondError(c echo.Context, log *logger.Logger, msg string, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), msg, logger.ErrorField(err))
		return c.JSON(status, dto.ErrorResponse{Message: "Internal server error"})
	}
	if status == http.StatusBadGateway {
		log.WarnContext(c.Request().Context(), msg, logger.ErrorField(err))
	}
	return c.JSON(status, dto.ErrorResponse{Message: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: msg})
}
