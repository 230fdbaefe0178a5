package http

import (
	"errors"
	"net/http"

	"atlasbourse/internal/entity"
	"atlasbourse/internal/market/dto"

	"github.com/labstack/echo/v4"
)

// respondError maps domain errors to HTTP statuses. Everything in the
// rejection taxonomy is a client-visible outcome, not a server failure.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entity.ErrUnknownSymbol):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrUserExists):
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidCredentials), errors.Is(err, entity.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrInvalidSide),
		errors.Is(err, entity.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInsufficientFunds),
		errors.Is(err, entity.ErrNoHolding),
		errors.Is(err, entity.ErrInsufficientHolding),
		errors.Is(err, entity.ErrPriceUnavailable):
		return c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
