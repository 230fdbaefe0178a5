package http

import (
	"net/http"

	"atlasbourse/internal/market/dto"
	"atlasbourse/internal/market/service"
	"atlasbourse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CashHandler handles HTTP requests for cash operations.
type CashHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewCashHandler creates a new CashHandler.
func NewCashHandler(portfolioService service.PortfolioService, logger *logger.Logger) *CashHandler {
	return &CashHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the cash routes to the Echo group.
func (h *CashHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.ExecuteCashOperation)
	g.GET("", h.ListCashOperations)
}

// ExecuteCashOperation godoc
// @Summary Deposit or withdraw cash
// @Tags cash
// @Accept json
// @Produce json
// @Param operation body dto.CashRequest true "IN or OUT operation"
// @Success 201 {object} dto.CashOperationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /cash [post]
func (h *CashHandler) ExecuteCashOperation(c echo.Context) error {
	var req dto.CashRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.portfolioService.ExecuteCashOperation(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListCashOperations godoc
// @Summary Recent cash operations
// @Tags cash
// @Produce json
// @Success 200 {object} dto.CashListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /cash [get]
func (h *CashHandler) ListCashOperations(c echo.Context) error {
	resp, err := h.portfolioService.CashOperations(c.Request().Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("Failed to list cash operations", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list cash operations"})
	}
	return c.JSON(http.StatusOK, resp)
}
