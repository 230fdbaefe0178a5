package http

import (
	"net/http"

	"atlasbourse/internal/market/dto"
	"atlasbourse/internal/market/service"
	"atlasbourse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for the portfolio ledger.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/portfolio", h.GetPortfolio)
	g.POST("/orders", h.PlaceOrder)
	g.GET("/transactions", h.ListTransactions)
}

// GetPortfolio godoc
// @Summary Portfolio valuation
// @Description Positions with gains, totals and the cash balance
// @Tags portfolio
// @Produce json
// @Success 200 {object} dto.PortfolioResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	resp, err := h.portfolioService.Overview(c.Request().Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("Failed to compute portfolio overview", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load portfolio"})
	}
	return c.JSON(http.StatusOK, resp)
}

// PlaceOrder godoc
// @Summary Place a buy or sell order
// @Tags portfolio
// @Accept json
// @Produce json
// @Param order body dto.OrderRequest true "Order to place"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /orders [post]
func (h *PortfolioHandler) PlaceOrder(c echo.Context) error {
	var req dto.OrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.portfolioService.PlaceOrder(c.Request().Context(), currentUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// ListTransactions godoc
// @Summary Transaction history
// @Tags portfolio
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions [get]
func (h *PortfolioHandler) ListTransactions(c echo.Context) error {
	resp, err := h.portfolioService.Transactions(c.Request().Context(), currentUserID(c))
	if err != nil {
		h.logger.Error("Failed to list transactions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list transactions"})
	}
	return c.JSON(http.StatusOK, resp)
}
