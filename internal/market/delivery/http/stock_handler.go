package http

import (
	"net/http"

	"atlasbourse/internal/market/dto"
	"atlasbourse/internal/market/service"
	"atlasbourse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StockHandler handles HTTP requests for the market catalog.
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
	g.POST("", h.CreateStock)
}

// ListStocks godoc
// @Summary List the market catalog
// @Description Refreshes stale prices, then returns the filtered catalog
// @Tags stocks
// @Produce json
// @Param q query string false "Symbol or name substring"
// @Param currency query string false "Currency filter"
// @Success 200 {object} dto.StockListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks [get]
func (h *StockHandler) ListStocks(c echo.Context) error {
	resp, err := h.stockService.List(c.Request().Context(), c.QueryParam("q"), c.QueryParam("currency"))
	if err != nil {
		h.logger.Error("Failed to list stocks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list stocks"})
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateStock godoc
// @Summary Add a stock to the catalog
// @Tags stocks
// @Accept json
// @Produce json
// @Param stock body dto.CreateStockRequest true "Stock to track"
// @Success 201 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /stocks [post]
func (h *StockHandler) CreateStock(c echo.Context) error {
	var req dto.CreateStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	resp, err := h.stockService.Create(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}
