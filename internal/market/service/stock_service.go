package service

import (
	"context"
	"strings"

	"atlasbourse/internal/entity"
	"atlasbourse/internal/market/dto"
	"atlasbourse/internal/market/repository"
	"atlasbourse/pkg/logger"
)

const topStocksLimit = 5

// StockService serves the market page: catalog search with an up-to-date
// price snapshot, and catalog maintenance.
type StockService interface {
	List(ctx context.Context, query, currency string) (*dto.StockListResponse, error)
	Create(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error)
}

// NewStockService creates a new stock service.
func NewStockService(stockRepo repository.StockRepository, marketData MarketDataService, log *logger.Logger) StockService {
	return &stockService{
		stockRepo:  stockRepo,
		marketData: marketData,
		log:        log,
	}
}

type stockService struct {
	stockRepo  repository.StockRepository
	marketData MarketDataService
	log        *logger.Logger
}

// List refreshes stale prices first, then returns the filtered catalog,
// the currency filter values and the top stocks by price.
func (s *stockService) List(ctx context.Context, query, currency string) (*dto.StockListResponse, error) {
	justUpdated, lastUpdate, err := s.marketData.RefreshIfStale(ctx)
	if err != nil {
		// A failed refresh still leaves a servable catalog.
		s.log.ErrorContext(ctx, "Price refresh failed", logger.ErrorField(err))
	}

	stocks, err := s.stockRepo.Search(ctx, strings.TrimSpace(query), strings.TrimSpace(currency))
	if err != nil {
		return nil, err
	}

	currencies, err := s.stockRepo.Currencies(ctx)
	if err != nil {
		return nil, err
	}

	top, err := s.stockRepo.TopByPrice(ctx, topStocksLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.StockListResponse{
		Stocks:      make([]dto.StockResponse, 0, len(stocks)),
		Currencies:  currencies,
		TopStocks:   make([]dto.StockResponse, 0, len(top)),
		LastUpdate:  lastUpdate,
		JustUpdated: justUpdated,
	}
	for i := range stocks {
		resp.Stocks = append(resp.Stocks, mapStockResponse(&stocks[i]))
	}
	for i := range top {
		resp.TopStocks = append(resp.TopStocks, mapStockResponse(&top[i]))
	}
	return resp, nil
}

// Create adds a stock to the tracked catalog.
func (s *stockService) Create(ctx context.Context, req *dto.CreateStockRequest) (*dto.StockResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, entity.ErrUnknownSymbol
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	stock := &entity.Stock{
		Symbol:   symbol,
		Name:     strings.TrimSpace(req.Name),
		Currency: currency,
	}
	if err := s.stockRepo.Create(ctx, stock); err != nil {
		return nil, err
	}

	s.log.Info("Stock added to catalog", logger.StringField("symbol", symbol))
	mapped := mapStockResponse(stock)
	return &mapped, nil
}

func mapStockResponse(stock *entity.Stock) dto.StockResponse {
	resp := dto.StockResponse{
		ID:        stock.ID,
		Symbol:    stock.Symbol,
		Name:      stock.Name,
		Currency:  stock.Currency,
		UpdatedAt: stock.UpdatedAt,
	}
	if stock.LastPrice.Valid {
		price := stock.LastPrice.Decimal
		resp.LastPrice = &price
	}
	return resp
}
