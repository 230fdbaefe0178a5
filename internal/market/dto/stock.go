package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockRequest adds a symbol to the tracked catalog.
type CreateStockRequest struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// StockResponse is the public view of a catalog entry.
type StockResponse struct {
	ID        uint             `json:"id"`
	Symbol    string           `json:"symbol"`
	Name      string           `json:"name"`
	LastPrice *decimal.Decimal `json:"last_price"`
	Currency  string           `json:"currency"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// StockListResponse is the market page payload: the (filtered) catalog,
// the distinct currencies for the filter dropdown, the top entries by
// price, and the refresh gate outcome for this request.
type StockListResponse struct {
	Stocks      []StockResponse `json:"stocks"`
	Currencies  []string        `json:"currencies"`
	TopStocks   []StockResponse `json:"top_stocks"`
	LastUpdate  time.Time       `json:"last_update"`
	JustUpdated bool            `json:"just_updated"`
}
