package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRequest is the payload for placing a buy or sell order.
type OrderRequest struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Quantity int64  `json:"quantity"`
}

// OrderResponse describes a settled order.
type OrderResponse struct {
	TransactionID uint            `json:"transaction_id"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	ExecutedAt    time.Time       `json:"executed_at"`
}

// TransactionResponse is one row of the transaction history.
type TransactionResponse struct {
	ID        uint            `json:"id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}
