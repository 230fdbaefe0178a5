package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRequest is the payload for a deposit (IN) or withdrawal (OUT).
type CashRequest struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// CashOperationResponse is one row of the cash operation history.
type CashOperationResponse struct {
	ID        uint            `json:"id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"created_at"`
}

// CashListResponse is the cash page payload: the current balance and the
// most recent operations.
type CashListResponse struct {
	Cash       decimal.Decimal         `json:"cash"`
	Operations []CashOperationResponse `json:"operations"`
}
