package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeBuy  = "BUY"
	TransactionTypeSell = "SELL"
)

// Transaction is an immutable record of one executed buy or sell.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PortfolioID uint            `gorm:"not null;index" json:"portfolio_id"`
	StockID     uint            `gorm:"not null" json:"stock_id"`
	Type        string          `gorm:"not null" json:"type"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Stock Stock `json:"stock"`
}

func (Transaction) TableName() string {
	return "transactions"
}
