package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is an open holding of one stock in one portfolio. Quantity is
// always positive: selling a position down to zero deletes the row.
type Position struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PortfolioID uint            `gorm:"not null;uniqueIndex:idx_positions_portfolio_stock" json:"portfolio_id"`
	StockID     uint            `gorm:"not null;uniqueIndex:idx_positions_portfolio_stock" json:"stock_id"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	AvgPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"avg_price"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Stock Stock `json:"stock"`
}

func (Position) TableName() string {
	return "positions"
}
