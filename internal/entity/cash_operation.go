package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CashOperationIn  = "IN"
	CashOperationOut = "OUT"
)

// CashOperation is an immutable record of one deposit or withdrawal.
type CashOperation struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PortfolioID uint            `gorm:"not null;index" json:"portfolio_id"`
	Type        string          `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (CashOperation) TableName() string {
	return "cash_operations"
}
