package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio holds one user's cash balance. Positions, transactions and cash
// operations all hang off the portfolio and are removed with it.
type Portfolio struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Cash      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cash"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Positions []Position `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
