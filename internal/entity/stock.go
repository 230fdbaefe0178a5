package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Stock is a tracked symbol in the market catalog. Symbols are stored
// upper-case. LastPrice is null until the first successful quote fetch;
// UpdatedAt doubles as the price refresh timestamp.
type Stock struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	Symbol    string              `gorm:"uniqueIndex;not null" json:"symbol"`
	Name      string              `gorm:"not null" json:"name"`
	LastPrice decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"last_price"`
	Currency  string              `gorm:"not null;default:USD" json:"currency"`
	Quote     datatypes.JSON      `json:"quote,omitempty"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
