package dto

import "github.com/shopspring/decimal"

// PositionResponse is one valued position on the portfolio overview.
type PositionResponse struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	Quantity    int64            `json:"quantity"`
	AvgPrice    decimal.Decimal  `json:"avg_price"`
	LastPrice   *decimal.Decimal `json:"last_price"`
	Value       decimal.Decimal  `json:"value"`
	Gain        decimal.Decimal  `json:"gain"`
	GainPercent decimal.Decimal  `json:"gain_percent"`
}

// PortfolioResponse is the full valuation of one portfolio.
type PortfolioResponse struct {
	Cash                decimal.Decimal    `json:"cash"`
	Positions           []PositionResponse `json:"positions"`
	TotalPositionsValue decimal.Decimal    `json:"total_positions_value"`
	TotalValue          decimal.Decimal    `json:"total_value"`
	TotalGain           decimal.Decimal    `json:"total_gain"`
}
