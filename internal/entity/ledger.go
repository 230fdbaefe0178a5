package entity

import "github.com/shopspring/decimal"

// BlendAveragePrice returns the quantity-weighted average purchase price
// after adding qty shares at price to an existing lot of oldQty shares at
// oldAvg. This is a cost-basis blend, not a simple average of prices.
func BlendAveragePrice(oldQty int64, oldAvg decimal.Decimal, qty int64, price decimal.Decimal) decimal.Decimal {
	oldTotal := oldAvg.Mul(decimal.NewFromInt(oldQty))
	newTotal := oldTotal.Add(price.Mul(decimal.NewFromInt(qty)))
	return newTotal.Div(decimal.NewFromInt(oldQty + qty))
}

// EffectivePrice is the price used for valuation: the last known market
// price, falling back to the average cost basis, falling back to zero.
// A zero last price is treated as missing.
func EffectivePrice(last decimal.NullDecimal, avgPrice decimal.Decimal) decimal.Decimal {
	if last.Valid && !last.Decimal.IsZero() {
		return last.Decimal
	}
	if !avgPrice.IsZero() {
		return avgPrice
	}
	return decimal.Zero
}

// PositionGain returns the unrealized gain amount and percentage for a
// position valued at the given effective price. The percentage is zero when
// there is no cost basis to compare against.
func PositionGain(effective, avgPrice decimal.Decimal, quantity int64) (gain, gainPercent decimal.Decimal) {
	qty := decimal.NewFromInt(quantity)
	gain = effective.Sub(avgPrice).Mul(qty)
	if avgPrice.IsPositive() {
		gainPercent = effective.Sub(avgPrice).Div(avgPrice).Mul(decimal.NewFromInt(100))
	} else {
		gainPercent = decimal.Zero
	}
	return gain, gainPercent
}
