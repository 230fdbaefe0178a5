package service

import (
	"context"
	"testing"
	"time"

	"atlasbourse/internal/market/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_RefreshesThenServes(t *testing.T) {
	stocks := newFakeStockRepo()
	stocks.add("AAA", "Triple A Corp", nil)
	stocks.add("BBB", "Bravo Inc", nil)
	quotes := &fakeQuoteRepo{prices: map[string]decimal.Decimal{
		"AAA": d("50"),
		"BBB": d("75"),
	}}

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	gate := newGateFixture(stocks, quotes, now)
	svc := NewStockService(stocks, gate, testLogger())

	resp, err := svc.List(context.Background(), "", "")
	require.NoError(t, err)

	assert.True(t, resp.JustUpdated)
	assert.Equal(t, now, resp.LastUpdate)
	require.Len(t, resp.Stocks, 2)
	require.NotNil(t, resp.Stocks[0].LastPrice)
	assert.True(t, resp.Stocks[0].LastPrice.Equal(d("50")))
	assert.Equal(t, []string{"USD"}, resp.Currencies)

	// Top stocks rank by price, highest first.
	require.Len(t, resp.TopStocks, 2)
	assert.Equal(t, "BBB", resp.TopStocks[0].Symbol)
}

func TestList_FiltersByQueryAndCurrency(t *testing.T) {
	stocks := newFakeStockRepo()
	stocks.add("AAA", "Triple A Corp", nil)
	bbb := stocks.add("BBB", "Bravo Inc", nil)
	bbb.Currency = "EUR"
	quotes := &fakeQuoteRepo{prices: map[string]decimal.Decimal{}}

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	gate := newGateFixture(stocks, quotes, now)
	svc := NewStockService(stocks, gate, testLogger())

	resp, err := svc.List(context.Background(), "bravo", "")
	require.NoError(t, err)
	require.Len(t, resp.Stocks, 1)
	assert.Equal(t, "BBB", resp.Stocks[0].Symbol)

	resp, err = svc.List(context.Background(), "", "EUR")
	require.NoError(t, err)
	require.Len(t, resp.Stocks, 1)
	assert.Equal(t, "BBB", resp.Stocks[0].Symbol)
}

func TestCreateStock_NormalizesInput(t *testing.T) {
	stocks := newFakeStockRepo()
	quotes := &fakeQuoteRepo{prices: map[string]decimal.Decimal{}}
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc := NewStockService(stocks, newGateFixture(stocks, quotes, now), testLogger())

	resp, err := svc.Create(context.Background(), &dto.CreateStockRequest{
		Symbol: " aapl ", Name: " Apple Inc. ",
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "Apple Inc.", resp.Name)
	assert.Equal(t, "USD", resp.Currency)
	assert.Contains(t, stocks.stocks, "AAPL")
}
