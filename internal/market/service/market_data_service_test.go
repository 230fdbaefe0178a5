package service

import (
	"context"
	"testing"
	"time"

	"atlasbourse/internal/market/metrics"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateFixture(stocks *fakeStockRepo, quotes *fakeQuoteRepo, at time.Time) *marketDataService {
	return &marketDataService{
		stockRepo: stocks,
		quoteRepo: quotes,
		metrics:   metrics.NewUnregistered(),
		log:       testLogger(),
		interval:  time.Minute,
		now:       func() time.Time { return at },
	}
}

func TestRefreshIfStale_EmptyCatalogTimestamp(t *testing.T) {
	stocks := newFakeStockRepo()
	stocks.add("AAA", "Triple A Corp", nil)
	quotes := &fakeQuoteRepo{prices: map[string]decimal.Decimal{"AAA": d("50")}}

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc := newGateFixture(stocks, quotes, now)

	// No stock has ever been priced: the gate always opens.
	justUpdated, ref, err := svc.RefreshIfStale(context.Background())
	require.NoError(t, err)
	assert.True(t, justUpdated)
	assert.Equal(t, now, ref)
	assert.Equal(t, 1, stocks.priceWrites)
}

func TestRefreshIfStale_FreshCatalogSkips(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	last := now.Add(-30 * time.Second)

	stocks := newFakeStockRepo()
	stocks.add("AAA", "Triple A Corp", nil)
	stocks.lastUpdated = &last
	quotes := &fakeQuoteRepo{prices: map[string]decimal.Decimal{"AAA": d("50")}}

	svc := newGateFixture(stocks, quotes, now)

	justUpdated, ref, err := svc.RefreshIfStale(context.Background())
	require.NoError(t, err)
	assert.False(t, justUpdated)
	assert.Equal(t, last, ref)
	assert.Zero(t, quotes.calls, "provider must not be hit while fresh")
}

func TestRefreshIfStale_StaleCatalogRefreshes(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	last := now.Add(-time.Minute) // exactly one interval old counts as stale

	stocks := newFakeStockRepo()
	stocks.add("AAA", "Triple A Corp", nil)
	stocks.add("BBB", "Bravo Inc", nil)
	stocks.lastUpdated = &last
	quotes := &fakeQuoteRepo{prices: map[string]decimal.Decimal{
		"AAA": d("50"),
		"BBB": d("31.25"),
	}}

	svc := newGateFixture(stocks, quotes, now)

	justUpdated, ref, err := svc.RefreshIfStale(context.Background())
	require.NoError(t, err)
	assert.True(t, justUpdated)
	assert.Equal(t, now, ref)
	assert.Equal(t, 2, quotes.calls)
	assert.True(t, stocks.stocks["BBB"].LastPrice.Decimal.Equal(d("31.25")))
}

func TestRefreshIfStale_ProviderFailureSkipsSymbol(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	previous := d("12")
	stocks := newFakeStockRepo()
	stocks.add("AAA", "Triple A Corp", nil)
	stocks.add("BAD", "No Quote Ltd", &previous)
	quotes := &fakeQuoteRepo{prices: map[string]decimal.Decimal{"AAA": d("50")}}

	svc := newGateFixture(stocks, quotes, now)

	justUpdated, _, err := svc.RefreshIfStale(context.Background())
	require.NoError(t, err, "one failing symbol must not abort the sweep")
	assert.True(t, justUpdated)

	// AAA got its fresh price, BAD kept its previous one.
	assert.True(t, stocks.stocks["AAA"].LastPrice.Decimal.Equal(d("50")))
	assert.True(t, stocks.stocks["BAD"].LastPrice.Decimal.Equal(d("12")))
	assert.Equal(t, 1, stocks.priceWrites)
}
