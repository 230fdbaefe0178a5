package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	marketconfig "atlasbourse/internal/market/config"
	"atlasbourse/pkg/logger"

	"github.com/patrickmn/go-cache"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
)

// ErrQuoteUnavailable is returned when the provider cannot answer for a
// symbol. Callers fall back to the stored last price.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// Quote is a provider answer: the last traded price rounded to two decimal
// places plus the raw snapshot persisted alongside the stock.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
	Raw    datatypes.JSON
}

// QuoteRepository resolves last-traded prices from the market data provider.
type QuoteRepository interface {
	GetPrice(ctx context.Context, symbol string) (*Quote, error)
}

type quoteRepository struct {
	log            *logger.Logger
	requestLimiter *rate.Limiter
	memo           *cache.Cache
}

// NewQuoteRepository creates a Yahoo Finance backed quote repository. A
// short-lived cache absorbs repeated lookups of the same symbol inside one
// refresh window, and a rate limiter keeps the request volume within the
// configured budget.
func NewQuoteRepository(cfg *marketconfig.Config, log *logger.Logger) (QuoteRepository, error) {
	maxPerMinute := cfg.Market.QuoteMaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 60
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)

	ttl := 15 * time.Second
	if cfg.Market.QuoteCacheTTL != "" {
		parsed, err := time.ParseDuration(cfg.Market.QuoteCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid quote_cache_ttl: %w", err)
		}
		ttl = parsed
	}

	return &quoteRepository{
		log:            log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		memo:           cache.New(ttl, 2*ttl),
	}, nil
}

// GetPrice fetches the last traded price for a symbol. Any provider failure
// maps to ErrQuoteUnavailable; nothing is retried here.
func (r *quoteRepository) GetPrice(ctx context.Context, symbol string) (*Quote, error) {
	if cached, ok := r.memo.Get(symbol); ok {
		return cached.(*Quote), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}

	q, err := quote.Get(symbol)
	if err != nil {
		r.log.DebugContext(ctx, "Quote fetch failed",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("%w: empty quote for %s", ErrQuoteUnavailable, symbol)
	}

	raw, err := json.Marshal(quoteSnapshot{
		Symbol:      q.Symbol,
		Price:       q.RegularMarketPrice,
		MarketState: string(q.MarketState),
		Exchange:    q.FullExchangeName,
	})
	if err != nil {
		raw = nil
	}

	result := &Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(q.RegularMarketPrice).Round(2),
		Raw:    datatypes.JSON(raw),
	}
	r.memo.Set(symbol, result, cache.DefaultExpiration)
	return result, nil
}

// quoteSnapshot is the subset of the provider payload stored on the stock.
type quoteSnapshot struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	MarketState string  `json:"market_state"`
	Exchange    string  `json:"exchange"`
}
