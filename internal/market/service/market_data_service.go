package service

import (
	"context"
	"time"

	marketconfig "atlasbourse/internal/market/config"
	"atlasbourse/internal/market/metrics"
	"atlasbourse/internal/market/repository"
	"atlasbourse/pkg/logger"
)

const defaultRefreshInterval = time.Minute

// MarketDataService owns the price refresh gate: the whole catalog is
// re-fetched at most once per interval, keyed on the most recent update
// timestamp across all stocks.
type MarketDataService interface {
	// RefreshIfStale refreshes every stock's price when the catalog is
	// stale. It reports whether a refresh ran and the reference timestamp
	// of the catalog afterwards.
	RefreshIfStale(ctx context.Context) (bool, time.Time, error)
}

// NewMarketDataService creates a new market data service.
func NewMarketDataService(cfg *marketconfig.Config, stockRepo repository.StockRepository, quoteRepo repository.QuoteRepository, m *metrics.Metrics, log *logger.Logger) MarketDataService {
	interval := defaultRefreshInterval
	if cfg.Market.RefreshInterval != "" {
		if parsed, err := time.ParseDuration(cfg.Market.RefreshInterval); err == nil {
			interval = parsed
		}
	}
	return &marketDataService{
		stockRepo: stockRepo,
		quoteRepo: quoteRepo,
		metrics:   m,
		log:       log,
		interval:  interval,
		now:       time.Now,
	}
}

type marketDataService struct {
	stockRepo repository.StockRepository
	quoteRepo repository.QuoteRepository
	metrics   *metrics.Metrics
	log       *logger.Logger
	interval  time.Duration
	now       func() time.Time
}

func (s *marketDataService) RefreshIfStale(ctx context.Context) (bool, time.Time, error) {
	now := s.now()

	last, err := s.stockRepo.LastUpdatedAt(ctx)
	if err != nil {
		return false, time.Time{}, err
	}
	if last != nil && now.Sub(*last) < s.interval {
		return false, *last, nil
	}

	if err := s.refreshAll(ctx); err != nil {
		return false, time.Time{}, err
	}
	return true, now, nil
}

// refreshAll re-fetches every stock's price. Symbols the provider cannot
// answer for keep their previous price and timestamp; those failures are
// not retried and never abort the sweep.
func (s *marketDataService) refreshAll(ctx context.Context) error {
	stocks, err := s.stockRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	for i := range stocks {
		stock := &stocks[i]
		q, err := s.quoteRepo.GetPrice(ctx, stock.Symbol)
		if err != nil {
			s.metrics.QuoteFailures.Inc()
			s.log.DebugContext(ctx, "Skipping stock, quote unavailable",
				logger.StringField("symbol", stock.Symbol), logger.ErrorField(err))
			continue
		}
		if err := s.stockRepo.UpdatePrice(ctx, stock, q.Price, q.Raw); err != nil {
			s.log.ErrorContext(ctx, "Failed to persist refreshed price",
				logger.StringField("symbol", stock.Symbol), logger.ErrorField(err))
		}
	}

	s.metrics.CatalogRefresh.Inc()
	s.log.InfoContext(ctx, "Price catalog refreshed", logger.IntField("stocks", len(stocks)))
	return nil
}
