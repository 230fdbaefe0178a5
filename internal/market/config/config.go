package config

import (
	"atlasbourse/pkg/config"
)

// Market holds market data and ledger configuration.
type Market struct {
	RefreshInterval          string  `mapstructure:"refresh_interval"`
	RefreshCron              string  `mapstructure:"refresh_cron"`
	QuoteCacheTTL            string  `mapstructure:"quote_cache_ttl"`
	QuoteMaxRequestPerMinute int     `mapstructure:"quote_max_request_per_minute"`
	StartingCash             float64 `mapstructure:"starting_cash"`
}

// Auth holds session configuration.
type Auth struct {
	SessionTTL string `mapstructure:"session_ttl"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Market   Market          `mapstructure:"market"`
	Auth     Auth            `mapstructure:"auth"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
