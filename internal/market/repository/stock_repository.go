package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"atlasbourse/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StockRepository defines the interface for stock catalog operations.
type StockRepository interface {
	Create(ctx context.Context, stock *entity.Stock) error
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	FindAll(ctx context.Context) ([]entity.Stock, error)
	Search(ctx context.Context, query, currency string) ([]entity.Stock, error)
	Currencies(ctx context.Context) ([]string, error)
	TopByPrice(ctx context.Context, limit int) ([]entity.Stock, error)
	LastUpdatedAt(ctx context.Context) (*time.Time, error)
	UpdatePrice(ctx context.Context, stock *entity.Stock, price decimal.Decimal, quote datatypes.JSON) error
}

// NewStockRepository creates a new GORM-based stock repository.
func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

type stockRepository struct {
	db *gorm.DB
}

// Create adds a stock to the catalog. The symbol is stored upper-case.
func (r *stockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))
	return r.db.WithContext(ctx).Create(stock).Error
}

// FindBySymbol retrieves a stock by symbol, case-insensitively.
func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).
		Where("upper(symbol) = ?", strings.ToUpper(strings.TrimSpace(symbol))).
		First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// FindAll retrieves the whole catalog ordered by symbol.
func (r *stockRepository) FindAll(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := r.db.WithContext(ctx).Order("symbol").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Search filters the catalog by symbol/name substring and optional currency.
func (r *stockRepository) Search(ctx context.Context, query, currency string) ([]entity.Stock, error) {
	tx := r.db.WithContext(ctx).Order("symbol")
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("symbol ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if currency != "" {
		tx = tx.Where("upper(currency) = ?", strings.ToUpper(currency))
	}

	var stocks []entity.Stock
	if err := tx.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Currencies lists the distinct non-empty currencies in the catalog.
func (r *stockRepository) Currencies(ctx context.Context) ([]string, error) {
	var currencies []string
	err := r.db.WithContext(ctx).
		Model(&entity.Stock{}).
		Where("currency IS NOT NULL AND currency <> ''").
		Distinct("currency").
		Order("currency").
		Pluck("currency", &currencies).Error
	if err != nil {
		return nil, err
	}
	return currencies, nil
}

// TopByPrice lists the priced stocks ordered by last price, highest first.
func (r *stockRepository) TopByPrice(ctx context.Context, limit int) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Where("last_price IS NOT NULL").
		Order("last_price DESC").
		Limit(limit).
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

// LastUpdatedAt returns the most recent update timestamp across the whole
// catalog, or nil when the catalog is empty.
func (r *stockRepository) LastUpdatedAt(ctx context.Context) (*time.Time, error) {
	var last sql.NullTime
	row := r.db.WithContext(ctx).Model(&entity.Stock{}).Select("max(updated_at)").Row()
	if err := row.Scan(&last); err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	t := last.Time
	return &t, nil
}

// UpdatePrice persists a freshly fetched price and provider snapshot. The
// updated_at column moves forward with the write.
func (r *stockRepository) UpdatePrice(ctx context.Context, stock *entity.Stock, price decimal.Decimal, quote datatypes.JSON) error {
	updates := map[string]interface{}{
		"last_price": price,
	}
	if quote != nil {
		updates["quote"] = quote
	}
	if err := r.db.WithContext(ctx).Model(stock).Updates(updates).Error; err != nil {
		return err
	}
	stock.LastPrice = decimal.NullDecimal{Decimal: price, Valid: true}
	return nil
}
