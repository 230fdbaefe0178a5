package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"atlasbourse/internal/entity"
	"atlasbourse/internal/market/repository"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// In-memory stand-ins for the GORM repositories. The settlement fakes apply
// the same balance and position rules as the real transactional methods.

type fakeStockRepo struct {
	stocks      map[string]*entity.Stock
	lastUpdated *time.Time
	nextID      uint
	priceWrites int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{stocks: make(map[string]*entity.Stock)}
}

func (r *fakeStockRepo) add(symbol, name string, lastPrice *decimal.Decimal) *entity.Stock {
	r.nextID++
	stock := &entity.Stock{ID: r.nextID, Symbol: symbol, Name: name, Currency: "USD"}
	if lastPrice != nil {
		stock.LastPrice = decimal.NullDecimal{Decimal: *lastPrice, Valid: true}
	}
	r.stocks[symbol] = stock
	return stock
}

func (r *fakeStockRepo) Create(_ context.Context, stock *entity.Stock) error {
	r.nextID++
	stock.ID = r.nextID
	r.stocks[stock.Symbol] = stock
	return nil
}

func (r *fakeStockRepo) FindBySymbol(_ context.Context, symbol string) (*entity.Stock, error) {
	stock, ok := r.stocks[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *stock
	return &clone, nil
}

func (r *fakeStockRepo) FindAll(context.Context) ([]entity.Stock, error) {
	symbols := make([]string, 0, len(r.stocks))
	for symbol := range r.stocks {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	out := make([]entity.Stock, 0, len(symbols))
	for _, symbol := range symbols {
		out = append(out, *r.stocks[symbol])
	}
	return out, nil
}

func (r *fakeStockRepo) Search(ctx context.Context, query, currency string) ([]entity.Stock, error) {
	all, _ := r.FindAll(ctx)
	out := make([]entity.Stock, 0, len(all))
	for _, stock := range all {
		if query != "" && !strings.Contains(strings.ToUpper(stock.Symbol), strings.ToUpper(query)) &&
			!strings.Contains(strings.ToUpper(stock.Name), strings.ToUpper(query)) {
			continue
		}
		if currency != "" && !strings.EqualFold(stock.Currency, currency) {
			continue
		}
		out = append(out, stock)
	}
	return out, nil
}

func (r *fakeStockRepo) Currencies(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, stock := range r.stocks {
		if stock.Currency != "" && !seen[stock.Currency] {
			seen[stock.Currency] = true
			out = append(out, stock.Currency)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeStockRepo) TopByPrice(ctx context.Context, limit int) ([]entity.Stock, error) {
	all, _ := r.FindAll(ctx)
	priced := all[:0]
	for _, stock := range all {
		if stock.LastPrice.Valid {
			priced = append(priced, stock)
		}
	}
	sort.Slice(priced, func(i, j int) bool {
		return priced[i].LastPrice.Decimal.GreaterThan(priced[j].LastPrice.Decimal)
	})
	if len(priced) > limit {
		priced = priced[:limit]
	}
	return priced, nil
}

func (r *fakeStockRepo) LastUpdatedAt(context.Context) (*time.Time, error) {
	return r.lastUpdated, nil
}

func (r *fakeStockRepo) UpdatePrice(_ context.Context, stock *entity.Stock, price decimal.Decimal, quote datatypes.JSON) error {
	stored, ok := r.stocks[stock.Symbol]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.LastPrice = decimal.NullDecimal{Decimal: price, Valid: true}
	stored.Quote = quote
	stock.LastPrice = stored.LastPrice
	r.priceWrites++
	return nil
}

var _ repository.StockRepository = (*fakeStockRepo)(nil)

type fakeQuoteRepo struct {
	prices map[string]decimal.Decimal
	calls  int
}

func (r *fakeQuoteRepo) GetPrice(_ context.Context, symbol string) (*repository.Quote, error) {
	r.calls++
	price, ok := r.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrQuoteUnavailable, symbol)
	}
	return &repository.Quote{Symbol: symbol, Price: price}, nil
}

var _ repository.QuoteRepository = (*fakeQuoteRepo)(nil)

type fakePortfolioRepo struct {
	portfolio    *entity.Portfolio
	positions    map[uint]*entity.Position // keyed by stock ID
	transactions []entity.Transaction
	cashOps      []entity.CashOperation
	nextID       uint
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{positions: make(map[uint]*entity.Position)}
}

func (r *fakePortfolioRepo) CreateForUser(_ context.Context, userID uint, startingCash decimal.Decimal) (*entity.Portfolio, error) {
	r.portfolio = &entity.Portfolio{ID: 1, UserID: userID, Cash: startingCash}
	return r.portfolio, nil
}

func (r *fakePortfolioRepo) GetOrCreateByUserID(ctx context.Context, userID uint, startingCash decimal.Decimal) (*entity.Portfolio, error) {
	if r.portfolio == nil {
		return r.CreateForUser(ctx, userID, startingCash)
	}
	return r.portfolio, nil
}

func (r *fakePortfolioRepo) FindPositions(_ context.Context, portfolioID uint) ([]entity.Position, error) {
	ids := make([]int, 0, len(r.positions))
	for id := range r.positions {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	out := make([]entity.Position, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.positions[uint(id)])
	}
	return out, nil
}

func (r *fakePortfolioRepo) ExecuteOrder(_ context.Context, portfolioID uint, stock *entity.Stock, side string, quantity int64, price decimal.Decimal) (*entity.Transaction, error) {
	total := price.Mul(decimal.NewFromInt(quantity))

	switch side {
	case entity.TransactionTypeBuy:
		if r.portfolio.Cash.LessThan(total) {
			return nil, entity.ErrInsufficientFunds
		}
		r.portfolio.Cash = r.portfolio.Cash.Sub(total)
		if position, ok := r.positions[stock.ID]; ok {
			position.AvgPrice = entity.BlendAveragePrice(position.Quantity, position.AvgPrice, quantity, price)
			position.Quantity += quantity
		} else {
			r.positions[stock.ID] = &entity.Position{
				PortfolioID: portfolioID,
				StockID:     stock.ID,
				Quantity:    quantity,
				AvgPrice:    price,
				Stock:       *stock,
			}
		}

	case entity.TransactionTypeSell:
		position, ok := r.positions[stock.ID]
		if !ok {
			return nil, entity.ErrNoHolding
		}
		if position.Quantity < quantity {
			return nil, entity.ErrInsufficientHolding
		}
		position.Quantity -= quantity
		if position.Quantity == 0 {
			delete(r.positions, stock.ID)
		}
		r.portfolio.Cash = r.portfolio.Cash.Add(total)

	default:
		return nil, entity.ErrInvalidSide
	}

	r.nextID++
	record := entity.Transaction{
		ID:          r.nextID,
		PortfolioID: portfolioID,
		StockID:     stock.ID,
		Type:        side,
		Quantity:    quantity,
		Price:       price,
		CreatedAt:   time.Now(),
		Stock:       *stock,
	}
	r.transactions = append(r.transactions, record)
	return &record, nil
}

func (r *fakePortfolioRepo) Deposit(_ context.Context, portfolioID uint, amount decimal.Decimal, note string) (*entity.CashOperation, error) {
	r.portfolio.Cash = r.portfolio.Cash.Add(amount)
	r.nextID++
	op := entity.CashOperation{ID: r.nextID, PortfolioID: portfolioID, Type: entity.CashOperationIn, Amount: amount, Note: note}
	r.cashOps = append(r.cashOps, op)
	return &op, nil
}

func (r *fakePortfolioRepo) Withdraw(_ context.Context, portfolioID uint, amount decimal.Decimal, note string) (*entity.CashOperation, error) {
	if r.portfolio.Cash.LessThan(amount) {
		return nil, entity.ErrInsufficientFunds
	}
	r.portfolio.Cash = r.portfolio.Cash.Sub(amount)
	r.nextID++
	op := entity.CashOperation{ID: r.nextID, PortfolioID: portfolioID, Type: entity.CashOperationOut, Amount: amount, Note: note}
	r.cashOps = append(r.cashOps, op)
	return &op, nil
}

var _ repository.PortfolioRepository = (*fakePortfolioRepo)(nil)

type fakeTransactionRepo struct {
	ledger *fakePortfolioRepo
}

func (r *fakeTransactionRepo) FindByPortfolioID(context.Context, uint) ([]entity.Transaction, error) {
	out := make([]entity.Transaction, 0, len(r.ledger.transactions))
	for i := len(r.ledger.transactions) - 1; i >= 0; i-- {
		out = append(out, r.ledger.transactions[i])
	}
	return out, nil
}

var _ repository.TransactionRepository = (*fakeTransactionRepo)(nil)

type fakeCashOperationRepo struct {
	ledger *fakePortfolioRepo
}

func (r *fakeCashOperationRepo) FindByPortfolioID(_ context.Context, _ uint, limit int) ([]entity.CashOperation, error) {
	out := make([]entity.CashOperation, 0, len(r.ledger.cashOps))
	for i := len(r.ledger.cashOps) - 1; i >= 0; i-- {
		out = append(out, r.ledger.cashOps[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ repository.CashOperationRepository = (*fakeCashOperationRepo)(nil)
