package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"atlasbourse/internal/entity"
	marketconfig "atlasbourse/internal/market/config"
	"atlasbourse/internal/market/dto"
	"atlasbourse/internal/market/metrics"
	"atlasbourse/internal/market/repository"
	"atlasbourse/pkg/logger"
	"atlasbourse/pkg/telegram"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const cashHistoryLimit = 20

// PortfolioService is the portfolio ledger: valuation, order execution and
// cash operations for one user's portfolio.
type PortfolioService interface {
	Overview(ctx context.Context, userID uint) (*dto.PortfolioResponse, error)
	PlaceOrder(ctx context.Context, userID uint, req *dto.OrderRequest) (*dto.OrderResponse, error)
	ExecuteCashOperation(ctx context.Context, userID uint, req *dto.CashRequest) (*dto.CashOperationResponse, error)
	Transactions(ctx context.Context, userID uint) ([]dto.TransactionResponse, error)
	CashOperations(ctx context.Context, userID uint) (*dto.CashListResponse, error)
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(
	cfg *marketconfig.Config,
	portfolioRepo repository.PortfolioRepository,
	stockRepo repository.StockRepository,
	quoteRepo repository.QuoteRepository,
	transactionRepo repository.TransactionRepository,
	cashOperationRepo repository.CashOperationRepository,
	m *metrics.Metrics,
	notifier telegram.Notifier,
	log *logger.Logger,
) PortfolioService {
	return &portfolioService{
		portfolioRepo:     portfolioRepo,
		stockRepo:         stockRepo,
		quoteRepo:         quoteRepo,
		transactionRepo:   transactionRepo,
		cashOperationRepo: cashOperationRepo,
		metrics:           m,
		notifier:          notifier,
		log:               log,
		startingCash:      decimal.NewFromFloat(cfg.Market.StartingCash),
	}
}

type portfolioService struct {
	portfolioRepo     repository.PortfolioRepository
	stockRepo         repository.StockRepository
	quoteRepo         repository.QuoteRepository
	transactionRepo   repository.TransactionRepository
	cashOperationRepo repository.CashOperationRepository
	metrics           *metrics.Metrics
	notifier          telegram.Notifier
	log               *logger.Logger
	startingCash      decimal.Decimal
}

// Overview values every position and totals the portfolio. Valuation uses
// the stored prices only; it never calls the provider.
func (s *portfolioService) Overview(ctx context.Context, userID uint) (*dto.PortfolioResponse, error) {
	portfolio, err := s.portfolioRepo.GetOrCreateByUserID(ctx, userID, s.startingCash)
	if err != nil {
		return nil, err
	}

	positions, err := s.portfolioRepo.FindPositions(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PortfolioResponse{
		Cash:                portfolio.Cash,
		Positions:           make([]dto.PositionResponse, 0, len(positions)),
		TotalPositionsValue: decimal.Zero,
		TotalGain:           decimal.Zero,
	}

	for i := range positions {
		pos := &positions[i]
		effective := entity.EffectivePrice(pos.Stock.LastPrice, pos.AvgPrice)
		value := effective.Mul(decimal.NewFromInt(pos.Quantity))
		gain, gainPercent := entity.PositionGain(effective, pos.AvgPrice, pos.Quantity)

		item := dto.PositionResponse{
			Symbol:      pos.Stock.Symbol,
			Name:        pos.Stock.Name,
			Quantity:    pos.Quantity,
			AvgPrice:    pos.AvgPrice,
			Value:       value,
			Gain:        gain,
			GainPercent: gainPercent,
		}
		if pos.Stock.LastPrice.Valid {
			price := pos.Stock.LastPrice.Decimal
			item.LastPrice = &price
		}

		resp.Positions = append(resp.Positions, item)
		resp.TotalPositionsValue = resp.TotalPositionsValue.Add(value)
		resp.TotalGain = resp.TotalGain.Add(gain)
	}

	resp.TotalValue = portfolio.Cash.Add(resp.TotalPositionsValue)
	return resp, nil
}

// PlaceOrder runs the order state machine: price the symbol, validate the
// order against the portfolio, settle atomically. Rejections leave the
// ledger untouched.
func (s *portfolioService) PlaceOrder(ctx context.Context, userID uint, req *dto.OrderRequest) (*dto.OrderResponse, error) {
	side := strings.ToUpper(strings.TrimSpace(req.Side))
	if side != entity.TransactionTypeBuy && side != entity.TransactionTypeSell {
		return nil, entity.ErrInvalidSide
	}
	if req.Quantity <= 0 {
		return nil, entity.ErrInvalidQuantity
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	stock, err := s.stockRepo.FindBySymbol(ctx, symbol)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrUnknownSymbol
	}
	if err != nil {
		return nil, err
	}

	price, err := s.resolveExecutionPrice(ctx, stock)
	if err != nil {
		return nil, err
	}

	portfolio, err := s.portfolioRepo.GetOrCreateByUserID(ctx, userID, s.startingCash)
	if err != nil {
		return nil, err
	}

	record, err := s.portfolioRepo.ExecuteOrder(ctx, portfolio.ID, stock, side, req.Quantity, price)
	if err != nil {
		if isRejection(err) {
			s.metrics.OrdersRejected.Inc()
		}
		return nil, err
	}

	total := price.Mul(decimal.NewFromInt(req.Quantity))
	s.metrics.OrdersSettled.WithLabelValues(side).Inc()
	s.log.InfoContext(ctx, "Order settled",
		logger.StringField("symbol", stock.Symbol),
		logger.StringField("side", side),
		logger.Field("quantity", req.Quantity),
		logger.StringField("price", price.String()))
	s.notifyOrder(stock.Symbol, side, req.Quantity, price)

	return &dto.OrderResponse{
		TransactionID: record.ID,
		Symbol:        stock.Symbol,
		Side:          side,
		Quantity:      req.Quantity,
		Price:         price,
		Total:         total,
		ExecutedAt:    record.CreatedAt,
	}, nil
}

// resolveExecutionPrice attempts a fresh quote and persists it on success.
// A provider failure falls back to the stock's stored last price; with no
// stored price either, the order is rejected.
func (s *portfolioService) resolveExecutionPrice(ctx context.Context, stock *entity.Stock) (decimal.Decimal, error) {
	q, err := s.quoteRepo.GetPrice(ctx, stock.Symbol)
	if err == nil {
		if err := s.stockRepo.UpdatePrice(ctx, stock, q.Price, q.Raw); err != nil {
			return decimal.Zero, err
		}
	} else {
		s.metrics.QuoteFailures.Inc()
		s.log.DebugContext(ctx, "Quote unavailable, using stored price",
			logger.StringField("symbol", stock.Symbol), logger.ErrorField(err))
	}

	if !stock.LastPrice.Valid {
		return decimal.Zero, entity.ErrPriceUnavailable
	}
	return stock.LastPrice.Decimal, nil
}

// ExecuteCashOperation deposits or withdraws cash and appends the matching
// ledger record atomically.
func (s *portfolioService) ExecuteCashOperation(ctx context.Context, userID uint, req *dto.CashRequest) (*dto.CashOperationResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, entity.ErrInvalidAmount
	}

	portfolio, err := s.portfolioRepo.GetOrCreateByUserID(ctx, userID, s.startingCash)
	if err != nil {
		return nil, err
	}

	var op *entity.CashOperation
	switch strings.ToUpper(strings.TrimSpace(req.Type)) {
	case entity.CashOperationIn:
		op, err = s.portfolioRepo.Deposit(ctx, portfolio.ID, req.Amount, req.Note)
	case entity.CashOperationOut:
		op, err = s.portfolioRepo.Withdraw(ctx, portfolio.ID, req.Amount, req.Note)
	default:
		return nil, entity.ErrInvalidAmount
	}
	if err != nil {
		return nil, err
	}

	s.metrics.CashOperations.WithLabelValues(op.Type).Inc()
	return &dto.CashOperationResponse{
		ID:        op.ID,
		Type:      op.Type,
		Amount:    op.Amount,
		Note:      op.Note,
		CreatedAt: op.CreatedAt,
	}, nil
}

// Transactions lists the portfolio's executed orders, newest first.
func (s *portfolioService) Transactions(ctx context.Context, userID uint) ([]dto.TransactionResponse, error) {
	portfolio, err := s.portfolioRepo.GetOrCreateByUserID(ctx, userID, s.startingCash)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.FindByPortfolioID(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		txn := &transactions[i]
		resp = append(resp, dto.TransactionResponse{
			ID:        txn.ID,
			Symbol:    txn.Stock.Symbol,
			Name:      txn.Stock.Name,
			Type:      txn.Type,
			Quantity:  txn.Quantity,
			Price:     txn.Price,
			CreatedAt: txn.CreatedAt,
		})
	}
	return resp, nil
}

// CashOperations lists the portfolio's recent cash history with the
// current balance.
func (s *portfolioService) CashOperations(ctx context.Context, userID uint) (*dto.CashListResponse, error) {
	portfolio, err := s.portfolioRepo.GetOrCreateByUserID(ctx, userID, s.startingCash)
	if err != nil {
		return nil, err
	}

	operations, err := s.cashOperationRepo.FindByPortfolioID(ctx, portfolio.ID, cashHistoryLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.CashListResponse{
		Cash:       portfolio.Cash,
		Operations: make([]dto.CashOperationResponse, 0, len(operations)),
	}
	for i := range operations {
		op := &operations[i]
		resp.Operations = append(resp.Operations, dto.CashOperationResponse{
			ID:        op.ID,
			Type:      op.Type,
			Amount:    op.Amount,
			Note:      op.Note,
			CreatedAt: op.CreatedAt,
		})
	}
	return resp, nil
}

func (s *portfolioService) notifyOrder(symbol, side string, quantity int64, price decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	msg := fmt.Sprintf("%s %d %s @ %s", side, quantity, symbol, price.StringFixed(2))
	if err := s.notifier.SendMessage(msg); err != nil {
		s.log.Warn("Failed to send order notification", logger.ErrorField(err))
	}
}

// isRejection reports whether the error is a user-facing rejection rather
// than an infrastructure failure.
func isRejection(err error) bool {
	return errors.Is(err, entity.ErrInsufficientFunds) ||
		errors.Is(err, entity.ErrNoHolding) ||
		errors.Is(err, entity.ErrInsufficientHolding) ||
		errors.Is(err, entity.ErrInvalidSide)
}
