package repository

import (
	"context"
	"errors"

	"atlasbourse/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PortfolioRepository defines the interface for portfolio and ledger
// operations. Settlement methods run inside a database transaction with the
// portfolio row locked, so concurrent operations against the same portfolio
// serialize and either apply completely or not at all.
type PortfolioRepository interface {
	CreateForUser(ctx context.Context, userID uint, startingCash decimal.Decimal) (*entity.Portfolio, error)
	GetOrCreateByUserID(ctx context.Context, userID uint, startingCash decimal.Decimal) (*entity.Portfolio, error)
	FindPositions(ctx context.Context, portfolioID uint) ([]entity.Position, error)
	ExecuteOrder(ctx context.Context, portfolioID uint, stock *entity.Stock, side string, quantity int64, price decimal.Decimal) (*entity.Transaction, error)
	Deposit(ctx context.Context, portfolioID uint, amount decimal.Decimal, note string) (*entity.CashOperation, error)
	Withdraw(ctx context.Context, portfolioID uint, amount decimal.Decimal, note string) (*entity.CashOperation, error)
}

// NewPortfolioRepository creates a new GORM-based portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

// CreateForUser creates the portfolio for a freshly registered user.
func (r *portfolioRepository) CreateForUser(ctx context.Context, userID uint, startingCash decimal.Decimal) (*entity.Portfolio, error) {
	portfolio := &entity.Portfolio{UserID: userID, Cash: startingCash}
	if err := r.db.WithContext(ctx).Create(portfolio).Error; err != nil {
		return nil, err
	}
	return portfolio, nil
}

// GetOrCreateByUserID returns the user's portfolio, creating it lazily on
// first access.
func (r *portfolioRepository) GetOrCreateByUserID(ctx context.Context, userID uint, startingCash decimal.Decimal) (*entity.Portfolio, error) {
	var portfolio entity.Portfolio
	err := r.db.WithContext(ctx).
		Where(entity.Portfolio{UserID: userID}).
		Attrs(entity.Portfolio{Cash: startingCash}).
		FirstOrCreate(&portfolio).Error
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// FindPositions retrieves the portfolio's open positions with their stocks.
func (r *portfolioRepository) FindPositions(ctx context.Context, portfolioID uint) ([]entity.Position, error) {
	var positions []entity.Position
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("portfolio_id = ?", portfolioID).
		Order("id").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

// ExecuteOrder settles a validated, priced order: cash mutation, position
// mutation and transaction record in one database transaction. Balance and
// holding checks run against the locked row, so a rejection rolls back with
// nothing applied.
func (r *portfolioRepository) ExecuteOrder(ctx context.Context, portfolioID uint, stock *entity.Stock, side string, quantity int64, price decimal.Decimal) (*entity.Transaction, error) {
	total := price.Mul(decimal.NewFromInt(quantity))
	record := &entity.Transaction{
		PortfolioID: portfolioID,
		StockID:     stock.ID,
		Type:        side,
		Quantity:    quantity,
		Price:       price,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var portfolio entity.Portfolio
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&portfolio, portfolioID).Error; err != nil {
			return err
		}

		switch side {
		case entity.TransactionTypeBuy:
			if portfolio.Cash.LessThan(total) {
				return entity.ErrInsufficientFunds
			}
			if err := tx.Model(&portfolio).
				Update("cash", portfolio.Cash.Sub(total)).Error; err != nil {
				return err
			}
			if err := applyBuyPosition(tx, portfolioID, stock.ID, quantity, price); err != nil {
				return err
			}

		case entity.TransactionTypeSell:
			var position entity.Position
			err := tx.Where("portfolio_id = ? AND stock_id = ?", portfolioID, stock.ID).
				First(&position).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrNoHolding
			}
			if err != nil {
				return err
			}
			if position.Quantity < quantity {
				return entity.ErrInsufficientHolding
			}

			remaining := position.Quantity - quantity
			if remaining == 0 {
				if err := tx.Delete(&position).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Model(&position).
					Update("quantity", remaining).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&portfolio).
				Update("cash", portfolio.Cash.Add(total)).Error; err != nil {
				return err
			}

		default:
			return entity.ErrInvalidSide
		}

		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// applyBuyPosition creates the position on first buy or blends the average
// cost basis on subsequent buys.
func applyBuyPosition(tx *gorm.DB, portfolioID, stockID uint, quantity int64, price decimal.Decimal) error {
	var position entity.Position
	err := tx.Where("portfolio_id = ? AND stock_id = ?", portfolioID, stockID).
		First(&position).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&entity.Position{
			PortfolioID: portfolioID,
			StockID:     stockID,
			Quantity:    quantity,
			AvgPrice:    price,
		}).Error
	}
	if err != nil {
		return err
	}

	newAvg := entity.BlendAveragePrice(position.Quantity, position.AvgPrice, quantity, price)
	return tx.Model(&position).Updates(map[string]interface{}{
		"quantity":  position.Quantity + quantity,
		"avg_price": newAvg,
	}).Error
}

// Deposit credits cash and appends the IN record atomically.
func (r *portfolioRepository) Deposit(ctx context.Context, portfolioID uint, amount decimal.Decimal, note string) (*entity.CashOperation, error) {
	op := &entity.CashOperation{
		PortfolioID: portfolioID,
		Type:        entity.CashOperationIn,
		Amount:      amount,
		Note:        note,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var portfolio entity.Portfolio
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&portfolio, portfolioID).Error; err != nil {
			return err
		}
		if err := tx.Model(&portfolio).
			Update("cash", portfolio.Cash.Add(amount)).Error; err != nil {
			return err
		}
		return tx.Create(op).Error
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Withdraw debits cash and appends the OUT record atomically, rejecting
// when the balance is too low.
func (r *portfolioRepository) Withdraw(ctx context.Context, portfolioID uint, amount decimal.Decimal, note string) (*entity.CashOperation, error) {
	op := &entity.CashOperation{
		PortfolioID: portfolioID,
		Type:        entity.CashOperationOut,
		Amount:      amount,
		Note:        note,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var portfolio entity.Portfolio
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&portfolio, portfolioID).Error; err != nil {
			return err
		}
		if portfolio.Cash.LessThan(amount) {
			return entity.ErrInsufficientFunds
		}
		if err := tx.Model(&portfolio).
			Update("cash", portfolio.Cash.Sub(amount)).Error; err != nil {
			return err
		}
		return tx.Create(op).Error
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}
