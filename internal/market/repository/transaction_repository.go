package repository

import (
	"context"

	"atlasbourse/internal/entity"

	"gorm.io/gorm"
)

// TransactionRepository defines the interface for transaction history reads.
type TransactionRepository interface {
	FindByPortfolioID(ctx context.Context, portfolioID uint) ([]entity.Transaction, error)
}

// NewTransactionRepository creates a new GORM-based transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

type transactionRepository struct {
	db *gorm.DB
}

// FindByPortfolioID retrieves the portfolio's transactions, newest first.
func (r *transactionRepository) FindByPortfolioID(ctx context.Context, portfolioID uint) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("portfolio_id = ?", portfolioID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
