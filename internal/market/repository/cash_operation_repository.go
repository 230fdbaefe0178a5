package repository

import (
	"context"

	"atlasbourse/internal/entity"

	"gorm.io/gorm"
)

// CashOperationRepository defines the interface for cash history reads.
type CashOperationRepository interface {
	FindByPortfolioID(ctx context.Context, portfolioID uint, limit int) ([]entity.CashOperation, error)
}

// NewCashOperationRepository creates a new GORM-based cash operation repository.
func NewCashOperationRepository(db *gorm.DB) CashOperationRepository {
	return &cashOperationRepository{db: db}
}

type cashOperationRepository struct {
	db *gorm.DB
}

// FindByPortfolioID retrieves the portfolio's most recent cash operations.
func (r *cashOperationRepository) FindByPortfolioID(ctx context.Context, portfolioID uint, limit int) ([]entity.CashOperation, error) {
	tx := r.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var operations []entity.CashOperation
	if err := tx.Find(&operations).Error; err != nil {
		return nil, err
	}
	return operations, nil
}
