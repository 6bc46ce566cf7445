package repository

import (
	"context"

	"golang-invest-backoffice/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for transaction data operations.
// Transactions are immutable once created.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Transaction, error)
}

// NewTransactionRepository creates a new GORM-based transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
