package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles the data repositories a service operates on. Inside
// Store.Atomically the bundle is backed by the same database transaction, so
// writes across repositories commit or roll back together.
type Repositories struct {
	Holdings     HoldingRepository
	Portfolios   PortfolioRepository
	Transactions TransactionRepository
	Instruments  InstrumentRepository
	Runs         RevaluationRunRepository
}

// Atomic runs a function against a transactional repository bundle.
type Atomic interface {
	Atomically(ctx context.Context, fn func(repos Repositories) error) error
}

// Store is the GORM-backed repository bundle.
type Store struct {
	db *gorm.DB
	Repositories
}

// NewStore creates a Store over the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db: db,
		Repositories: Repositories{
			Holdings:     NewHoldingRepository(db),
			Portfolios:   NewPortfolioRepository(db),
			Transactions: NewTransactionRepository(db),
			Instruments:  NewInstrumentRepository(db),
			Runs:         NewRevaluationRunRepository(db),
		},
	}
}

// Atomically runs fn inside a database transaction; returning an error rolls
// back every write made through the bundle.
func (s *Store) Atomically(ctx context.Context, fn func(repos Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx).Repositories)
	})
}
