package repository

import (
	"context"
	"errors"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PortfolioAggregates carries the four derived fields written back by the
// aggregator in a single update.
type PortfolioAggregates struct {
	TotalValue     decimal.Decimal
	TotalInvested  decimal.Decimal
	TotalGain      decimal.Decimal
	GainPercentage decimal.Decimal
}

// PortfolioRepository defines the interface for portfolio data operations.
type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *entity.Portfolio) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Portfolio, error)
	// FindByIDAndUser resolves a portfolio only when it is owned by the
	// given user; ownership failures are indistinguishable from absence.
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Portfolio, error)
	UpdateAggregates(ctx context.Context, id uuid.UUID, agg PortfolioAggregates) error
}

// NewPortfolioRepository creates a new GORM-based portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

func (r *portfolioRepository) Create(ctx context.Context, portfolio *entity.Portfolio) error {
	return r.db.WithContext(ctx).Create(portfolio).Error
}

func (r *portfolioRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Portfolio, error) {
	var portfolio entity.Portfolio
	if err := r.db.WithContext(ctx).First(&portfolio, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Portfolio, error) {
	var portfolio entity.Portfolio
	err := r.db.WithContext(ctx).
		First(&portfolio, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, err
	}
	return &portfolio, nil
}

func (r *portfolioRepository) UpdateAggregates(ctx context.Context, id uuid.UUID, agg PortfolioAggregates) error {
	return r.db.WithContext(ctx).
		Model(&entity.Portfolio{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_value":     agg.TotalValue,
			"total_invested":  agg.TotalInvested,
			"total_gain":      agg.TotalGain,
			"gain_percentage": agg.GainPercentage,
		}).Error
}
