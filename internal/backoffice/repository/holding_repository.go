package repository

import (
	"context"
	"errors"
	"strings"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetHoldingsParam filters holding queries. Empty fields are ignored.
type GetHoldingsParam struct {
	IDs         []uuid.UUID
	PortfolioID *uuid.UUID
	UserID      *uuid.UUID
	Status      *entity.HoldingStatus
	HasSymbol   *bool
	FixedRate   *bool
}

// HoldingRepository defines the interface for holding data operations.
type HoldingRepository interface {
	Create(ctx context.Context, holding *entity.Holding) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Holding, error)
	// FindByIDForUpdate locks the holding row for the duration of the
	// surrounding transaction to prevent lost updates on quantity.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Holding, error)
	Get(ctx context.Context, param GetHoldingsParam) ([]entity.Holding, error)
	Update(ctx context.Context, holding *entity.Holding) error
	DistinctPortfolioIDs(ctx context.Context, holdingIDs []uuid.UUID) ([]uuid.UUID, error)
}

// NewHoldingRepository creates a new GORM-based holding repository.
func NewHoldingRepository(db *gorm.DB) HoldingRepository {
	return &holdingRepository{db: db}
}

type holdingRepository struct {
	db *gorm.DB
}

func (r *holdingRepository) Create(ctx context.Context, holding *entity.Holding) error {
	return r.db.WithContext(ctx).Create(holding).Error
}

func (r *holdingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Holding, error) {
	var holding entity.Holding
	if err := r.db.WithContext(ctx).First(&holding, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, err
	}
	return &holding, nil
}

func (r *holdingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Holding, error) {
	var holding entity.Holding
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&holding, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, err
	}
	return &holding, nil
}

func (r *holdingRepository) Get(ctx context.Context, param GetHoldingsParam) ([]entity.Holding, error) {
	var holdings []entity.Holding

	qFilter := []string{}
	qFilterParam := []interface{}{}

	if len(param.IDs) > 0 {
		qFilter = append(qFilter, "id IN (?)")
		qFilterParam = append(qFilterParam, param.IDs)
	}

	if param.PortfolioID != nil {
		qFilter = append(qFilter, "portfolio_id = ?")
		qFilterParam = append(qFilterParam, *param.PortfolioID)
	}

	if param.UserID != nil {
		qFilter = append(qFilter, "user_id = ?")
		qFilterParam = append(qFilterParam, *param.UserID)
	}

	if param.Status != nil {
		qFilter = append(qFilter, "status = ?")
		qFilterParam = append(qFilterParam, *param.Status)
	}

	if param.HasSymbol != nil {
		if *param.HasSymbol {
			qFilter = append(qFilter, "symbol IS NOT NULL")
		} else {
			qFilter = append(qFilter, "symbol IS NULL")
		}
	}

	if param.FixedRate != nil && *param.FixedRate {
		qFilter = append(qFilter, "instrument_type IN (?)")
		qFilterParam = append(qFilterParam, []entity.InstrumentType{
			entity.InstrumentBond,
			entity.InstrumentTermDeposit,
		})
		qFilter = append(qFilter, "interest_rate IS NOT NULL")
	}

	query := r.db.WithContext(ctx)
	if len(qFilter) > 0 {
		query = query.Where(strings.Join(qFilter, " AND "), qFilterParam...)
	}

	if err := query.Find(&holdings).Error; err != nil {
		return nil, err
	}

	return holdings, nil
}

func (r *holdingRepository) Update(ctx context.Context, holding *entity.Holding) error {
	return r.db.WithContext(ctx).Save(holding).Error
}

func (r *holdingRepository) DistinctPortfolioIDs(ctx context.Context, holdingIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.Holding{}).
		Distinct("portfolio_id").
		Where("id IN (?)", holdingIDs).
		Pluck("portfolio_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
