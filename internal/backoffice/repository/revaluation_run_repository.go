package repository

import (
	"context"
	"errors"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/entity"

	"gorm.io/gorm"
)

// RevaluationRunRepository defines the interface for revaluation run history.
type RevaluationRunRepository interface {
	Create(ctx context.Context, run *entity.RevaluationRun) error
	FindByID(ctx context.Context, id uint) (*entity.RevaluationRun, error)
	FindRecent(ctx context.Context, limit int) ([]entity.RevaluationRun, error)
}

// NewRevaluationRunRepository creates a new GORM-based run repository.
func NewRevaluationRunRepository(db *gorm.DB) RevaluationRunRepository {
	return &revaluationRunRepository{db: db}
}

type revaluationRunRepository struct {
	db *gorm.DB
}

func (r *revaluationRunRepository) Create(ctx context.Context, run *entity.RevaluationRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *revaluationRunRepository) FindByID(ctx context.Context, id uint) (*entity.RevaluationRun, error) {
	var run entity.RevaluationRun
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRevaluationRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (r *revaluationRunRepository) FindRecent(ctx context.Context, limit int) ([]entity.RevaluationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []entity.RevaluationRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
