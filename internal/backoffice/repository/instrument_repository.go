package repository

import (
	"context"
	"errors"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstrumentRepository defines the interface for instrument catalog lookups.
type InstrumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Instrument, error)
	FindAllTradable(ctx context.Context) ([]entity.Instrument, error)
}

// NewInstrumentRepository creates a new GORM-based instrument repository.
func NewInstrumentRepository(db *gorm.DB) InstrumentRepository {
	return &instrumentRepository{db: db}
}

type instrumentRepository struct {
	db *gorm.DB
}

func (r *instrumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Instrument, error) {
	var instrument entity.Instrument
	if err := r.db.WithContext(ctx).First(&instrument, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInstrumentNotFound
		}
		return nil, err
	}
	return &instrument, nil
}

func (r *instrumentRepository) FindAllTradable(ctx context.Context) ([]entity.Instrument, error) {
	var instruments []entity.Instrument
	if err := r.db.WithContext(ctx).Where("is_tradable = ?", true).Find(&instruments).Error; err != nil {
		return nil, err
	}
	return instruments, nil
}
