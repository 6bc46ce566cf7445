package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Portfolio is a named collection of a user's holdings. The aggregate fields
// are fully re-derived from the ACTIVE holdings by the aggregator, never
// incrementally patched.
type Portfolio struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string          `gorm:"not null" json:"name"`
	TotalValue     decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"total_value"`
	TotalInvested  decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"total_invested"`
	TotalGain      decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"total_gain"`
	GainPercentage decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"gain_percentage"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
