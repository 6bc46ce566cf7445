package entity

import (
	"time"

	"gorm.io/datatypes"
)

// RevaluationRun is the persisted outcome of one batch revaluation pass.
// Errors holds the per-holding/per-portfolio failure detail as JSON; the run
// is successful only when that list is empty.
type RevaluationRun struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	StartedAt           time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt         time.Time      `gorm:"not null" json:"completed_at"`
	MarketPricesUpdated int            `gorm:"not null" json:"market_prices_updated"`
	AccrualsUpdated     int            `gorm:"not null" json:"accruals_updated"`
	PortfoliosUpdated   int            `gorm:"not null" json:"portfolios_updated"`
	Success             bool           `gorm:"not null" json:"success"`
	Errors              datatypes.JSON `gorm:"type:jsonb" json:"errors"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (RevaluationRun) TableName() string {
	return "revaluation_runs"
}
