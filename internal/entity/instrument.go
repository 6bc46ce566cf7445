package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Instrument is a tradable marketplace entry that the buy path resolves.
// LastPrice is the most recent known price, used when the external feed has
// no fresher quote.
type Instrument struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Type         InstrumentType      `gorm:"not null" json:"type"`
	Name         string              `gorm:"not null" json:"name"`
	Symbol       *string             `gorm:"index" json:"symbol"`
	LastPrice    decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"last_price"`
	InterestRate decimal.NullDecimal `gorm:"type:numeric(10,4)" json:"interest_rate"`
	MaturityDate *time.Time          `json:"maturity_date"`
	IsTradable   bool                `gorm:"not null;default:true" json:"is_tradable"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Instrument) TableName() string {
	return "instruments"
}
