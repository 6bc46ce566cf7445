package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstrumentType classifies how a holding is priced.
type InstrumentType string

const (
	InstrumentEquity             InstrumentType = "EQUITY"
	InstrumentBond               InstrumentType = "BOND"
	InstrumentTermDeposit        InstrumentType = "TERM_DEPOSIT"
	InstrumentPrivateEquity      InstrumentType = "PRIVATE_EQUITY"
	InstrumentFund               InstrumentType = "FUND"
	InstrumentExchangeTradedFund InstrumentType = "ETF"
	InstrumentCryptocurrency     InstrumentType = "CRYPTOCURRENCY"
	InstrumentOther              InstrumentType = "OTHER"
)

// IsFixedRate reports whether the type accrues value from an interest rate
// instead of an external quote.
func (t InstrumentType) IsFixedRate() bool {
	return t == InstrumentBond || t == InstrumentTermDeposit
}

// IsMarketQuoted reports whether the type is priced from an external feed.
func (t InstrumentType) IsMarketQuoted() bool {
	switch t {
	case InstrumentEquity, InstrumentPrivateEquity, InstrumentFund,
		InstrumentExchangeTradedFund, InstrumentCryptocurrency, InstrumentOther:
		return true
	}
	return false
}

// HoldingStatus is the lifecycle state of a holding.
type HoldingStatus string

const (
	HoldingStatusActive HoldingStatus = "ACTIVE"
	HoldingStatusClosed HoldingStatus = "CLOSED"
)

// Holding is a user's position in one instrument within one portfolio.
// CurrentPrice, TotalValue, TotalGain and GainPercentage are derived and
// must only be written through revaluation, never hand-edited.
type Holding struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	PortfolioID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	UserID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	InstrumentType InstrumentType      `gorm:"not null" json:"instrument_type"`
	Name           string              `gorm:"not null" json:"name"`
	Symbol         *string             `json:"symbol"`
	Quantity       decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"quantity"`
	PurchasePrice  decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"purchase_price"`
	PurchaseDate   time.Time           `gorm:"not null" json:"purchase_date"`
	InterestRate   decimal.NullDecimal `gorm:"type:numeric(10,4)" json:"interest_rate"`
	MaturityDate   *time.Time          `json:"maturity_date"`
	CurrentPrice   decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"current_price"`
	TotalValue     decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"total_value"`
	TotalGain      decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"total_gain"`
	GainPercentage decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"gain_percentage"`
	Status         HoldingStatus       `gorm:"not null;default:ACTIVE;index" json:"status"`
	CreatedAt      time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}

// TotalInvested is the cost basis of the position.
func (h *Holding) TotalInvested() decimal.Decimal {
	return h.Quantity.Mul(h.PurchasePrice)
}
