package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingResponse is the DTO for a holding inside a portfolio view.
type HoldingResponse struct {
	ID             uuid.UUID        `json:"id"`
	InstrumentType string           `json:"instrument_type"`
	Name           string           `json:"name"`
	Symbol         *string          `json:"symbol,omitempty"`
	Quantity       decimal.Decimal  `json:"quantity" swaggertype:"string"`
	PurchasePrice  decimal.Decimal  `json:"purchase_price" swaggertype:"string"`
	PurchaseDate   time.Time        `json:"purchase_date"`
	InterestRate   *decimal.Decimal `json:"interest_rate,omitempty" swaggertype:"string"`
	MaturityDate   *time.Time       `json:"maturity_date,omitempty"`
	CurrentPrice   decimal.Decimal  `json:"current_price" swaggertype:"string"`
	TotalValue     decimal.Decimal  `json:"total_value" swaggertype:"string"`
	TotalInvested  decimal.Decimal  `json:"total_invested" swaggertype:"string"`
	TotalGain      decimal.Decimal  `json:"total_gain" swaggertype:"string"`
	GainPercentage decimal.Decimal  `json:"gain_percentage" swaggertype:"string"`
	Status         string           `json:"status"`
}

// PortfolioResponse is the DTO for a portfolio with its derived aggregates.
type PortfolioResponse struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	Name           string            `json:"name"`
	TotalValue     decimal.Decimal   `json:"total_value" swaggertype:"string"`
	TotalInvested  decimal.Decimal   `json:"total_invested" swaggertype:"string"`
	TotalGain      decimal.Decimal   `json:"total_gain" swaggertype:"string"`
	GainPercentage decimal.Decimal   `json:"gain_percentage" swaggertype:"string"`
	Holdings       []HoldingResponse `json:"holdings,omitempty"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
