package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuyRequest is the DTO for executing a buy.
type BuyRequest struct {
	PortfolioID  uuid.UUID       `json:"portfolio_id"`
	InstrumentID uuid.UUID       `json:"instrument_id"`
	Quantity     decimal.Decimal `json:"quantity" swaggertype:"string"`
}

// SellRequest is the DTO for executing a sell.
type SellRequest struct {
	HoldingID uuid.UUID       `json:"holding_id"`
	Quantity  decimal.Decimal `json:"quantity" swaggertype:"string"`
}

// TradeResponse describes the outcome of a buy or sell.
type TradeResponse struct {
	TransactionID uuid.UUID        `json:"transaction_id"`
	HoldingID     uuid.UUID        `json:"holding_id"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity" swaggertype:"string"`
	Price         decimal.Decimal  `json:"price" swaggertype:"string"`
	Fee           decimal.Decimal  `json:"fee" swaggertype:"string"`
	Amount        decimal.Decimal  `json:"amount" swaggertype:"string"`
	RealizedGain  *decimal.Decimal `json:"realized_gain,omitempty" swaggertype:"string"`
	Currency      string           `json:"currency"`
	ExecutedAt    time.Time        `json:"executed_at"`
}

// TransactionResponse is the DTO for listing transactions.
type TransactionResponse struct {
	ID           uuid.UUID        `json:"id"`
	HoldingID    *uuid.UUID       `json:"holding_id,omitempty"`
	Type         string           `json:"type"`
	Amount       decimal.Decimal  `json:"amount" swaggertype:"string"`
	Fee          decimal.Decimal  `json:"fee" swaggertype:"string"`
	RealizedGain *decimal.Decimal `json:"realized_gain,omitempty" swaggertype:"string"`
	Currency     string           `json:"currency"`
	Status       string           `json:"status"`
	Description  string           `json:"description,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
