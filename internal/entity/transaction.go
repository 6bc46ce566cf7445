package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType identifies the movement recorded by a transaction.
type TransactionType string

const (
	TransactionTypeBuy        TransactionType = "BUY"
	TransactionTypeSell       TransactionType = "SELL"
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
)

// Transaction is an immutable record of a cash or instrument movement.
// For BUY the amount is the total debit (cost + fee); for SELL it is the net
// proceeds after the fee. RealizedGain is only set on SELL records.
type Transaction struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	HoldingID    *uuid.UUID          `gorm:"type:uuid;index" json:"holding_id"`
	Type         TransactionType     `gorm:"not null" json:"type"`
	Amount       decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"amount"`
	Fee          decimal.Decimal     `gorm:"type:numeric(24,8);not null" json:"fee"`
	RealizedGain decimal.NullDecimal `gorm:"type:numeric(24,8)" json:"realized_gain"`
	Currency     string              `gorm:"not null" json:"currency"`
	Status       TransactionStatus   `gorm:"not null" json:"status"`
	Description  string              `json:"description"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
