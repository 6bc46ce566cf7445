package service

import (
	"golang-invest-backoffice/internal/entity"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Valuation holds the derived totals of a position.
type Valuation struct {
	TotalValue     decimal.Decimal
	TotalInvested  decimal.Decimal
	TotalGain      decimal.Decimal
	GainPercentage decimal.Decimal
}

// ComputeValuation derives the totals of a position from its quantity,
// purchase price and current price. A zero cost basis yields a zero gain
// percentage rather than an error.
func ComputeValuation(quantity, purchasePrice, currentPrice decimal.Decimal) Valuation {
	totalValue := quantity.Mul(currentPrice)
	totalInvested := quantity.Mul(purchasePrice)
	totalGain := totalValue.Sub(totalInvested)

	gainPercentage := decimal.Zero
	if !totalInvested.IsZero() {
		gainPercentage = totalGain.Div(totalInvested).Mul(oneHundred)
	}

	return Valuation{
		TotalValue:     totalValue,
		TotalInvested:  totalInvested,
		TotalGain:      totalGain,
		GainPercentage: gainPercentage,
	}
}

// ApplyValuation revalues a holding at the given current price, rewriting
// all derived fields in one place.
func ApplyValuation(holding *entity.Holding, currentPrice decimal.Decimal) {
	v := ComputeValuation(holding.Quantity, holding.PurchasePrice, currentPrice)
	holding.CurrentPrice = currentPrice
	holding.TotalValue = v.TotalValue
	holding.TotalGain = v.TotalGain
	holding.GainPercentage = v.GainPercentage
}
