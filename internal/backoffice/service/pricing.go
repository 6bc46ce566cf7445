package service

import (
	"context"
	"time"

	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/entity"
	"golang-invest-backoffice/pkg/logger"
	"golang-invest-backoffice/pkg/utils"

	"github.com/shopspring/decimal"
)

var (
	one         = decimal.NewFromInt(1)
	daysPerYear = decimal.NewFromInt(365)
)

// PricingService computes a holding's current price under the pricing regime
// of its instrument type. Market-quoted types follow the external feed and
// keep their stored price when no quote is available; fixed-rate types with
// an interest rate accrue daily from the purchase date.
type PricingService interface {
	Price(ctx context.Context, holding *entity.Holding, asOf time.Time) decimal.Decimal
	// PriceWithQuote prices a holding against an already fetched quote
	// (nil when the feed had none); used by the batch job after a bulk
	// fetch so individual holdings don't hit the feed again.
	PriceWithQuote(holding *entity.Holding, quote *repository.Quote, asOf time.Time) decimal.Decimal
}

// NewPricingService creates a new pricing service.
func NewPricingService(quoteRepo repository.QuoteRepository, log *logger.Logger) PricingService {
	return &pricingService{
		quoteRepo: quoteRepo,
		log:       log,
	}
}

type pricingService struct {
	quoteRepo repository.QuoteRepository
	log       *logger.Logger
}

func (s *pricingService) Price(ctx context.Context, holding *entity.Holding, asOf time.Time) decimal.Decimal {
	var quote *repository.Quote
	if holding.InstrumentType.IsMarketQuoted() && holding.Symbol != nil {
		q, err := s.quoteRepo.GetQuote(ctx, *holding.Symbol)
		if err != nil {
			// Stale is better than null: keep the stored price.
			s.log.WarnContext(ctx, "Quote lookup failed, retaining stored price",
				logger.ErrorField(err), logger.StringField("symbol", *holding.Symbol))
		} else {
			quote = q
		}
	}
	return s.PriceWithQuote(holding, quote, asOf)
}

func (s *pricingService) PriceWithQuote(holding *entity.Holding, quote *repository.Quote, asOf time.Time) decimal.Decimal {
	switch {
	case holding.InstrumentType.IsMarketQuoted():
		if quote != nil {
			return quote.Price
		}
		return holding.CurrentPrice
	case holding.InstrumentType.IsFixedRate() && holding.InterestRate.Valid:
		return accruedPrice(holding.PurchasePrice, holding.InterestRate.Decimal, holding.PurchaseDate, asOf)
	default:
		return holding.CurrentPrice
	}
}

// accruedPrice computes simple daily accrual:
// purchasePrice * (1 + rate/100 * daysHeld/365), daysHeld floored at 0.
func accruedPrice(purchasePrice, interestRate decimal.Decimal, purchaseDate, asOf time.Time) decimal.Decimal {
	daysHeld := decimal.NewFromInt(int64(utils.DaysBetween(purchaseDate, asOf)))
	growth := interestRate.Div(oneHundred).Mul(daysHeld).Div(daysPerYear)
	return purchasePrice.Mul(one.Add(growth))
}
