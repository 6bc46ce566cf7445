package service

import (
	"context"
	"fmt"
	"time"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/backoffice/config"
	"golang-invest-backoffice/internal/backoffice/dto"
	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/entity"
	"golang-invest-backoffice/pkg/logger"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultFeeRate = "0.01"

// TradeService executes buy and sell operations. Each operation is one
// atomic unit: holding mutation, transaction record and portfolio aggregate
// recompute commit together or not at all.
type TradeService interface {
	Buy(ctx context.Context, userID uuid.UUID, req *dto.BuyRequest) (*dto.TradeResponse, error)
	Sell(ctx context.Context, userID uuid.UUID, req *dto.SellRequest) (*dto.TradeResponse, error)
}

// NewTradeService creates a new trade service. The configured currency must
// be a known ISO code; the fee rate falls back to 1% when unset or invalid.
func NewTradeService(store repository.Atomic, quoteRepo repository.QuoteRepository, log *logger.Logger, cfg *config.Config) (TradeService, error) {
	feeRate, err := decimal.NewFromString(cfg.Trading.FeeRate)
	if err != nil || feeRate.IsNegative() {
		feeRate, _ = decimal.NewFromString(defaultFeeRate)
	}

	currency := cfg.Trading.Currency
	if currency == "" {
		currency = money.USD
	}
	if money.GetCurrency(currency) == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidCurrency, currency)
	}

	return &tradeService{
		store:     store,
		quoteRepo: quoteRepo,
		log:       log,
		feeRate:   feeRate,
		currency:  currency,
	}, nil
}

type tradeService struct {
	store     repository.Atomic
	quoteRepo repository.QuoteRepository
	log       *logger.Logger
	feeRate   decimal.Decimal
	currency  string
}

func (s *tradeService) Buy(ctx context.Context, userID uuid.UUID, req *dto.BuyRequest) (*dto.TradeResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, apperrors.ErrInvalidQuantity
	}

	var response *dto.TradeResponse
	err := s.store.Atomically(ctx, func(repos repository.Repositories) error {
		if _, err := repos.Portfolios.FindByIDAndUser(ctx, req.PortfolioID, userID); err != nil {
			return err
		}

		instrument, err := repos.Instruments.FindByID(ctx, req.InstrumentID)
		if err != nil {
			return err
		}
		if !instrument.IsTradable {
			return apperrors.ErrInstrumentNotFound
		}

		currentPrice := s.instrumentPrice(ctx, instrument)
		if !currentPrice.IsPositive() {
			return apperrors.ErrInstrumentNotPriced
		}

		cost := req.Quantity.Mul(currentPrice)
		fee := cost.Mul(s.feeRate)
		totalDebit := cost.Add(fee)
		now := time.Now()

		// Each buy is its own holding row; existing positions in the same
		// instrument are not merged into a weighted-average cost basis.
		holding := &entity.Holding{
			ID:             uuid.New(),
			PortfolioID:    req.PortfolioID,
			UserID:         userID,
			InstrumentType: instrument.Type,
			Name:           instrument.Name,
			Symbol:         instrument.Symbol,
			Quantity:       req.Quantity,
			PurchasePrice:  currentPrice,
			PurchaseDate:   now,
			InterestRate:   instrument.InterestRate,
			MaturityDate:   instrument.MaturityDate,
			Status:         entity.HoldingStatusActive,
		}
		ApplyValuation(holding, currentPrice)

		if err := repos.Holdings.Create(ctx, holding); err != nil {
			return fmt.Errorf("failed to create holding: %w", err)
		}

		transaction := &entity.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			HoldingID:   &holding.ID,
			Type:        entity.TransactionTypeBuy,
			Amount:      totalDebit,
			Fee:         fee,
			Currency:    s.currency,
			Status:      entity.TransactionStatusCompleted,
			Description: fmt.Sprintf("Buy %s %s @ %s", req.Quantity, instrument.Name, currentPrice),
		}
		if err := repos.Transactions.Create(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		aggregator := NewPortfolioAggregator(repos.Holdings, repos.Portfolios, s.log)
		if err := aggregator.Recompute(ctx, req.PortfolioID); err != nil {
			return fmt.Errorf("failed to recompute portfolio aggregates: %w", err)
		}

		response = &dto.TradeResponse{
			TransactionID: transaction.ID,
			HoldingID:     holding.ID,
			Type:          string(entity.TransactionTypeBuy),
			Quantity:      req.Quantity,
			Price:         currentPrice,
			Fee:           fee,
			Amount:        totalDebit,
			Currency:      s.currency,
			ExecutedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Buy executed",
		logger.StringField("user_id", userID.String()),
		logger.StringField("holding_id", response.HoldingID.String()),
		logger.StringField("amount", response.Amount.String()))

	return response, nil
}

func (s *tradeService) Sell(ctx context.Context, userID uuid.UUID, req *dto.SellRequest) (*dto.TradeResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, apperrors.ErrInvalidQuantity
	}

	var response *dto.TradeResponse
	err := s.store.Atomically(ctx, func(repos repository.Repositories) error {
		holding, err := repos.Holdings.FindByIDForUpdate(ctx, req.HoldingID)
		if err != nil {
			return err
		}
		if holding.UserID != userID {
			return apperrors.ErrHoldingNotFound
		}
		if holding.Status != entity.HoldingStatusActive {
			return apperrors.ErrHoldingClosed
		}
		if req.Quantity.GreaterThan(holding.Quantity) {
			return fmt.Errorf("%w: requested %s, holding %s",
				apperrors.ErrInsufficientQuantity, req.Quantity, holding.Quantity)
		}

		currentPrice := holding.CurrentPrice
		proceeds := req.Quantity.Mul(currentPrice)
		fee := proceeds.Mul(s.feeRate)
		netProceeds := proceeds.Sub(fee)
		realizedGain := netProceeds.Sub(req.Quantity.Mul(holding.PurchasePrice))
		now := time.Now()

		holding.Quantity = holding.Quantity.Sub(req.Quantity)
		if holding.Quantity.IsZero() {
			holding.Status = entity.HoldingStatusClosed
		}
		ApplyValuation(holding, currentPrice)

		if err := repos.Holdings.Update(ctx, holding); err != nil {
			return fmt.Errorf("failed to update holding: %w", err)
		}

		transaction := &entity.Transaction{
			ID:           uuid.New(),
			UserID:       userID,
			HoldingID:    &holding.ID,
			Type:         entity.TransactionTypeSell,
			Amount:       netProceeds,
			Fee:          fee,
			RealizedGain: decimal.NewNullDecimal(realizedGain),
			Currency:     s.currency,
			Status:       entity.TransactionStatusCompleted,
			Description:  fmt.Sprintf("Sell %s %s @ %s", req.Quantity, holding.Name, currentPrice),
		}
		if err := repos.Transactions.Create(ctx, transaction); err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		aggregator := NewPortfolioAggregator(repos.Holdings, repos.Portfolios, s.log)
		if err := aggregator.Recompute(ctx, holding.PortfolioID); err != nil {
			return fmt.Errorf("failed to recompute portfolio aggregates: %w", err)
		}

		response = &dto.TradeResponse{
			TransactionID: transaction.ID,
			HoldingID:     holding.ID,
			Type:          string(entity.TransactionTypeSell),
			Quantity:      req.Quantity,
			Price:         currentPrice,
			Fee:           fee,
			Amount:        netProceeds,
			RealizedGain:  &realizedGain,
			Currency:      s.currency,
			ExecutedAt:    now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Sell executed",
		logger.StringField("user_id", userID.String()),
		logger.StringField("holding_id", response.HoldingID.String()),
		logger.StringField("amount", response.Amount.String()))

	return response, nil
}

// instrumentPrice resolves the execution price for a buy: the latest feed
// quote when the instrument carries a symbol, the catalog's last price
// otherwise (or when the feed has nothing fresher).
func (s *tradeService) instrumentPrice(ctx context.Context, instrument *entity.Instrument) decimal.Decimal {
	if instrument.Symbol == nil || !instrument.Type.IsMarketQuoted() {
		return instrument.LastPrice
	}

	quote, err := s.quoteRepo.GetQuote(ctx, *instrument.Symbol)
	if err != nil {
		s.log.WarnContext(ctx, "Quote lookup failed for buy, using last known price",
			logger.ErrorField(err), logger.StringField("symbol", *instrument.Symbol))
		return instrument.LastPrice
	}
	if quote == nil {
		return instrument.LastPrice
	}
	return quote.Price
}
