package service

import (
	"context"
	"encoding/json"
	"time"

	"golang-invest-backoffice/internal/backoffice/dto"
	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/entity"
	"golang-invest-backoffice/pkg/logger"
	"golang-invest-backoffice/pkg/telegram"
	"golang-invest-backoffice/pkg/utils"

	"github.com/google/uuid"
)

// RevaluationService runs the daily batch revaluation: refresh market-quoted
// prices, advance fixed-rate accruals, re-aggregate touched portfolios.
// Holding- and portfolio-level failures are recorded per item and never
// abort the run.
type RevaluationService interface {
	RunDailyRevaluation(ctx context.Context, asOf time.Time) (*dto.RevaluationResult, error)
	GetRun(ctx context.Context, id uint) (*entity.RevaluationRun, error)
	ListRuns(ctx context.Context, limit int) ([]entity.RevaluationRun, error)
}

// NewRevaluationService creates a new revaluation service. The notifier may
// be nil; run summaries are then only logged and persisted.
func NewRevaluationService(repos repository.Repositories, quoteRepo repository.QuoteRepository, pricing PricingService, aggregator PortfolioAggregator, log *logger.Logger, notifier telegram.Notifier) RevaluationService {
	return &revaluationService{
		repos:      repos,
		quoteRepo:  quoteRepo,
		pricing:    pricing,
		aggregator: aggregator,
		log:        log,
		notifier:   notifier,
	}
}

type revaluationService struct {
	repos      repository.Repositories
	quoteRepo  repository.QuoteRepository
	pricing    PricingService
	aggregator PortfolioAggregator
	log        *logger.Logger
	notifier   telegram.Notifier
}

func (s *revaluationService) RunDailyRevaluation(ctx context.Context, asOf time.Time) (*dto.RevaluationResult, error) {
	result := &dto.RevaluationResult{
		StartedAt: time.Now(),
		Errors:    []dto.RevaluationError{},
	}
	touched := make(map[uuid.UUID]struct{})

	s.log.InfoContext(ctx, "Daily revaluation starting",
		logger.StringField("as_of", asOf.Format(time.RFC3339)))

	if err := s.revalueMarketQuoted(ctx, result, touched); err != nil {
		return nil, err
	}
	if err := s.revalueFixedRate(ctx, asOf, result, touched); err != nil {
		return nil, err
	}
	s.reaggregatePortfolios(ctx, result, touched)

	result.CompletedAt = time.Now()
	result.Success = len(result.Errors) == 0

	s.persistRun(ctx, result)
	s.notifyRun(ctx, result)

	s.log.InfoContext(ctx, "Daily revaluation completed",
		logger.IntField("market_prices_updated", result.MarketPricesUpdated),
		logger.IntField("accruals_updated", result.AccrualsUpdated),
		logger.IntField("portfolios_updated", result.PortfoliosUpdated),
		logger.IntField("errors", len(result.Errors)))

	return result, nil
}

// revalueMarketQuoted bulk-fetches quotes for every distinct symbol held by
// an ACTIVE holding and revalues the holdings whose quote moved.
func (s *revaluationService) revalueMarketQuoted(ctx context.Context, result *dto.RevaluationResult, touched map[uuid.UUID]struct{}) error {
	holdings, err := s.repos.Holdings.Get(ctx, repository.GetHoldingsParam{
		Status:    utils.ToPointer(entity.HoldingStatusActive),
		HasSymbol: utils.ToPointer(true),
	})
	if err != nil {
		return err
	}

	symbolSet := make(map[string]struct{})
	for _, h := range holdings {
		if h.InstrumentType.IsMarketQuoted() && h.Symbol != nil {
			symbolSet[*h.Symbol] = struct{}{}
		}
	}
	symbols := make([]string, 0, len(symbolSet))
	for symbol := range symbolSet {
		symbols = append(symbols, symbol)
	}

	quotes, err := s.quoteRepo.GetQuotes(ctx, symbols)
	if err != nil {
		// The price source never fails the run; holdings keep their
		// stored price until the next pass.
		s.log.ErrorContext(ctx, "Bulk quote fetch failed, keeping stored prices", logger.ErrorField(err))
		quotes = map[string]repository.Quote{}
	}

	for i := range holdings {
		h := &holdings[i]
		if !h.InstrumentType.IsMarketQuoted() || h.Symbol == nil {
			continue
		}
		quote, ok := quotes[*h.Symbol]
		if !ok {
			continue
		}
		if quote.Price.Equal(h.CurrentPrice) {
			continue
		}

		ApplyValuation(h, quote.Price)
		if err := s.repos.Holdings.Update(ctx, h); err != nil {
			result.Errors = append(result.Errors, dto.RevaluationError{
				Scope: "holding",
				ID:    h.ID.String(),
				Error: err.Error(),
			})
			continue
		}
		result.MarketPricesUpdated++
		touched[h.PortfolioID] = struct{}{}
	}

	return nil
}

// revalueFixedRate advances the accrual of every ACTIVE fixed-rate holding
// that carries an interest rate, writing only when the price moved.
func (s *revaluationService) revalueFixedRate(ctx context.Context, asOf time.Time, result *dto.RevaluationResult, touched map[uuid.UUID]struct{}) error {
	holdings, err := s.repos.Holdings.Get(ctx, repository.GetHoldingsParam{
		Status:    utils.ToPointer(entity.HoldingStatusActive),
		FixedRate: utils.ToPointer(true),
	})
	if err != nil {
		return err
	}

	for i := range holdings {
		h := &holdings[i]
		accrued := s.pricing.PriceWithQuote(h, nil, asOf)
		if accrued.Equal(h.CurrentPrice) {
			continue
		}

		ApplyValuation(h, accrued)
		if err := s.repos.Holdings.Update(ctx, h); err != nil {
			result.Errors = append(result.Errors, dto.RevaluationError{
				Scope: "holding",
				ID:    h.ID.String(),
				Error: err.Error(),
			})
			continue
		}
		result.AccrualsUpdated++
		touched[h.PortfolioID] = struct{}{}
	}

	return nil
}

func (s *revaluationService) reaggregatePortfolios(ctx context.Context, result *dto.RevaluationResult, touched map[uuid.UUID]struct{}) {
	for portfolioID := range touched {
		if err := s.aggregator.Recompute(ctx, portfolioID); err != nil {
			result.Errors = append(result.Errors, dto.RevaluationError{
				Scope: "portfolio",
				ID:    portfolioID.String(),
				Error: err.Error(),
			})
			continue
		}
		result.PortfoliosUpdated++
	}
}

func (s *revaluationService) persistRun(ctx context.Context, result *dto.RevaluationResult) {
	errorsJSON, err := json.Marshal(result.Errors)
	if err != nil {
		errorsJSON = []byte("[]")
	}

	run := &entity.RevaluationRun{
		StartedAt:           result.StartedAt,
		CompletedAt:         result.CompletedAt,
		MarketPricesUpdated: result.MarketPricesUpdated,
		AccrualsUpdated:     result.AccrualsUpdated,
		PortfoliosUpdated:   result.PortfoliosUpdated,
		Success:             result.Success,
		Errors:              errorsJSON,
	}
	if err := s.repos.Runs.Create(ctx, run); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist revaluation run", logger.ErrorField(err))
		return
	}
	result.RunID = run.ID
}

func (s *revaluationService) notifyRun(ctx context.Context, result *dto.RevaluationResult) {
	if s.notifier == nil {
		return
	}

	summary := telegram.RunSummary{
		StartedAt:           result.StartedAt,
		CompletedAt:         result.CompletedAt,
		MarketPricesUpdated: result.MarketPricesUpdated,
		AccrualsUpdated:     result.AccrualsUpdated,
		PortfoliosUpdated:   result.PortfoliosUpdated,
	}
	for _, e := range result.Errors {
		summary.Errors = append(summary.Errors, e.Scope+" "+e.ID+": "+e.Error)
	}

	if err := s.notifier.SendMessage(telegram.FormatRunSummary(summary)); err != nil {
		s.log.ErrorContext(ctx, "Failed to send revaluation run summary", logger.ErrorField(err))
	}
}

func (s *revaluationService) GetRun(ctx context.Context, id uint) (*entity.RevaluationRun, error) {
	return s.repos.Runs.FindByID(ctx, id)
}

func (s *revaluationService) ListRuns(ctx context.Context, limit int) ([]entity.RevaluationRun, error) {
	return s.repos.Runs.FindRecent(ctx, limit)
}
