package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/backoffice/dto"
	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/entity"
	"golang-invest-backoffice/pkg/telegram"
	"golang-invest-backoffice/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	messages []string
	sendErr  error
}

func (n *fakeNotifier) SendMessage(text string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.messages = append(n.messages, text)
	return nil
}

func newRevaluationFixture(notifier telegram.Notifier) (*fakeStore, *fakeQuoteRepo, RevaluationService) {
	store := newFakeStore()
	quotes := newFakeQuoteRepo()
	log := newTestLogger()

	pricing := NewPricingService(quotes, log)
	aggregator := NewPortfolioAggregator(store.holdings, store.portfolios, log)
	svc := NewRevaluationService(store.repositories(), quotes, pricing, aggregator, log, notifier)
	return store, quotes, svc
}

func seedMarketHolding(store *fakeStore, portfolioID uuid.UUID, symbol, quantity, purchasePrice, currentPrice string) uuid.UUID {
	holding := &entity.Holding{
		ID:             uuid.New(),
		PortfolioID:    portfolioID,
		UserID:         uuid.New(),
		InstrumentType: entity.InstrumentEquity,
		Name:           symbol,
		Symbol:         utils.ToPointer(symbol),
		Quantity:       decimal.RequireFromString(quantity),
		PurchasePrice:  decimal.RequireFromString(purchasePrice),
		PurchaseDate:   time.Now().AddDate(0, -6, 0),
		Status:         entity.HoldingStatusActive,
	}
	ApplyValuation(holding, decimal.RequireFromString(currentPrice))
	store.holdings.holdings[holding.ID] = *holding
	return holding.ID
}

func seedBondHolding(store *fakeStore, portfolioID uuid.UUID, purchaseDate time.Time, rate string) uuid.UUID {
	holding := &entity.Holding{
		ID:             uuid.New(),
		PortfolioID:    portfolioID,
		UserID:         uuid.New(),
		InstrumentType: entity.InstrumentBond,
		Name:           "Treasury Bond",
		Quantity:       decimal.RequireFromString("1"),
		PurchasePrice:  decimal.RequireFromString("100"),
		PurchaseDate:   purchaseDate,
		InterestRate:   decimal.NewNullDecimal(decimal.RequireFromString(rate)),
		Status:         entity.HoldingStatusActive,
	}
	ApplyValuation(holding, decimal.RequireFromString("100"))
	store.holdings.holdings[holding.ID] = *holding
	return holding.ID
}

func TestRunDailyRevaluationMarketQuote(t *testing.T) {
	ctx := context.Background()
	store, quotes, svc := newRevaluationFixture(nil)

	portfolioID := uuid.New()
	store.portfolios.portfolios[portfolioID] = entity.Portfolio{ID: portfolioID, UserID: uuid.New(), Name: "Growth"}
	holdingID := seedMarketHolding(store, portfolioID, "ACME", "10", "100", "100")
	quotes.quotes["ACME"] = repository.Quote{Symbol: "ACME", Price: decimal.RequireFromString("110"), AsOf: time.Now()}

	result, err := svc.RunDailyRevaluation(ctx, time.Now())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.MarketPricesUpdated)
	assert.Equal(t, 0, result.AccrualsUpdated)
	assert.Equal(t, 1, result.PortfoliosUpdated)
	assert.Empty(t, result.Errors)
	assert.Equal(t, uint(1), result.RunID)

	holding, err := store.holdings.FindByID(ctx, holdingID)
	require.NoError(t, err)
	assertDecimal(t, "110", holding.CurrentPrice)
	assertDecimal(t, "1100", holding.TotalValue)

	portfolio := store.portfolios.portfolios[portfolioID]
	assertDecimal(t, "1100", portfolio.TotalValue)
	assertDecimal(t, "100", portfolio.TotalGain)

	run, err := svc.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.True(t, run.Success)
	assert.Equal(t, 1, run.MarketPricesUpdated)
}

func TestRunDailyRevaluationUnchangedQuoteSkipsWrite(t *testing.T) {
	ctx := context.Background()
	store, quotes, svc := newRevaluationFixture(nil)

	portfolioID := uuid.New()
	store.portfolios.portfolios[portfolioID] = entity.Portfolio{ID: portfolioID, UserID: uuid.New(), Name: "Flat"}
	seedMarketHolding(store, portfolioID, "ACME", "10", "100", "110")
	quotes.quotes["ACME"] = repository.Quote{Symbol: "ACME", Price: decimal.RequireFromString("110")}

	result, err := svc.RunDailyRevaluation(ctx, time.Now())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.MarketPricesUpdated)
	assert.Equal(t, 0, result.PortfoliosUpdated)
	assert.Zero(t, store.holdings.updateCalls)
	assert.Zero(t, store.portfolios.aggregateCalls)
}

func TestRunDailyRevaluationAbsentQuoteKeepsPrice(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newRevaluationFixture(nil)

	portfolioID := uuid.New()
	store.portfolios.portfolios[portfolioID] = entity.Portfolio{ID: portfolioID, UserID: uuid.New(), Name: "Thin"}
	holdingID := seedMarketHolding(store, portfolioID, "OBSCURE", "10", "100", "105")

	result, err := svc.RunDailyRevaluation(ctx, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, result.MarketPricesUpdated)
	assert.Zero(t, store.holdings.updateCalls)

	holding, err := store.holdings.FindByID(ctx, holdingID)
	require.NoError(t, err)
	assertDecimal(t, "105", holding.CurrentPrice)
}

func TestRunDailyRevaluationAccrual(t *testing.T) {
	ctx := context.Background()
	store, _, svc := newRevaluationFixture(nil)

	asOf := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	portfolioID := uuid.New()
	store.portfolios.portfolios[portfolioID] = entity.Portfolio{ID: portfolioID, UserID: uuid.New(), Name: "Income"}
	holdingID := seedBondHolding(store, portfolioID, asOf.AddDate(0, 0, -365), "10")

	result, err := svc.RunDailyRevaluation(ctx, asOf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.AccrualsUpdated)
	assert.Equal(t, 0, result.MarketPricesUpdated)
	assert.Equal(t, 1, result.PortfoliosUpdated)

	holding, err := store.holdings.FindByID(ctx, holdingID)
	require.NoError(t, err)
	assertDecimal(t, "110", holding.CurrentPrice)
	assertDecimal(t, "110", holding.TotalValue)

	// A second run on the same day finds nothing to advance.
	second, err := svc.RunDailyRevaluation(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, second.AccrualsUpdated)
	assert.Equal(t, 0, second.PortfoliosUpdated)
}

func TestRunDailyRevaluationRecordsHoldingErrors(t *testing.T) {
	ctx := context.Background()
	store, quotes, svc := newRevaluationFixture(nil)

	portfolioID := uuid.New()
	store.portfolios.portfolios[portfolioID] = entity.Portfolio{ID: portfolioID, UserID: uuid.New(), Name: "Mixed"}
	brokenID := seedMarketHolding(store, portfolioID, "BRKN", "10", "100", "100")
	healthyID := seedMarketHolding(store, portfolioID, "GOOD", "10", "100", "100")

	quotes.quotes["BRKN"] = repository.Quote{Symbol: "BRKN", Price: decimal.RequireFromString("120")}
	quotes.quotes["GOOD"] = repository.Quote{Symbol: "GOOD", Price: decimal.RequireFromString("110")}
	store.holdings.failUpdate[brokenID] = errors.New("row busy")

	result, err := svc.RunDailyRevaluation(ctx, time.Now())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.MarketPricesUpdated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "holding", result.Errors[0].Scope)
	assert.Equal(t, brokenID.String(), result.Errors[0].ID)

	healthy, err := store.holdings.FindByID(ctx, healthyID)
	require.NoError(t, err)
	assertDecimal(t, "110", healthy.CurrentPrice)

	// The failed holding keeps its stored price and the failure is persisted
	// with the run record.
	broken, err := store.holdings.FindByID(ctx, brokenID)
	require.NoError(t, err)
	assertDecimal(t, "100", broken.CurrentPrice)

	run, err := svc.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.False(t, run.Success)

	var recorded []dto.RevaluationError
	require.NoError(t, json.Unmarshal(run.Errors, &recorded))
	require.Len(t, recorded, 1)
	assert.Equal(t, brokenID.String(), recorded[0].ID)
}

func TestRunDailyRevaluationNotifies(t *testing.T) {
	ctx := context.Background()
	notifier := &fakeNotifier{}
	store, quotes, svc := newRevaluationFixture(notifier)

	portfolioID := uuid.New()
	store.portfolios.portfolios[portfolioID] = entity.Portfolio{ID: portfolioID, UserID: uuid.New(), Name: "Watched"}
	seedMarketHolding(store, portfolioID, "ACME", "10", "100", "100")
	quotes.quotes["ACME"] = repository.Quote{Symbol: "ACME", Price: decimal.RequireFromString("110")}

	_, err := svc.RunDailyRevaluation(ctx, time.Now())
	require.NoError(t, err)

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Market prices updated")
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newRevaluationFixture(nil)

	for i := 0; i < 3; i++ {
		_, err := svc.RunDailyRevaluation(ctx, time.Now())
		require.NoError(t, err)
	}

	runs, err := svc.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, uint(3), runs[0].ID)
	assert.Equal(t, uint(2), runs[1].ID)
}

func TestGetRunUnknown(t *testing.T) {
	_, _, svc := newRevaluationFixture(nil)

	_, err := svc.GetRun(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrRevaluationRunNotFound)
}
