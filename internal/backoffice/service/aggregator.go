package service

import (
	"context"

	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/entity"
	"golang-invest-backoffice/pkg/logger"
	"golang-invest-backoffice/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioAggregator re-derives a portfolio's aggregate fields from its
// ACTIVE holdings. The recompute is total, never incremental, so repeated
// calls without holding changes are idempotent.
type PortfolioAggregator interface {
	Recompute(ctx context.Context, portfolioID uuid.UUID) error
}

// NewPortfolioAggregator creates an aggregator over the given repositories.
// Pass transactional repositories to run the recompute inside a trade unit.
func NewPortfolioAggregator(holdingRepo repository.HoldingRepository, portfolioRepo repository.PortfolioRepository, log *logger.Logger) PortfolioAggregator {
	return &portfolioAggregator{
		holdingRepo:   holdingRepo,
		portfolioRepo: portfolioRepo,
		log:           log,
	}
}

type portfolioAggregator struct {
	holdingRepo   repository.HoldingRepository
	portfolioRepo repository.PortfolioRepository
	log           *logger.Logger
}

func (a *portfolioAggregator) Recompute(ctx context.Context, portfolioID uuid.UUID) error {
	if _, err := a.portfolioRepo.FindByID(ctx, portfolioID); err != nil {
		return err
	}

	holdings, err := a.holdingRepo.Get(ctx, repository.GetHoldingsParam{
		PortfolioID: &portfolioID,
		Status:      utils.ToPointer(entity.HoldingStatusActive),
	})
	if err != nil {
		return err
	}

	agg := sumHoldings(holdings)
	if err := a.portfolioRepo.UpdateAggregates(ctx, portfolioID, agg); err != nil {
		return err
	}

	a.log.DebugContext(ctx, "Portfolio aggregates recomputed",
		logger.StringField("portfolio_id", portfolioID.String()),
		logger.IntField("active_holdings", len(holdings)))

	return nil
}

func sumHoldings(holdings []entity.Holding) repository.PortfolioAggregates {
	totalValue := decimal.Zero
	totalInvested := decimal.Zero
	totalGain := decimal.Zero

	for _, h := range holdings {
		totalValue = totalValue.Add(h.TotalValue)
		totalInvested = totalInvested.Add(h.TotalInvested())
		totalGain = totalGain.Add(h.TotalGain)
	}

	gainPercentage := decimal.Zero
	if !totalInvested.IsZero() {
		gainPercentage = totalGain.Div(totalInvested).Mul(oneHundred)
	}

	return repository.PortfolioAggregates{
		TotalValue:     totalValue,
		TotalInvested:  totalInvested,
		TotalGain:      totalGain,
		GainPercentage: gainPercentage,
	}
}
