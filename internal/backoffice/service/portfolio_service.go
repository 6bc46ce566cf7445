package service

import (
	"context"

	"golang-invest-backoffice/internal/backoffice/dto"
	"golang-invest-backoffice/internal/backoffice/repository"
	"golang-invest-backoffice/internal/entity"
	"golang-invest-backoffice/pkg/logger"
	"golang-invest-backoffice/pkg/utils"

	"github.com/google/uuid"
)

// PortfolioService serves portfolio views and the on-demand aggregate
// recompute.
type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID, portfolioID uuid.UUID) (*dto.PortfolioResponse, error)
	RecomputePortfolio(ctx context.Context, userID, portfolioID uuid.UUID) (*dto.PortfolioResponse, error)
	GetTransactions(ctx context.Context, userID uuid.UUID) ([]dto.TransactionResponse, error)
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(repos repository.Repositories, aggregator PortfolioAggregator, log *logger.Logger) PortfolioService {
	return &portfolioService{
		repos:      repos,
		aggregator: aggregator,
		log:        log,
	}
}

type portfolioService struct {
	repos      repository.Repositories
	aggregator PortfolioAggregator
	log        *logger.Logger
}

func (s *portfolioService) GetPortfolio(ctx context.Context, userID, portfolioID uuid.UUID) (*dto.PortfolioResponse, error) {
	portfolio, err := s.repos.Portfolios.FindByIDAndUser(ctx, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.repos.Holdings.Get(ctx, repository.GetHoldingsParam{
		PortfolioID: &portfolioID,
		Status:      utils.ToPointer(entity.HoldingStatusActive),
	})
	if err != nil {
		return nil, err
	}

	return mapToPortfolioResponse(portfolio, holdings), nil
}

func (s *portfolioService) RecomputePortfolio(ctx context.Context, userID, portfolioID uuid.UUID) (*dto.PortfolioResponse, error) {
	if _, err := s.repos.Portfolios.FindByIDAndUser(ctx, portfolioID, userID); err != nil {
		return nil, err
	}

	if err := s.aggregator.Recompute(ctx, portfolioID); err != nil {
		return nil, err
	}

	return s.GetPortfolio(ctx, userID, portfolioID)
}

func (s *portfolioService) GetTransactions(ctx context.Context, userID uuid.UUID) ([]dto.TransactionResponse, error) {
	transactions, err := s.repos.Transactions.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response := dto.TransactionResponse{
			ID:          t.ID,
			HoldingID:   t.HoldingID,
			Type:        string(t.Type),
			Amount:      t.Amount,
			Fee:         t.Fee,
			Currency:    t.Currency,
			Status:      string(t.Status),
			Description: t.Description,
			CreatedAt:   t.CreatedAt,
		}
		if t.RealizedGain.Valid {
			gain := t.RealizedGain.Decimal
			response.RealizedGain = &gain
		}
		responses = append(responses, response)
	}
	return responses, nil
}

func mapToPortfolioResponse(portfolio *entity.Portfolio, holdings []entity.Holding) *dto.PortfolioResponse {
	response := &dto.PortfolioResponse{
		ID:             portfolio.ID,
		UserID:         portfolio.UserID,
		Name:           portfolio.Name,
		TotalValue:     portfolio.TotalValue,
		TotalInvested:  portfolio.TotalInvested,
		TotalGain:      portfolio.TotalGain,
		GainPercentage: portfolio.GainPercentage,
		UpdatedAt:      portfolio.UpdatedAt,
	}

	for _, h := range holdings {
		holdingResponse := dto.HoldingResponse{
			ID:             h.ID,
			InstrumentType: string(h.InstrumentType),
			Name:           h.Name,
			Symbol:         h.Symbol,
			Quantity:       h.Quantity,
			PurchasePrice:  h.PurchasePrice,
			PurchaseDate:   h.PurchaseDate,
			MaturityDate:   h.MaturityDate,
			CurrentPrice:   h.CurrentPrice,
			TotalValue:     h.TotalValue,
			TotalInvested:  h.TotalInvested(),
			TotalGain:      h.TotalGain,
			GainPercentage: h.GainPercentage,
			Status:         string(h.Status),
		}
		if h.InterestRate.Valid {
			rate := h.InterestRate.Decimal
			holdingResponse.InterestRate = &rate
		}
		response.Holdings = append(response.Holdings, holdingResponse)
	}

	return response
}
