package http

import (
	"net/http"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/backoffice/service"
	"golang-invest-backoffice/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for portfolio views.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id", h.GetPortfolio)
	g.POST("/:id/recompute", h.RecomputePortfolio)
}

// RegisterTransactionRoutes registers the transaction listing route.
func (h *PortfolioHandler) RegisterTransactionRoutes(g *echo.Group) {
	g.GET("", h.GetTransactions)
}

// GetPortfolio godoc
// @Summary Get a portfolio
// @Description Get a portfolio with its active holdings and derived totals
// @Tags portfolios
// @Produce  json
// @Param   X-User-ID  header  string  true  "Authenticated user ID"
// @Param   id  path  string  true  "Portfolio ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolio(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing or invalid user ID"})
	}

	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}

	response, err := h.portfolioService.GetPortfolio(c.Request().Context(), userID, portfolioID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get portfolio", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, response)
}

// RecomputePortfolio godoc
// @Summary Recompute portfolio aggregates
// @Description Fully re-derives the portfolio totals from its active holdings
// @Tags portfolios
// @Produce  json
// @Param   X-User-ID  header  string  true  "Authenticated user ID"
// @Param   id  path  string  true  "Portfolio ID"
// @Success 200 {object} dto.PortfolioResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /portfolios/{id}/recompute [post]
func (h *PortfolioHandler) RecomputePortfolio(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing or invalid user ID"})
	}

	portfolioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid portfolio ID"})
	}

	response, err := h.portfolioService.RecomputePortfolio(c.Request().Context(), userID, portfolioID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to recompute portfolio", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransactions godoc
// @Summary List the caller's transactions
// @Description Lists transactions newest first
// @Tags transactions
// @Produce  json
// @Param   X-User-ID  header  string  true  "Authenticated user ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /transactions [get]
func (h *PortfolioHandler) GetTransactions(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing or invalid user ID"})
	}

	transactions, err := h.portfolioService.GetTransactions(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list transactions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, transactions)
}
