package http

import (
	"net/http"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/backoffice/dto"
	"golang-invest-backoffice/internal/backoffice/service"
	"golang-invest-backoffice/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// userIDHeader carries the authenticated caller's id; authentication itself
// happens upstream of this service.
const userIDHeader = "X-User-ID"

// TradeHandler handles HTTP requests for buy and sell operations.
type TradeHandler struct {
	tradeService service.TradeService
	logger       *logger.Logger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeService service.TradeService, logger *logger.Logger) *TradeHandler {
	return &TradeHandler{tradeService: tradeService, logger: logger}
}

// RegisterRoutes registers the trade routes to the Echo group.
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/buy", h.Buy)
	g.POST("/sell", h.Sell)
}

// Buy godoc
// @Summary Execute a buy
// @Description Buys a quantity of an instrument into a portfolio
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "Authenticated user ID"
// @Param   trade  body  dto.BuyRequest  true  "Buy to execute"
// @Success 201 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/buy [post]
func (h *TradeHandler) Buy(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing or invalid user ID"})
	}

	var req dto.BuyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	response, err := h.tradeService.Buy(c.Request().Context(), userID, &req)
	if err != nil {
		return h.mapError(c, err, "Buy failed")
	}

	return c.JSON(http.StatusCreated, response)
}

// Sell godoc
// @Summary Execute a sell
// @Description Sells a quantity out of an existing holding
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   X-User-ID  header  string  true  "Authenticated user ID"
// @Param   trade  body  dto.SellRequest  true  "Sell to execute"
// @Success 201 {object} dto.TradeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /trades/sell [post]
func (h *TradeHandler) Sell(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing or invalid user ID"})
	}

	var req dto.SellRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	response, err := h.tradeService.Sell(c.Request().Context(), userID, &req)
	if err != nil {
		return h.mapError(c, err, "Sell failed")
	}

	return c.JSON(http.StatusCreated, response)
}

func (h *TradeHandler) mapError(c echo.Context, err error, msg string) error {
	switch {
	case apperrors.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case apperrors.IsValidation(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		h.logger.Error(msg, logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
}

// callerID extracts the authenticated user's id from the request headers.
func callerID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Request().Header.Get(userIDHeader))
}
