package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-invest-backoffice/internal/apperrors"
	"golang-invest-backoffice/internal/backoffice/dto"
	"golang-invest-backoffice/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTradeService struct {
	buyResp  *dto.TradeResponse
	buyErr   error
	sellResp *dto.TradeResponse
	sellErr  error
}

func (s *stubTradeService) Buy(_ context.Context, _ uuid.UUID, _ *dto.BuyRequest) (*dto.TradeResponse, error) {
	return s.buyResp, s.buyErr
}

func (s *stubTradeService) Sell(_ context.Context, _ uuid.UUID, _ *dto.SellRequest) (*dto.TradeResponse, error) {
	return s.sellResp, s.sellErr
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func performTrade(handler *TradeHandler, path, body, userID string) *httptest.ResponseRecorder {
	e := echo.New()
	handler.RegisterRoutes(e.Group("/trades"))

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBuyHandler(t *testing.T) {
	userID := uuid.New().String()
	body := `{"portfolio_id":"` + uuid.New().String() + `","instrument_id":"` + uuid.New().String() + `","quantity":"10"}`

	t.Run("success", func(t *testing.T) {
		svc := &stubTradeService{buyResp: &dto.TradeResponse{
			TransactionID: uuid.New(),
			HoldingID:     uuid.New(),
			Type:          "BUY",
			Quantity:      decimal.RequireFromString("10"),
			Amount:        decimal.RequireFromString("1010"),
			Currency:      "USD",
		}}
		handler := NewTradeHandler(svc, newTestLogger(t))

		rec := performTrade(handler, "/trades/buy", body, userID)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"currency":"USD"`)
	})

	t.Run("missing user header", func(t *testing.T) {
		handler := NewTradeHandler(&stubTradeService{}, newTestLogger(t))

		rec := performTrade(handler, "/trades/buy", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed payload", func(t *testing.T) {
		handler := NewTradeHandler(&stubTradeService{}, newTestLogger(t))

		rec := performTrade(handler, "/trades/buy", "{not json", userID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		svc := &stubTradeService{buyErr: apperrors.ErrInvalidQuantity}
		handler := NewTradeHandler(svc, newTestLogger(t))

		rec := performTrade(handler, "/trades/buy", body, userID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &stubTradeService{buyErr: apperrors.ErrPortfolioNotFound}
		handler := NewTradeHandler(svc, newTestLogger(t))

		rec := performTrade(handler, "/trades/buy", body, userID)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unexpected error maps to 500", func(t *testing.T) {
		svc := &stubTradeService{buyErr: errors.New("connection reset")}
		handler := NewTradeHandler(svc, newTestLogger(t))

		rec := performTrade(handler, "/trades/buy", body, userID)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}

func TestSellHandler(t *testing.T) {
	userID := uuid.New().String()
	body := `{"holding_id":"` + uuid.New().String() + `","quantity":"4"}`

	t.Run("success", func(t *testing.T) {
		gain := decimal.RequireFromString("35.60")
		svc := &stubTradeService{sellResp: &dto.TradeResponse{
			TransactionID: uuid.New(),
			HoldingID:     uuid.New(),
			Type:          "SELL",
			Quantity:      decimal.RequireFromString("4"),
			Amount:        decimal.RequireFromString("435.60"),
			RealizedGain:  &gain,
			Currency:      "USD",
		}}
		handler := NewTradeHandler(svc, newTestLogger(t))

		rec := performTrade(handler, "/trades/sell", body, userID)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"realized_gain":"35.60"`)
	})

	t.Run("insufficient quantity maps to 400", func(t *testing.T) {
		svc := &stubTradeService{sellErr: apperrors.ErrInsufficientQuantity}
		handler := NewTradeHandler(svc, newTestLogger(t))

		rec := performTrade(handler, "/trades/sell", body, userID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("closed holding maps to 400", func(t *testing.T) {
		svc := &stubTradeService{sellErr: apperrors.ErrHoldingClosed}
		handler := NewTradeHandler(svc, newTestLogger(t))

		rec := performTrade(handler, "/trades/sell", body, userID)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
