package dto

import "time"

// RevaluationError is one holding- or portfolio-level failure captured
// during a batch revaluation run.
type RevaluationError struct {
	Scope string `json:"scope"` // "holding" or "portfolio"
	ID    string `json:"id"`
	Error string `json:"error"`
}

// RevaluationResult is the outcome of one batch revaluation run.
type RevaluationResult struct {
	RunID               uint               `json:"run_id,omitempty"`
	StartedAt           time.Time          `json:"started_at"`
	CompletedAt         time.Time          `json:"completed_at"`
	MarketPricesUpdated int                `json:"market_prices_updated"`
	AccrualsUpdated     int                `json:"accruals_updated"`
	PortfoliosUpdated   int                `json:"portfolios_updated"`
	Success             bool               `json:"success"`
	Errors              []RevaluationError `json:"errors"`
}
