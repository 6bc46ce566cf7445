package apperrors

import "errors"

// Not-found errors indicate that a referenced entity does not exist or is
// not owned by the caller. Handlers surface these as 404 and never retry.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does
	// not exist or belongs to another user.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrHoldingNotFound indicates that a holding with the given ID does not
	// exist or belongs to another user.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrInstrumentNotFound indicates that an instrument reference does not
	// resolve to a tradable instrument.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrRevaluationRunNotFound indicates that a revaluation run record does
	// not exist.
	ErrRevaluationRunNotFound = errors.New("revaluation run not found")
)

// Validation errors are user-correctable failures of business rules.
// Handlers surface these as 400 and never retry.
var (
	// ErrInvalidQuantity indicates a zero or negative trade quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrInsufficientQuantity indicates a sell for more units than the
	// holding currently carries.
	ErrInsufficientQuantity = errors.New("insufficient quantity to sell")

	// ErrHoldingClosed indicates a trade against a holding whose quantity
	// already reached zero.
	ErrHoldingClosed = errors.New("holding is closed")

	// ErrInstrumentNotPriced indicates that an instrument resolved but has
	// no positive current price to trade at.
	ErrInstrumentNotPriced = errors.New("instrument has no positive current price")

	// ErrInvalidCurrency indicates an unknown ISO currency code.
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// IsNotFound reports whether err belongs to the not-found class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPortfolioNotFound) ||
		errors.Is(err, ErrHoldingNotFound) ||
		errors.Is(err, ErrInstrumentNotFound) ||
		errors.Is(err, ErrRevaluationRunNotFound)
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInsufficientQuantity) ||
		errors.Is(err, ErrHoldingClosed) ||
		errors.Is(err, ErrInstrumentNotPriced) ||
		errors.Is(err, ErrInvalidCurrency)
}
