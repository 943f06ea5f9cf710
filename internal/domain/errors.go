package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("already exists")
	// ErrMissingID marks a catalog row that cannot be keyed.
	ErrMissingID = errors.New("record has no id")

	ErrSelectionRequired  = errors.New("variant selection required")
	ErrVariantUnavailable = errors.New("variant unavailable")
	ErrNotPurchasable     = errors.New("product not purchasable")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingPriceID     = errors.New("line item has no processor price id")
	ErrIncompleteContact  = errors.New("contact or shipping details incomplete")
	ErrInvalidPromo       = errors.New("invalid promo code")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTotalOutOfRange    = errors.New("cart total out of range")

	// ErrRemote wraps failures of the promo validator or payment session creator.
	ErrRemote = errors.New("remote call failed")
)

// ErrorKind groups user-visible errors for the UI layer.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotPurchasable ErrorKind = "not_purchasable"
)

// ValidationError is an actionable, user-visible failure. It unwraps to its
// sentinel so callers can use errors.Is.
type ValidationError struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a validation-kind error for a sentinel.
func NewValidationError(sentinel error, field, message string) *ValidationError {
	return &ValidationError{Kind: KindValidation, Field: field, Message: message, Err: sentinel}
}

// NewNotPurchasableError builds the add-to-cart block for a product without a price id.
func NewNotPurchasableError() *ValidationError {
	return &ValidationError{
		Kind:    KindNotPurchasable,
		Field:   "productId",
		Message: "This item is not available for purchase right now",
		Err:     ErrNotPurchasable,
	}
}
