package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrItemNotInCart      = errors.New("item not found in cart")
	ErrInsufficientStock  = errors.New("not enough items in stock")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition  = errors.New("illegal transition of checkout status")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrNotYetPaid         = errors.New("order is not paid yet")
	ErrAlreadyDelivered   = errors.New("order is already delivered")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrPaymentUnavailable = errors.New("payment provider unavailable")
	ErrPricingMismatch    = errors.New("total price does not equal items + shipping + tax")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryExists     = errors.New("category already exists")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError carries one message per offending input field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
