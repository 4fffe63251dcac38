// Package payment defines the boundary between checkout and payment providers.
package payment

import (
	"context"
	"errors"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

var (
	ErrIntentNotFound = errors.New("payment intent not found")
	ErrInvalidAmount  = errors.New("payment amount must be positive")
	ErrNoReference    = errors.New("payment reference is required")
)

// Capture is the provider's answer to a capture request.
type Capture struct {
	IntentID string
	// Reference is the merchant reference the intent was opened for.
	Reference     string
	TransactionID string
	Success       bool
	Status        string
	Amount        domain.Money
	Currency      string
	PayerEmail    string
	UpdateTime    string
}

// Adapter is implemented by every payment provider. An intent is opened for
// one merchant reference and its captures report that reference back.
// Capture returns an error wrapping domain.ErrPaymentDeclined when the
// provider refuses the payment.
type Adapter interface {
	CreatePaymentIntent(ctx context.Context, reference string, amount domain.Money, currency string) (string, error)
	Capture(ctx context.Context, intentID string) (*Capture, error)
}
