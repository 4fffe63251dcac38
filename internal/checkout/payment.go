package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/logger"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/payment"
)

// Pay captures payment for an order and marks it paid. An empty intentID
// opens a new intent for the order total. A supplied intent must have been
// opened for this order. A declined payment leaves the order unpaid so the
// caller can retry with a fresh intent.
func (s *Service) Pay(ctx context.Context, user domain.User, orderID, intentID string) (*domain.Order, error) {
	order, err := s.orders.GetForUser(ctx, user, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}

	paymentCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	if intentID == "" {
		intentID, err = s.payments.CreatePaymentIntent(paymentCtx, order.ID, order.TotalPrice, order.Currency)
		if err != nil {
			return nil, fmt.Errorf("create payment intent: %w", err)
		}
	}

	capture, err := s.payments.Capture(paymentCtx, intentID)
	if err != nil {
		if errors.Is(err, payment.ErrIntentNotFound) {
			return nil, domain.NewValidationError(map[string]string{"intentId": "intentId unknown"})
		}
		logger.Printf(ctx, "payment for order %s failed: %v", orderID, err)
		return nil, err
	}
	if capture.Reference != order.ID {
		logger.Printf(ctx, "payment for order %s used intent %s opened for %q",
			orderID, intentID, capture.Reference)
		return nil, fmt.Errorf("%w: intent belongs to another order", domain.ErrPaymentDeclined)
	}
	if capture.Amount != order.TotalPrice || capture.Currency != order.Currency {
		logger.Printf(ctx, "payment for order %s captured %s %s, expected %s %s",
			orderID, capture.Amount, capture.Currency, order.TotalPrice, order.Currency)
		return nil, fmt.Errorf("%w: amount mismatch", domain.ErrPaymentDeclined)
	}

	return s.orders.MarkPaid(ctx, orderID, domain.PaymentResult{
		ID:           capture.TransactionID,
		Status:       capture.Status,
		UpdateTime:   capture.UpdateTime,
		EmailAddress: capture.PayerEmail,
	})
}

// Deliver marks a paid order delivered. Admins only.
func (s *Service) Deliver(ctx context.Context, user domain.User, orderID string) (*domain.Order, error) {
	if !user.IsAdmin {
		return nil, domain.ErrForbidden
	}
	return s.orders.MarkDelivered(ctx, orderID)
}
