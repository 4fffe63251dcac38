// Package checkout drives a user's session from cart to a paid and
// delivered order.
package checkout

import (
	"context"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/payment"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/pricing"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/validation"
	validatorv10 "github.com/go-playground/validator/v10"
)

type SessionStore interface {
	Load(ctx context.Context, userID string) (*domain.CheckoutSession, error)
	Save(ctx context.Context, session *domain.CheckoutSession) error
}

type OrderService interface {
	Create(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	GetForUser(ctx context.Context, user domain.User, id string) (*domain.Order, error)
	MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error)
	MarkDelivered(ctx context.Context, id string) (*domain.Order, error)
}

type Config struct {
	Pricing        pricing.Policy
	Currency       string
	PaymentTimeout time.Duration
}

type Service struct {
	sessions       SessionStore
	orders         OrderService
	payments       payment.Adapter
	pricing        pricing.Policy
	validate       *validatorv10.Validate
	currency       string
	paymentTimeout time.Duration
}

func NewService(sessions SessionStore, orders OrderService, payments payment.Adapter, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 10 * time.Second
	}
	return &Service{
		sessions:       sessions,
		orders:         orders,
		payments:       payments,
		pricing:        cfg.Pricing,
		validate:       validation.New(),
		currency:       cfg.Currency,
		paymentTimeout: cfg.PaymentTimeout,
	}
}

// View is what the client renders for the current checkout step.
type View struct {
	Session        *domain.CheckoutSession `json:"session"`
	Step           domain.CheckoutStep     `json:"step"`
	Pricing        domain.Pricing          `json:"pricing"`
	PaymentMethods []domain.PaymentMethod  `json:"paymentMethods"`
	LastOrder      *domain.Order           `json:"lastOrder,omitempty"`
}

// ShippingInput is submitted on the shipping step.
type ShippingInput struct {
	domain.ShippingAddress
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" validate:"required,paymentmethod"`
}
