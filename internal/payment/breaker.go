package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/sony/gobreaker/v2"
)

type BreakerSettings struct {
	Name string
	// MaxFailures consecutive transport failures open the breaker.
	MaxFailures uint32
	OpenTimeout time.Duration
}

// Breaker guards an Adapter with a circuit breaker. Declined payments are
// business outcomes and do not count as failures.
type Breaker struct {
	next Adapter
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreaker(next Adapter, s BreakerSettings) *Breaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrPaymentDeclined) ||
				errors.Is(err, ErrIntentNotFound) || errors.Is(err, ErrInvalidAmount)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("payment breaker %s: %s -> %s", name, from, to)
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) CreatePaymentIntent(ctx context.Context, reference string, amount domain.Money, currency string) (string, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.CreatePaymentIntent(ctx, reference, amount, currency)
	})
	if err != nil {
		return "", unavailable(err)
	}
	return v.(string), nil
}

func (b *Breaker) Capture(ctx context.Context, intentID string) (*Capture, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.Capture(ctx, intentID)
	})
	c, _ := v.(*Capture)
	if err != nil {
		return c, unavailable(err)
	}
	return c, nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func unavailable(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", domain.ErrPaymentUnavailable, err)
	}
	return err
}
