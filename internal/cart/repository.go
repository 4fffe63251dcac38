package cart

import (
	"context"
	"errors"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionRepository defines the interface for checkout session data operations
type SessionRepository interface {
	GetSession(ctx context.Context, userID string) (*domain.CheckoutSession, error)
	UpsertSession(ctx context.Context, s *domain.CheckoutSession) error
}
