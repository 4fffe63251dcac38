package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

// MemoryRepository keeps sessions in process. Values are stored serialized
// so callers never share memory with the repository.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string][]byte)}
}

func (r *MemoryRepository) GetSession(_ context.Context, userID string) (*domain.CheckoutSession, error) {
	r.mu.RLock()
	data, ok := r.sessions[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var s domain.CheckoutSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *MemoryRepository) UpsertSession(_ context.Context, s *domain.CheckoutSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	r.mu.Lock()
	r.sessions[s.UserID] = data
	r.mu.Unlock()
	return nil
}
