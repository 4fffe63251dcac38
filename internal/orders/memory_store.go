package orders

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
)

// MemoryStore implements Store with in-memory storage
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*domain.Order)}
}

func (s *MemoryStore) Create(_ context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return ErrDuplicateOrder
	}
	s.orders[order.ID] = clone(order)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return clone(o), nil
}

func (s *MemoryStore) MarkPaid(_ context.Context, id string, result domain.PaymentResult, at time.Time) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := o.MarkPaid(result, at); err != nil {
		return nil, err
	}
	return clone(o), nil
}

func (s *MemoryStore) MarkDelivered(_ context.Context, id string, at time.Time) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if err := o.MarkDelivered(at); err != nil {
		return nil, err
	}
	return clone(o), nil
}

// List returns matching orders, newest first.
func (s *MemoryStore) List(_ context.Context, f Filter) ([]*domain.Order, error) {
	if _, _, _, err := f.DateRange(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.Matches(o) {
			result = append(result, clone(o))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func clone(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.CartItem(nil), o.Items...)
	if o.PaidAt != nil {
		t := *o.PaidAt
		c.PaidAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		c.DeliveredAt = &t
	}
	if o.PaymentResult != nil {
		r := *o.PaymentResult
		c.PaymentResult = &r
	}
	return &c
}
