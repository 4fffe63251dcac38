package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/logger"
	"github.com/google/uuid"
)

// Service owns order records: it enforces the draft invariants on creation
// and publishes an event after every committed change.
type Service struct {
	store          Store
	publisher      Publisher
	publishTimeout time.Duration
	now            func() time.Time
}

func NewService(store Store, publisher Publisher) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		store:          store,
		publisher:      publisher,
		publishTimeout: 5 * time.Second,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	id := draft.ID
	if id == "" {
		id = uuid.NewString()
	}
	order := domain.NewOrder(id, draft, s.now())
	if err := s.store.Create(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, EventOrderCreated, order)
	return order, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.store.Get(ctx, id)
}

// GetForUser returns the order if user owns it or is an admin.
func (s *Service) GetForUser(ctx context.Context, user domain.User, id string) (*domain.Order, error) {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.CanAccess(order.User.ID) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string, result domain.PaymentResult) (*domain.Order, error) {
	order, err := s.store.MarkPaid(ctx, id, result, s.now())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderPaid, order)
	return order, nil
}

func (s *Service) MarkDelivered(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.store.MarkDelivered(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderDelivered, order)
	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.store.List(ctx, Filter{UserID: userID})
}

func (s *Service) List(ctx context.Context, f Filter) ([]*domain.Order, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	order, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	s.publish(ctx, EventOrderDeleted, order)
	return nil
}

// publish is best effort: the order change is already committed.
func (s *Service) publish(ctx context.Context, t EventType, order *domain.Order) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, NewEvent(t, order, s.now())); err != nil {
		logger.Errorf(ctx, "failed to publish %s for order %s: %v", t, order.ID, err)
	}
}
