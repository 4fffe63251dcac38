package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/logger"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/orders"
	"github.com/Tashika-Wijesooriya/GemXpert/internal/validation"
	"github.com/google/uuid"
)

// View returns the session after re-checking the step preconditions.
func (s *Service) View(ctx context.Context, user domain.User) (*View, error) {
	session, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user, session), nil
}

// ProceedToCheckout moves a non-empty cart to the shipping step.
func (s *Service) ProceedToCheckout(ctx context.Context, user domain.User) (*View, error) {
	session, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if session.Cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	switch {
	case session.Step == domain.StepShipping:
		return s.view(ctx, user, session), nil
	case !domain.CanTransitionTo(session.Step, domain.StepShipping):
		return nil, illegal(session.Step, domain.StepShipping)
	}

	session.Step = domain.StepShipping
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, user, session), nil
}

// SaveShipping stores the address and payment method and advances to
// PlaceOrder. Nothing is saved when any field is invalid.
func (s *Service) SaveShipping(ctx context.Context, user domain.User, in ShippingInput) (*View, error) {
	in.ShippingAddress = in.ShippingAddress.Normalize()
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	session, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if session.Cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if session.Step != domain.StepShipping && session.Step != domain.StepPlaceOrder {
		return nil, illegal(session.Step, domain.StepPlaceOrder)
	}

	addr := in.ShippingAddress
	session.ShippingAddress = &addr
	session.PaymentMethod = in.PaymentMethod
	session.Step = domain.StepPlaceOrder
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(ctx, user, session), nil
}

// PlaceOrder turns the cart into an unpaid order. On failure the session
// stays at PlaceOrder so the user can retry. The order id is reserved on the
// session first, so a retry after a lost session write returns the order
// already committed instead of creating a second one.
func (s *Service) PlaceOrder(ctx context.Context, user domain.User) (*domain.Order, error) {
	session, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if session.Cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if session.Step != domain.StepPlaceOrder {
		return nil, illegal(session.Step, domain.StepAwaitingPayment)
	}

	if session.PendingOrderID == "" {
		session.PendingOrderID = uuid.NewString()
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}

	draft := domain.OrderDraft{
		ID:              session.PendingOrderID,
		User:            domain.OrderUser{ID: user.ID, Name: user.Name},
		Items:           session.Cart.Snapshot(),
		ShippingAddress: *session.ShippingAddress,
		PaymentMethod:   session.PaymentMethod,
		Pricing:         s.pricing.Compute(&session.Cart, session.ShippingAddress),
		Currency:        s.currency,
	}
	order, err := s.createOrder(ctx, user, draft)
	if err != nil {
		logger.Printf(ctx, "place order for user %s failed: %v", user.ID, err)
		return nil, err
	}

	session.Cart.Clear()
	session.Step = domain.StepAwaitingPayment
	session.LastOrderID = order.ID
	session.PendingOrderID = ""
	if err := s.sessions.Save(ctx, session); err != nil {
		// The order is committed and a retry finds it by the reserved id.
		logger.Errorf(ctx, "order %s placed but session save failed: %v", order.ID, err)
	}
	return order, nil
}

// createOrder creates the draft's order. When an earlier attempt already
// committed an order under the reserved id, that order is returned if it was
// built from the same cart; otherwise the draft gets a fresh id.
func (s *Service) createOrder(ctx context.Context, user domain.User, draft domain.OrderDraft) (*domain.Order, error) {
	order, err := s.orders.Create(ctx, draft)
	if !errors.Is(err, orders.ErrDuplicateOrder) {
		return order, err
	}

	existing, getErr := s.orders.GetForUser(ctx, user, draft.ID)
	if getErr == nil && !existing.IsPaid && existing.Matches(draft) {
		return existing, nil
	}
	draft.ID = uuid.NewString()
	return s.orders.Create(ctx, draft)
}

// load returns the session with the step guard applied, persisting the
// correction when the guard moved it.
func (s *Service) load(ctx context.Context, userID string) (*domain.CheckoutSession, error) {
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Guard() {
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (s *Service) view(ctx context.Context, user domain.User, session *domain.CheckoutSession) *View {
	v := &View{
		Session:        session,
		Step:           session.Step,
		Pricing:        s.pricing.Compute(&session.Cart, session.ShippingAddress),
		PaymentMethods: domain.PaymentMethods(),
	}
	if session.Step != domain.StepAwaitingPayment || session.LastOrderID == "" {
		return v
	}

	order, err := s.orders.GetForUser(ctx, user, session.LastOrderID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			logger.Errorf(ctx, "load last order %s: %v", session.LastOrderID, err)
		}
		return v
	}
	v.LastOrder = order
	v.Step = domain.OrderStep(order)
	return v
}

func illegal(from, to domain.CheckoutStep) error {
	return fmt.Errorf("%w: %s -> %s", domain.ErrIllegalTransition, from, to)
}
