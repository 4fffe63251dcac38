package domain

import "time"

// CheckoutSession is the per-user cart together with the checkout progress
// and the shipping details saved between steps.
type CheckoutSession struct {
	ID              string           `json:"-" bson:"_id,omitempty"`
	UserID          string           `json:"userId" bson:"user_id"`
	Cart            Cart             `json:"cart" bson:"cart"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty" bson:"shipping_address,omitempty"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod,omitempty" bson:"payment_method,omitempty"`
	Step            CheckoutStep     `json:"step" bson:"step"`
	LastOrderID     string           `json:"lastOrderId,omitempty" bson:"last_order_id,omitempty"`
	// PendingOrderID is reserved before the order is created so a retried
	// PlaceOrder lands on the same record.
	PendingOrderID string    `json:"pendingOrderId,omitempty" bson:"pending_order_id,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updated_at"`
}

func NewCheckoutSession(userID string) *CheckoutSession {
	now := time.Now().UTC()
	return &CheckoutSession{
		UserID:    userID,
		Step:      StepCart,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddOrUpdate changes the cart. Adding to a session whose order was already
// placed starts a new checkout cycle.
func (s *CheckoutSession) AddOrUpdate(item CartItem, quantity int) error {
	if err := s.Cart.AddOrUpdate(item, quantity); err != nil {
		return err
	}
	if s.Step == StepAwaitingPayment {
		s.Step = StepCart
	}
	return nil
}

// Guard moves the session back to the earliest step whose preconditions
// still hold. It reports whether the step changed.
func (s *CheckoutSession) Guard() bool {
	before := s.Step
	if s.Step == "" {
		s.Step = StepCart
	}
	switch s.Step {
	case StepShipping:
		if s.Cart.IsEmpty() {
			s.Step = StepCart
		}
	case StepPlaceOrder:
		switch {
		case s.Cart.IsEmpty():
			s.Step = StepCart
		case !s.HasShippingDetails():
			s.Step = StepShipping
		}
	}
	return s.Step != before
}

func (s *CheckoutSession) HasShippingDetails() bool {
	return s.ShippingAddress != nil && s.ShippingAddress.Address != "" && s.PaymentMethod != ""
}
