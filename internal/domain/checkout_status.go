package domain

type CheckoutStep string

const (
	StepCart            CheckoutStep = "CART"
	StepShipping        CheckoutStep = "SHIPPING"
	StepPlaceOrder      CheckoutStep = "PLACE_ORDER"
	StepAwaitingPayment CheckoutStep = "AWAITING_PAYMENT"
	StepPaid            CheckoutStep = "PAID"
	StepDelivered       CheckoutStep = "DELIVERED"
)

func (s CheckoutStep) IsTerminal() bool {
	return s == StepDelivered
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}

var transitions = map[CheckoutStep][]CheckoutStep{
	StepCart:            {StepShipping},
	StepShipping:        {StepPlaceOrder, StepCart},
	StepPlaceOrder:      {StepAwaitingPayment, StepShipping, StepCart},
	StepAwaitingPayment: {StepPaid, StepCart},
	StepPaid:            {StepDelivered, StepCart},
}

// CanTransitionTo reports whether the checkout may move from one step to another.
func CanTransitionTo(from, to CheckoutStep) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderStep derives the lifecycle step of a placed order from its flags.
func OrderStep(o *Order) CheckoutStep {
	switch {
	case o.IsDelivered:
		return StepDelivered
	case o.IsPaid:
		return StepPaid
	default:
		return StepAwaitingPayment
	}
}
