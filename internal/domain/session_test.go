package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutSession_Guard_PlaceOrderWithoutAddress(t *testing.T) {
	s := NewCheckoutSession("u1")
	require.NoError(t, s.AddOrUpdate(item("a", 100), 1))
	s.Step = StepPlaceOrder

	changed := s.Guard()

	assert.True(t, changed)
	assert.Equal(t, StepShipping, s.Step)
}

func TestCheckoutSession_Guard_EmptyCartFallsBackToCart(t *testing.T) {
	s := NewCheckoutSession("u1")
	s.ShippingAddress = &ShippingAddress{Address: "x"}
	s.PaymentMethod = PaymentMethodPayPal
	s.Step = StepPlaceOrder

	assert.True(t, s.Guard())
	assert.Equal(t, StepCart, s.Step)
}

func TestCheckoutSession_Guard_Valid(t *testing.T) {
	s := NewCheckoutSession("u1")
	require.NoError(t, s.AddOrUpdate(item("a", 100), 1))
	s.ShippingAddress = &ShippingAddress{Address: "x", City: "y", PostalCode: "12345", Country: "z"}
	s.PaymentMethod = PaymentMethodPayPal
	s.Step = StepPlaceOrder

	assert.False(t, s.Guard())
	assert.Equal(t, StepPlaceOrder, s.Step)
}

func TestCheckoutSession_AddAfterOrderStartsNewCycle(t *testing.T) {
	s := NewCheckoutSession("u1")
	s.Step = StepAwaitingPayment
	s.LastOrderID = "order-1"

	require.NoError(t, s.AddOrUpdate(item("a", 100), 1))

	assert.Equal(t, StepCart, s.Step)
	assert.Equal(t, "order-1", s.LastOrderID)
}
