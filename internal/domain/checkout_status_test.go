package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to CheckoutStep
		want     bool
	}{
		{StepCart, StepShipping, true},
		{StepCart, StepPlaceOrder, false},
		{StepCart, StepAwaitingPayment, false},
		{StepShipping, StepPlaceOrder, true},
		{StepShipping, StepAwaitingPayment, false},
		{StepPlaceOrder, StepAwaitingPayment, true},
		{StepPlaceOrder, StepShipping, true},
		{StepAwaitingPayment, StepPaid, true},
		{StepAwaitingPayment, StepDelivered, false},
		{StepPaid, StepDelivered, true},
		{StepDelivered, StepCart, false},
		{StepDelivered, StepPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestOrderStep(t *testing.T) {
	o := &Order{}
	assert.Equal(t, StepAwaitingPayment, OrderStep(o))

	o.IsPaid = true
	assert.Equal(t, StepPaid, OrderStep(o))

	o.IsDelivered = true
	assert.Equal(t, StepDelivered, OrderStep(o))
	assert.True(t, OrderStep(o).IsTerminal())
}
