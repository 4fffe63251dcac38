package domain

import (
	"fmt"
	"time"
)

type Pricing struct {
	ItemsPrice    Money `json:"itemsPrice" bson:"items_price"`
	ShippingPrice Money `json:"shippingPrice" bson:"shipping_price"`
	TaxPrice      Money `json:"taxPrice" bson:"tax_price"`
	TotalPrice    Money `json:"totalPrice" bson:"total_price"`
}

// Balanced reports whether TotalPrice equals the sum of its components.
func (p Pricing) Balanced() bool {
	return p.TotalPrice == p.ItemsPrice+p.ShippingPrice+p.TaxPrice
}

type OrderUser struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

type PaymentResult struct {
	ID           string `json:"id" bson:"id"`
	Status       string `json:"status" bson:"status"`
	UpdateTime   string `json:"updateTime" bson:"update_time"`
	EmailAddress string `json:"emailAddress,omitempty" bson:"email_address,omitempty"`
}

type Order struct {
	ID              string          `json:"id" bson:"_id"`
	User            OrderUser       `json:"user" bson:"user"`
	Items           []CartItem      `json:"orderItems" bson:"order_items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" bson:"payment_method"`
	Pricing         `bson:",inline"`
	Currency        string         `json:"currency" bson:"currency"`
	IsPaid          bool           `json:"isPaid" bson:"is_paid"`
	PaidAt          *time.Time     `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	PaymentResult   *PaymentResult `json:"paymentResult,omitempty" bson:"payment_result,omitempty"`
	IsDelivered     bool           `json:"isDelivered" bson:"is_delivered"`
	DeliveredAt     *time.Time     `json:"deliveredAt,omitempty" bson:"delivered_at,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updated_at"`
}

// MarkPaid flips IsPaid exactly once.
func (o *Order) MarkPaid(result PaymentResult, at time.Time) error {
	if o.IsPaid {
		return ErrAlreadyPaid
	}
	o.IsPaid = true
	o.PaidAt = &at
	o.PaymentResult = &result
	o.UpdatedAt = at
	return nil
}

// MarkDelivered flips IsDelivered exactly once and only after payment.
func (o *Order) MarkDelivered(at time.Time) error {
	if !o.IsPaid {
		return ErrNotYetPaid
	}
	if o.IsDelivered {
		return ErrAlreadyDelivered
	}
	o.IsDelivered = true
	o.DeliveredAt = &at
	o.UpdatedAt = at
	return nil
}

// OrderDraft is everything needed to create an order record. An empty ID
// lets the order service assign one.
type OrderDraft struct {
	ID              string
	User            OrderUser
	Items           []CartItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Pricing         Pricing
	Currency        string
}

func (d OrderDraft) Validate() error {
	if len(d.Items) == 0 {
		return ErrEmptyCart
	}
	if d.User.ID == "" {
		return fmt.Errorf("order draft: %w", ErrForbidden)
	}
	if !d.Pricing.Balanced() {
		return fmt.Errorf("order draft: %w", ErrPricingMismatch)
	}
	if d.ShippingAddress.Normalize().Address == "" || !d.PaymentMethod.Valid() {
		return fmt.Errorf("order draft: %w: shipping details required", ErrIllegalTransition)
	}
	return nil
}

// Matches reports whether o was created from the same cart, shipping
// details and pricing as d.
func (o *Order) Matches(d OrderDraft) bool {
	if o.User.ID != d.User.ID || len(o.Items) != len(d.Items) ||
		o.ShippingAddress != d.ShippingAddress || o.PaymentMethod != d.PaymentMethod ||
		o.Pricing != d.Pricing || o.Currency != d.Currency {
		return false
	}
	for i, it := range o.Items {
		want := d.Items[i]
		if it.ProductID != want.ProductID || it.UnitPrice != want.UnitPrice || it.Quantity != want.Quantity {
			return false
		}
	}
	return true
}

// NewOrder builds an unpaid, undelivered order from a validated draft.
func NewOrder(id string, d OrderDraft, now time.Time) *Order {
	items := make([]CartItem, len(d.Items))
	copy(items, d.Items)
	return &Order{
		ID:              id,
		User:            d.User,
		Items:           items,
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   d.PaymentMethod,
		Pricing:         d.Pricing,
		Currency:        d.Currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
