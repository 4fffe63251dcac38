package domain

import "strings"

type ShippingAddress struct {
	Address    string `json:"address" bson:"address" validate:"required"`
	City       string `json:"city" bson:"city" validate:"required"`
	PostalCode string `json:"postalCode" bson:"postal_code" validate:"required,postalcode"`
	Country    string `json:"country" bson:"country" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		Address:    strings.TrimSpace(a.Address),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

func (a ShippingAddress) IsZero() bool {
	return a == ShippingAddress{}
}

type PaymentMethod string

const (
	PaymentMethodPayPal        PaymentMethod = "PayPal"
	PaymentMethodCreditCard    PaymentMethod = "Credit Card"
	PaymentMethodOnlineBanking PaymentMethod = "Online Banking"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodPayPal,
	PaymentMethodCreditCard,
	PaymentMethodOnlineBanking,
}

func PaymentMethods() []PaymentMethod {
	out := make([]PaymentMethod, len(paymentMethods))
	copy(out, paymentMethods)
	return out
}

func (m PaymentMethod) Valid() bool {
	for _, pm := range paymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}
