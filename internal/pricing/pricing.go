// Package pricing derives order totals from a cart and a shipping address.
package pricing

import (
	"strings"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/shopspring/decimal"
)

// Policy holds the externally configured pricing rules.
type Policy struct {
	// FreeShippingThreshold is the items subtotal at or above which shipping is free.
	FreeShippingThreshold domain.Money
	FlatShipping          domain.Money
	// CountryShipping overrides FlatShipping for specific destination
	// countries. Keys are in CountryKey form.
	CountryShipping map[string]domain.Money
	TaxRate         decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: 10000,
		FlatShipping:          1000,
		TaxRate:               decimal.RequireFromString("0.15"),
	}
}

// Compute prices the cart for the given destination. addr may be nil before
// the shipping step, in which case the flat rate applies.
func (p Policy) Compute(cart *domain.Cart, addr *domain.ShippingAddress) domain.Pricing {
	items := cart.TotalAmount()
	shipping := p.shipping(items, addr)
	tax := p.tax(items)

	return domain.Pricing{
		ItemsPrice:    items,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    items + shipping + tax,
	}
}

func (p Policy) shipping(items domain.Money, addr *domain.ShippingAddress) domain.Money {
	if items <= 0 || items >= p.FreeShippingThreshold {
		return 0
	}
	if addr != nil {
		if fee, ok := p.CountryShipping[CountryKey(addr.Country)]; ok {
			return fee
		}
	}
	return p.FlatShipping
}

// CountryKey is the case-insensitive lookup form of a country name.
func CountryKey(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

// tax is rounded half-to-even to whole cents.
func (p Policy) tax(items domain.Money) domain.Money {
	t := decimal.NewFromInt(int64(items)).Mul(p.TaxRate).RoundBank(0)
	return domain.Money(t.IntPart())
}
