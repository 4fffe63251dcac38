package domain

import "github.com/shopspring/decimal"

// Money is an amount in minor currency units (cents).
type Money int64

func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Shift(2).RoundBank(0).IntPart())
}

func (m Money) Times(quantity int) Money {
	return m * Money(quantity)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// String formats the amount with two decimal places, e.g. "13559.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
