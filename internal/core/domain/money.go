package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale of every stored amount (NUMERIC(20,2)).
const MoneyPlaces = 2

// IsCents reports whether d has no digits beyond MoneyPlaces.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// IsValidAmount reports whether d can be moved as money: positive and whole cents.
func IsValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && IsCents(d)
}
