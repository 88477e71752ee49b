package payment

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a price to integer cents, rounding half away from zero.
func MinorUnits(price decimal.Decimal) int64 {
	return price.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits is the inverse used for provider reported amounts.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
