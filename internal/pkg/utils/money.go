package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to 2 decimals.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// PercentOf returns amount * percentage / 100 rounded to 2 decimals.
func PercentOf(amount, percentage decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(percentage).Div(hundred))
}

// PercentageOf returns part / whole * 100 rounded to 4 decimals.
func PercentageOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(4)
}
