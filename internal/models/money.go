package models

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of fractional digits kept for every monetary amount.
const MoneyPlaces = 2

func init() {
	// Ledger files carry amounts and rates as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Round2 rounds an amount to two fractional digits, half to even.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(MoneyPlaces)
}

// ConvertToLocal multiplies a source-currency amount by a mid rate and rounds
// the result to the local-currency precision.
func ConvertToLocal(amount, rate decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(rate))
}
