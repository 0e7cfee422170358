// Package currencyutils provides common currency and decimal operations used throughout the application.
package currencyutils

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// NormalizeCode trims a currency code and upper-cases it.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseAmount parses a broker amount such as "4.4", "-2.12" or "1'234.56".
// Apostrophe and space thousands separators are dropped. Empty input is an error.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': empty value", amountStr)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount strips surrounding quotes, whitespace and thousands separators.
func StandardizeAmount(amountStr string) string {
	amountStr = strings.Trim(strings.TrimSpace(amountStr), `"`)
	amountStr = strings.ReplaceAll(amountStr, "'", "")
	amountStr = strings.ReplaceAll(amountStr, " ", "")
	return amountStr
}

// FormatAmount renders an amount with the currency's own symbol, separators
// and fraction digits. Unknown codes fall back to "<amount> <code>".
func FormatAmount(amount decimal.Decimal, currency string) string {
	code := NormalizeCode(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatPLN renders an amount in Polish zloty.
func FormatPLN(amount decimal.Decimal) string {
	return FormatAmount(amount, money.PLN)
}
