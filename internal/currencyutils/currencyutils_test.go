package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCode(" usd "))
	assert.Equal(t, "PLN", NormalizeCode("PLN"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  string
		hasError  bool
	}{
		{"simple decimal", "4.4", "4.4", false},
		{"negative decimal", "-2.12", "-2.12", false},
		{"integer", "100", "100", false},
		{"quoted", `"12.5"`, "12.5", false},
		{"surrounding spaces", "  0.33  ", "0.33", false},
		{"apostrophe thousands", "1'234.56", "1234.56", false},
		{"empty string", "", "", true},
		{"only quotes", `""`, "", true},
		{"malformed decimal", "123.45.67", "", true},
		{"non-numeric", "Total", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.amountStr)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(got), "got %s", got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$4.40", FormatAmount(decimal.RequireFromString("4.4"), "usd"))
	assert.Equal(t, "12.30 XXQ", FormatAmount(decimal.RequireFromString("12.3"), "xxq"))
}

func TestFormatPLN(t *testing.T) {
	out := FormatPLN(decimal.RequireFromString("18.04"))
	assert.Contains(t, out, "18")
	assert.Contains(t, out, "04")
	assert.NotContains(t, out, "$")
}
