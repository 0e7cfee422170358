package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerJSON = `{
  "years": [
    {
      "year": "2025",
      "fromDate": "2025-01-01",
      "toDate": "2025-01-31",
      "dividends": [
        {"ticker": "AGR", "currency": "USD", "dividend": [
          {"date": "2025-01-02", "currency": "USD", "amount": 4.4, "amountPln": 18.04}
        ]}
      ],
      "taxes": [
        {"ticker": "AGR", "currency": "USD", "tax": [
          {"date": "2025-01-02", "currency": "USD", "amount": -2.12, "amountPln": -8.69}
        ]}
      ],
      "fx": {"USD": [{"date": "2025-01-02", "rate": 4.1}]}
    },
    {"year": "2024", "dividends": [], "taxes": [], "fx": {}}
  ]
}`

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "divs_2025.json")
	require.NoError(t, os.WriteFile(path, []byte(ledgerJSON), 0600))
	return path
}

func TestPrint_Plain(t *testing.T) {
	var buf bytes.Buffer

	err := Print(&buf, writeLedger(t), "", decimal.RequireFromString("0.09"), "", true)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Tax report 2025")
	// period recomputed from the record dates
	assert.Contains(t, out, "Report period: 2025-01-02 - 2025-01-02")
	assert.Contains(t, out, "# Tax report 2024")
	assert.Contains(t, out, "Report period: 2024-01-01 - 2024-12-31")
	assert.Contains(t, out, "| Dividend rows | 1 |")
}

func TestPrint_SelectedYear(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Print(&buf, writeLedger(t), "2024", decimal.RequireFromString("0.09"), "", true))

	assert.NotContains(t, buf.String(), "# Tax report 2025")
	assert.Contains(t, buf.String(), "# Tax report 2024")
}

func TestPrint_Rendered(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Print(&buf, writeLedger(t), "2025", decimal.RequireFromString("0.09"), "notty", false))

	assert.Contains(t, buf.String(), "Tax report 2025")
}

func TestPrint_Errors(t *testing.T) {
	var buf bytes.Buffer
	rate := decimal.RequireFromString("0.09")

	err := Print(&buf, writeLedger(t), "1999", rate, "", true)
	assert.ErrorContains(t, err, `no year "1999"`)

	err = Print(&buf, filepath.Join(t.TempDir(), "missing.json"), "", rate, "", true)
	assert.Error(t, err)
}

func TestSummaryCommand_Metadata(t *testing.T) {
	assert.Equal(t, "summary <ledger>", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)
	assert.NotNil(t, Cmd.Flags().Lookup("plain"))
	assert.NotNil(t, Cmd.Flags().Lookup("style"))
}
