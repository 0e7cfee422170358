package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/divtax/internal/ledger"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *models.Report {
	l := ledger.New()
	l.EnsureYear(models.Period{FromDate: "2025-01-01", ToDate: "2025-01-31", Year: "2025"})
	l.MergeRates("2025", "USD", []models.RateRecord{{Date: "2025-01-02", Rate: decimal.RequireFromString("4.1")}})
	l.AddRecord("2025", models.TransactionRecord{
		Ticker: "AGR", Date: "2025-01-02", Currency: "USD",
		Amount: decimal.RequireFromString("4.4"), AmountPLN: decimal.RequireFromString("18.04"),
	}, models.KindDividend)
	l.AddRecord("2025", models.TransactionRecord{
		Ticker: "AGR", Date: "2025-01-02", Currency: "USD",
		Amount: decimal.RequireFromString("-2.12"), AmountPLN: decimal.RequireFromString("-8.69"),
	}, models.KindTax)
	return l.Report()
}

const expectedJSON = `{
  "years": [
    {
      "year": "2025",
      "fromDate": "2025-01-01",
      "toDate": "2025-01-31",
      "dividends": [
        {
          "ticker": "AGR",
          "currency": "USD",
          "dividend": [
            {
              "date": "2025-01-02",
              "currency": "USD",
              "amount": 4.4,
              "amountPln": 18.04
            }
          ]
        }
      ],
      "taxes": [
        {
          "ticker": "AGR",
          "currency": "USD",
          "tax": [
            {
              "date": "2025-01-02",
              "currency": "USD",
              "amount": -2.12,
              "amountPln": -8.69
            }
          ]
        }
      ],
      "fx": {
        "USD": [
          {
            "date": "2025-01-02",
            "rate": 4.1
          }
        ]
      }
    }
  ]
}
`

func TestReportGenerator_GenerateReport_JSON(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	data, err := generator.GenerateReport(sampleReport(), "json")
	require.NoError(t, err)

	assert.Equal(t, expectedJSON, string(data))
}

func TestReportGenerator_GenerateReport_YAML(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	data, err := generator.GenerateReport(sampleReport(), "yaml")
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "years:")
	assert.Contains(t, out, "dividend:")
	assert.Contains(t, out, "tax:")
	assert.Contains(t, out, "amountPln:")
}

func TestReportGenerator_GenerateReport_Unsupported(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	_, err := generator.GenerateReport(sampleReport(), "pdf")
	assert.EqualError(t, err, "unsupported report format: pdf")
}

func TestReportGenerator_Save(t *testing.T) {
	logger := logging.NewMockLogger()
	generator := NewReportGenerator(logger)
	outDir := filepath.Join(t.TempDir(), "tax_reports")

	path, err := generator.Save(sampleReport(), outDir, "2025", "json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "divs_2025.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Len(t, generic["years"], 1)
	assert.True(t, logger.HasEntry("INFO", "Saved report"))

	loaded, err := ledger.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025"}, loaded.Years())
}

func TestReportGenerator_SaveYAMLRoundTrip(t *testing.T) {
	generator := NewReportGenerator(logging.NewMockLogger())

	path, err := generator.Save(sampleReport(), t.TempDir(), "2025", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "divs_2025.yaml", filepath.Base(path))

	loaded, err := ledger.Load(path)
	require.NoError(t, err)
	y := loaded.Year("2025")
	require.NotNil(t, y)
	require.Len(t, y.Taxes, 1)
	assert.True(t, decimal.RequireFromString("-8.69").Equal(y.Taxes[0].Records[0].AmountPLN))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "divs_2025.json", FileName("2025", "json"))
	assert.Equal(t, "divs_2024.yaml", FileName("2024", "YML"))
}
