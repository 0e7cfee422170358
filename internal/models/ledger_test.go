package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleYear() *YearLedger {
	y := NewYearLedger("2025")
	y.FromDate = "2025-01-01"
	y.ToDate = "2025-01-31"
	y.Dividends = append(y.Dividends, &TickerBucket{
		Ticker:   "AGR",
		Currency: "USD",
		Kind:     KindDividend,
		Records: []TransactionRecord{{
			Ticker:    "AGR",
			Date:      "2025-01-02",
			Currency:  "USD",
			Amount:    decimal.RequireFromString("4.4"),
			AmountPLN: decimal.RequireFromString("18.04"),
		}},
	})
	y.Taxes = append(y.Taxes, &TickerBucket{
		Ticker:   "AGR",
		Currency: "USD",
		Kind:     KindTax,
		Records: []TransactionRecord{{
			Ticker:    "AGR",
			Date:      "2025-01-02",
			Currency:  "USD",
			Amount:    decimal.RequireFromString("-2.12"),
			AmountPLN: decimal.RequireFromString("-8.69"),
		}},
	})
	y.FX.Merge("USD", []RateRecord{{Date: "2025-01-02", Rate: decimal.RequireFromString("4.1")}})
	return y
}

func TestReport_MarshalJSONShape(t *testing.T) {
	report := &Report{Years: []*YearLedger{sampleYear()}}

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &generic))

	years := generic["years"].([]interface{})
	require.Len(t, years, 1)
	year := years[0].(map[string]interface{})
	assert.Equal(t, "2025", year["year"])
	assert.Equal(t, "2025-01-01", year["fromDate"])

	div := year["dividends"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "AGR", div["ticker"])
	assert.NotContains(t, div, "tax")
	record := div["dividend"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 4.4, record["amount"])
	assert.Equal(t, 18.04, record["amountPln"])
	assert.NotContains(t, record, "ticker")

	tax := year["taxes"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, tax, "tax")
	assert.NotContains(t, tax, "dividend")

	fx := year["fx"].(map[string]interface{})
	usd := fx["USD"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "2025-01-02", usd["date"])
	assert.Equal(t, 4.1, usd["rate"])
}

func TestReport_JSONRoundTripRestoresKindsAndTickers(t *testing.T) {
	data, err := json.Marshal(&Report{Years: []*YearLedger{sampleYear()}})
	require.NoError(t, err)

	var loaded Report
	require.NoError(t, json.Unmarshal(data, &loaded))
	loaded.Normalize()

	require.Len(t, loaded.Years, 1)
	y := loaded.Years[0]
	require.Len(t, y.Taxes, 1)
	assert.Equal(t, KindTax, y.Taxes[0].Kind)
	assert.Equal(t, "AGR", y.Taxes[0].Records[0].Ticker)
	assert.Equal(t, KindDividend, y.Dividends[0].Kind)
}

func TestTickerBucket_EmptyRecordsSerializeAsList(t *testing.T) {
	data, err := json.Marshal(&TickerBucket{Ticker: "X", Currency: "USD", Kind: KindTax})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ticker":"X","currency":"USD","tax":[]}`, string(data))
}

func TestYearLedger_Records(t *testing.T) {
	y := sampleYear()
	assert.Len(t, y.Records(KindDividend), 1)
	assert.Len(t, y.Records(KindTax), 1)
	assert.Same(t, y.Taxes[0], y.Buckets(KindTax)[0])
}

func TestReport_NormalizeFillsNilCollections(t *testing.T) {
	r := &Report{Years: []*YearLedger{{Year: "2024"}}}
	r.Normalize()

	assert.NotNil(t, r.Years[0].Dividends)
	assert.NotNil(t, r.Years[0].Taxes)
	assert.NotNil(t, r.Years[0].FX)
}
