package rates

import (
	"bytes"
	"context"
	"testing"

	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/models"
	"fjacquet/divtax/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFetcher struct {
	currency, start, end string
}

func (r *recordingFetcher) FetchRates(_ context.Context, currency, start, end string) []models.RateRecord {
	r.currency, r.start, r.end = currency, start, end
	return []models.RateRecord{{Date: "2025-01-02", Rate: decimal.RequireFromString("4.1012")}}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	fetcher := &recordingFetcher{}

	require.NoError(t, Print(context.Background(), &buf, fetcher, " usd", "2025-01-01", "2025-01-31"))

	assert.Equal(t, "USD", fetcher.currency)
	assert.Equal(t, "2025-01-01", fetcher.start)
	assert.Equal(t, "2025-01-31", fetcher.end)
	assert.JSONEq(t, `[{"date":"2025-01-02","rate":4.1012}]`, buf.String())
}

func TestPrint_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		start, end  string
		expectError string
	}{
		{name: "bad start", start: "2025/01/01", end: "2025-01-31", expectError: "invalid start date"},
		{name: "bad end", start: "2025-01-01", end: "31.01.2025", expectError: "invalid end date"},
		{name: "reversed range", start: "2025-02-01", end: "2025-01-01", expectError: "before start date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &recordingFetcher{}
			err := Print(context.Background(), &bytes.Buffer{}, fetcher, "USD", tt.start, tt.end)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
			assert.Empty(t, fetcher.currency)
		})
	}
}

func TestPrint_InvalidCurrency(t *testing.T) {
	fetcher := &recordingFetcher{}
	err := Print(context.Background(), &bytes.Buffer{}, fetcher, "TOTAL", "2025-01-01", "2025-01-31")
	assert.ErrorContains(t, err, "invalid currency code")
	assert.Empty(t, fetcher.currency)
}

func TestEvict(t *testing.T) {
	cache := store.NewRateCacheStore(t.TempDir(), logging.NewMockLogger())
	require.NoError(t, cache.Save("USD", "2025-01-01", "2025-01-31", nil))

	require.NoError(t, Evict(cache, " usd", "2025-01-01", "2025-01-31"))

	_, ok := cache.Load("USD", "2025-01-01", "2025-01-31")
	assert.False(t, ok)
}

func TestEvict_InvalidInput(t *testing.T) {
	cache := store.NewRateCacheStore(t.TempDir(), logging.NewMockLogger())
	assert.Error(t, Evict(cache, "TOTAL", "2025-01-01", "2025-01-31"))
	assert.Error(t, Evict(cache, "USD", "2025-02-01", "2025-01-31"))
}

func TestRatesCommand_Metadata(t *testing.T) {
	assert.Equal(t, "rates <CCY> <START> <END>", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)
	assert.NotNil(t, Cmd.Flags().Lookup("refresh"))
}
