// Package nbp fetches mid-market exchange rates from the National Bank of
// Poland table A service, backed by an on-disk cache and an in-process memo.
package nbp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"fjacquet/divtax/internal/currencyutils"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/models"
	"fjacquet/divtax/internal/store"

	"github.com/PaesslerAG/jsonpath"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Default settings of the rate service client.
const (
	DefaultBaseURL           = "https://api.nbp.pl/api/exchangerates/rates/a"
	DefaultTimeout           = 20 * time.Second
	DefaultRequestsPerSecond = 5
	DefaultMemoryTTL         = 60 * time.Minute
)

// RateFetcher returns the date-sorted rates of a currency over an inclusive range.
// Failures degrade to an empty list.
type RateFetcher interface {
	FetchRates(ctx context.Context, currency, start, end string) []models.RateRecord
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	LocalCurrency     string
	RequestsPerSecond float64
	MemoryTTL         time.Duration
	HTTPClient        *http.Client
}

// Client implements RateFetcher against the rate service.
type Client struct {
	baseURL       string
	localCurrency string
	httpClient    *http.Client
	store         store.RateStore
	memo          *cache.Cache
	limiter       *rate.Limiter
	logger        logging.Logger
}

// NewClient creates a Client persisting fetched ranges into rateStore.
func NewClient(opts Options, rateStore store.RateStore, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.LocalCurrency == "" {
		opts.LocalCurrency = models.DefaultLocalCurrency
	}
	if opts.MemoryTTL <= 0 {
		opts.MemoryTTL = DefaultMemoryTTL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		localCurrency: currencyutils.NormalizeCode(opts.LocalCurrency),
		httpClient:    httpClient,
		store:         rateStore,
		memo:          cache.New(opts.MemoryTTL, 2*opts.MemoryTTL),
		limiter:       rate.NewLimiter(limit, 1),
		logger:        logger,
	}
}

// LocalCurrency returns the currency every rate is quoted against.
func (c *Client) LocalCurrency() string {
	return c.localCurrency
}

// FetchRates returns the rates of currency between start and end inclusive,
// sorted by date. The local currency yields a single 1.0 record dated start
// without any lookup. Otherwise the memo, then the disk cache, then the
// rate service are consulted; a remote result is always written back to the
// disk cache, even when empty.
func (c *Client) FetchRates(ctx context.Context, currency, start, end string) []models.RateRecord {
	ccy := currencyutils.NormalizeCode(currency)
	if ccy == c.localCurrency {
		return []models.RateRecord{{Date: start, Rate: decimal.NewFromInt(1)}}
	}

	key := store.Key(ccy, start, end)
	if cached, found := c.memo.Get(key); found {
		return copyRates(cached.([]models.RateRecord))
	}

	if c.store != nil {
		if records, ok := c.store.Load(ccy, start, end); ok {
			sortRates(records)
			c.memo.Set(key, copyRates(records), cache.DefaultExpiration)
			return records
		}
	}

	fields := []logging.Field{
		{Key: logging.FieldCurrency, Value: ccy},
		{Key: logging.FieldStartDate, Value: start},
		{Key: logging.FieldEndDate, Value: end},
	}

	records, err := c.fetchRemote(ctx, ccy, start, end)
	if err != nil {
		c.logger.WithError(err).Warn("Rate service unavailable, continuing without rates", fields...)
		records = []models.RateRecord{}
	}
	sortRates(records)

	if c.store != nil {
		if err := c.store.Save(ccy, start, end, records); err != nil {
			c.logger.WithError(err).Warn("Failed to persist rate cache", fields...)
		}
	}
	if len(records) > 0 {
		c.memo.Set(key, copyRates(records), cache.DefaultExpiration)
	}

	c.logger.Debug("Fetched rates from rate service",
		append(fields, logging.Field{Key: logging.FieldCount, Value: len(records)})...)
	return records
}

// URL returns the rate-service address for a currency and range.
func (c *Client) URL(currency, start, end string) string {
	return fmt.Sprintf("%s/%s/%s/%s?format=json", c.baseURL, currencyutils.NormalizeCode(currency), start, end)
}

func (c *Client) fetchRemote(ctx context.Context, ccy, start, end string) ([]models.RateRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	addr := c.URL(ccy, start, end)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot http GET %s: %w", addr, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WithError(cerr).Debug("Failed to close response body",
				logging.Field{Key: logging.FieldURL, Value: addr})
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var payload any
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed rate payload: %w", err)
	}

	return parseRates(payload)
}

// parseRates extracts $.rates from an untyped payload, keeping entries that
// carry both an effectiveDate and a numeric mid.
func parseRates(payload any) ([]models.RateRecord, error) {
	if _, ok := payload.(map[string]any); !ok {
		return nil, fmt.Errorf("rate payload is not an object: %T", payload)
	}

	raw, err := jsonpath.Get("$.rates", payload)
	if err != nil {
		// A payload without rates means no rates.
		return []models.RateRecord{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return []models.RateRecord{}, nil
	}

	records := make([]models.RateRecord, 0, len(items))
	for _, it := range items {
		entry, ok := it.(map[string]any)
		if !ok {
			continue
		}
		date, _ := entry["effectiveDate"].(string)
		if date == "" {
			continue
		}
		mid, ok := toDecimal(entry["mid"])
		if !ok {
			continue
		}
		records = append(records, models.RateRecord{Date: date, Rate: mid})
	}
	return records, nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func sortRates(records []models.RateRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}

func copyRates(records []models.RateRecord) []models.RateRecord {
	return append([]models.RateRecord{}, records...)
}
