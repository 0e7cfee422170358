// Package store provides functionality for storing and retrieving application data.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/divtax/internal/fileutils"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/models"

	"github.com/shopspring/decimal"
)

// RateStore persists rate lists keyed by currency and inclusive date range.
type RateStore interface {
	Load(currency, start, end string) ([]models.RateRecord, bool)
	Save(currency, start, end string, records []models.RateRecord) error
}

// RateCacheStore keeps one JSON file per (currency, start, end) triple under Dir.
type RateCacheStore struct {
	Dir    string
	logger logging.Logger
}

// NewRateCacheStore creates a store rooted at dir.
func NewRateCacheStore(dir string, logger logging.Logger) *RateCacheStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RateCacheStore{Dir: dir, logger: logger}
}

// Key returns the cache file name for a currency and range, e.g. USD_2025-01-01_2025-01-31.json.
func Key(currency, start, end string) string {
	return fmt.Sprintf("%s_%s_%s.json", strings.ToUpper(strings.TrimSpace(currency)), start, end)
}

// Path returns the full cache file path for a currency and range.
func (s *RateCacheStore) Path(currency, start, end string) string {
	return filepath.Join(s.Dir, Key(currency, start, end))
}

// cachedRate accepts both historical cache shapes: the rate-service wire
// shape {effectiveDate, mid} and the ledger shape {date, rate}.
type cachedRate struct {
	EffectiveDate string           `json:"effectiveDate,omitempty"`
	Mid           *decimal.Decimal `json:"mid,omitempty"`
	Date          string           `json:"date,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
}

func (c cachedRate) normalize() (models.RateRecord, bool) {
	switch {
	case c.EffectiveDate != "" && c.Mid != nil:
		return models.RateRecord{Date: c.EffectiveDate, Rate: *c.Mid}, true
	case c.Date != "" && c.Rate != nil:
		return models.RateRecord{Date: c.Date, Rate: *c.Rate}, true
	default:
		return models.RateRecord{}, false
	}
}

// Load reads a cached rate list. A missing, unreadable, blank or unparsable
// file reports false so the caller treats it as a miss. A cached empty list
// is a hit: a range once answered with no rates is not asked again.
func (s *RateCacheStore) Load(currency, start, end string) ([]models.RateRecord, bool) {
	path := s.Path(currency, start, end)
	if !fileutils.FileExists(path) {
		return nil, false
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path built from cache dir and normalized key
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read rate cache",
			logging.Field{Key: logging.FieldCachePath, Value: path})
		return nil, false
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	var entries []cachedRate
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		s.logger.WithError(err).Debug("Ignoring unparsable rate cache",
			logging.Field{Key: logging.FieldCachePath, Value: path})
		return nil, false
	}

	records := make([]models.RateRecord, 0, len(entries))
	for _, e := range entries {
		if r, ok := e.normalize(); ok {
			records = append(records, r)
		}
	}
	s.logger.Debug("Loaded rates from cache",
		logging.Field{Key: logging.FieldCachePath, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records, true
}

// Save writes records in the {effectiveDate, mid} wire shape with 2-space indentation.
// An empty list is written as well.
func (s *RateCacheStore) Save(currency, start, end string, records []models.RateRecord) error {
	wire := make([]cachedRate, 0, len(records))
	for _, r := range records {
		mid := r.Rate
		wire = append(wire, cachedRate{EffectiveDate: r.Date, Mid: &mid})
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rate cache: %w", err)
	}

	path := s.Path(currency, start, end)
	if err := fileutils.WriteFile(path, data, models.PermissionCacheFile); err != nil {
		return fmt.Errorf("failed to write rate cache %s: %w", path, err)
	}
	return nil
}

// Remove deletes the cached entry of a currency and range. A missing entry is not an error.
func (s *RateCacheStore) Remove(currency, start, end string) error {
	path := s.Path(currency, start, end)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove rate cache %s: %w", path, err)
	}
	s.logger.Debug("Removed rate cache", logging.Field{Key: logging.FieldCachePath, Value: path})
	return nil
}
