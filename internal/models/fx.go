package models

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RateRecord is one mid-market rate: local-currency units per one foreign unit on Date.
type RateRecord struct {
	Date string          `json:"date" yaml:"date"`
	Rate decimal.Decimal `json:"rate" yaml:"rate"`
}

// FXTable maps an uppercase currency code to its rates sorted ascending by date.
// A currency never holds two records for the same date.
type FXTable map[string][]RateRecord

// Merge appends the records whose date is not yet known for the currency and
// re-sorts the list by date. Dates already present keep their original rate.
func (t FXTable) Merge(currency string, records []RateRecord) {
	ccy := strings.ToUpper(strings.TrimSpace(currency))
	existing := t[ccy]
	known := make(map[string]struct{}, len(existing)+len(records))
	for _, r := range existing {
		known[r.Date] = struct{}{}
	}
	for _, r := range records {
		if _, ok := known[r.Date]; ok {
			continue
		}
		known[r.Date] = struct{}{}
		existing = append(existing, r)
	}
	sort.SliceStable(existing, func(i, j int) bool {
		return existing[i].Date < existing[j].Date
	})
	if existing == nil {
		existing = []RateRecord{}
	}
	t[ccy] = existing
}

// RateFor returns the rate applicable to a transaction in currency on date:
// the exact-date rate if known, otherwise the latest known rate for the
// currency, otherwise 1.
func (t FXTable) RateFor(currency, date string) decimal.Decimal {
	rates := t[strings.ToUpper(strings.TrimSpace(currency))]
	if len(rates) == 0 {
		return decimal.NewFromInt(1)
	}
	latest := rates[0]
	for _, r := range rates {
		if r.Date == date {
			return r.Rate
		}
		if r.Date > latest.Date {
			latest = r
		}
	}
	return latest.Rate
}

// Currencies returns the currency codes of the table in sorted order.
func (t FXTable) Currencies() []string {
	out := make([]string, 0, len(t))
	for ccy := range t {
		out = append(out, ccy)
	}
	sort.Strings(out)
	return out
}
