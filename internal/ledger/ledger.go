// Package ledger accumulates transaction records and exchange rates per reporting year.
package ledger

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/divtax/internal/fileutils"
	"fjacquet/divtax/internal/models"
	"fjacquet/divtax/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// Ledger owns one Report and indexes its years. It is not safe for concurrent use.
type Ledger struct {
	report *models.Report
	years  map[string]*models.YearLedger
}

// New returns an empty ledger.
func New() *Ledger {
	return FromReport(models.NewReport())
}

// FromReport wraps an existing report. Duplicate years keep their first occurrence
// in the index.
func FromReport(report *models.Report) *Ledger {
	if report == nil {
		report = models.NewReport()
	}
	report.Normalize()
	l := &Ledger{report: report, years: make(map[string]*models.YearLedger, len(report.Years))}
	for _, y := range report.Years {
		if _, ok := l.years[y.Year]; !ok {
			l.years[y.Year] = y
		}
	}
	return l
}

// Load reads a ledger previously written as JSON or YAML (by file extension).
func Load(path string) (*Ledger, error) {
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report models.Report
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &report)
	default:
		err = json.Unmarshal(data, &report)
	}
	if err != nil {
		return nil, &parsererror.DataExtractionError{
			FilePath:  path,
			FieldName: "years",
			Reason:    err.Error(),
			Msg:       "could not decode ledger",
		}
	}
	return FromReport(&report), nil
}

// Report returns the underlying report.
func (l *Ledger) Report() *models.Report {
	return l.report
}

// Years returns the year keys in insertion order.
func (l *Ledger) Years() []string {
	out := make([]string, 0, len(l.report.Years))
	for _, y := range l.report.Years {
		out = append(out, y.Year)
	}
	return out
}

// IsEmpty reports whether no year has been created.
func (l *Ledger) IsEmpty() bool {
	return len(l.report.Years) == 0
}

// Year returns the ledger of a year, or nil.
func (l *Ledger) Year(year string) *models.YearLedger {
	return l.years[year]
}

// EnsureYear returns the ledger of the period's year, creating it with the
// period bounds on first sight. An existing year keeps its bounds.
func (l *Ledger) EnsureYear(p models.Period) *models.YearLedger {
	y := l.ensure(p.Year)
	if y.FromDate == "" && y.ToDate == "" {
		y.FromDate = p.FromDate
		y.ToDate = p.ToDate
	}
	return y
}

func (l *Ledger) ensure(year string) *models.YearLedger {
	if y, ok := l.years[year]; ok {
		return y
	}
	y := models.NewYearLedger(year)
	l.years[year] = y
	l.report.Years = append(l.report.Years, y)
	return y
}

// AddRecord appends rec to the bucket of its ticker within kind, creating the
// year and the bucket as needed. Records are never de-duplicated.
func (l *Ledger) AddRecord(year string, rec models.TransactionRecord, kind models.RecordKind) {
	y := l.ensure(year)

	for _, b := range y.Buckets(kind) {
		if b.Ticker == rec.Ticker {
			b.Records = append(b.Records, rec)
			return
		}
	}

	b := &models.TickerBucket{
		Ticker:   rec.Ticker,
		Currency: rec.Currency,
		Kind:     kind,
		Records:  []models.TransactionRecord{rec},
	}
	if kind == models.KindTax {
		y.Taxes = append(y.Taxes, b)
	} else {
		y.Dividends = append(y.Dividends, b)
	}
}

// MergeRates merges fetched rates into the year's FX table. Dates already
// known keep their rate.
func (l *Ledger) MergeRates(year, currency string, records []models.RateRecord) {
	l.ensure(year).FX.Merge(currency, records)
}

// Counts returns the number of dividend and tax records of a year.
func (l *Ledger) Counts(year string) (dividends, taxes int) {
	y := l.Year(year)
	if y == nil {
		return 0, 0
	}
	return len(y.Records(models.KindDividend)), len(y.Records(models.KindTax))
}

// String summarizes the ledger for logs.
func (l *Ledger) String() string {
	parts := make([]string, 0, len(l.report.Years))
	for _, y := range l.report.Years {
		d, t := l.Counts(y.Year)
		parts = append(parts, fmt.Sprintf("%s(div=%d,tax=%d)", y.Year, d, t))
	}
	return strings.Join(parts, " ")
}
