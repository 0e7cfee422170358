// Package batch drives the processing of broker statements into a ledger:
// period detection, rate collection and record accumulation, file by file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/divtax/internal/currencyutils"
	"fjacquet/divtax/internal/dateutils"
	"fjacquet/divtax/internal/fileutils"
	"fjacquet/divtax/internal/ledger"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/models"
	"fjacquet/divtax/internal/nbp"
	"fjacquet/divtax/internal/period"
	"fjacquet/divtax/internal/processor"

	"github.com/shopspring/decimal"
)

// StatementExtension is the extension of broker statements picked up from a directory.
const StatementExtension = ".csv"

// ErrYearMismatch is returned for a statement whose period belongs to another
// year than the one requested.
var ErrYearMismatch = errors.New("statement period outside requested year")

// Requirements are the rates a statement needs: every currency seen in its
// dividend and tax rows, over the range of their dates.
type Requirements struct {
	Currencies []string
	Range      dateutils.DateRange
}

// HasRange reports whether at least one row carried a valid date.
func (r Requirements) HasRange() bool {
	return !r.Range.IsZero()
}

// CollectRequirements scans dividend and tax rows once. With a targetYear,
// rows dated in other years are ignored. Rows without a valid ISO date, such
// as section totals, contribute nothing.
func CollectRequirements(lines []string, targetYear string) Requirements {
	seen := make(map[string]struct{})
	var req Requirements
	for _, line := range lines {
		if _, ok := processor.RowKind(line); !ok {
			continue
		}
		row, ok := processor.ParseRow(line)
		if !ok {
			continue
		}
		if targetYear != "" && !strings.HasPrefix(row.Date, targetYear) {
			continue
		}
		if !req.Range.Include(row.Date) {
			continue
		}
		if _, dup := seen[row.Currency]; !dup {
			seen[row.Currency] = struct{}{}
			req.Currencies = append(req.Currencies, row.Currency)
		}
	}
	sort.Strings(req.Currencies)
	return req
}

// FileResult describes what one statement contributed.
type FileResult struct {
	Path      string
	Period    models.Period
	Dividends int
	Taxes     int
	Skipped   int
}

// RunResult describes a directory run.
type RunResult struct {
	Files  []FileResult
	Failed int
}

// Records returns the number of records added over all files.
func (r RunResult) Records() int {
	n := 0
	for _, f := range r.Files {
		n += f.Dividends + f.Taxes
	}
	return n
}

// Processor turns statements into ledger entries.
type Processor struct {
	rates         nbp.RateFetcher
	localCurrency string
	logger        logging.Logger
}

// NewProcessor creates a Processor fetching rates through rates.
func NewProcessor(rates nbp.RateFetcher, localCurrency string, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if localCurrency == "" {
		localCurrency = models.DefaultLocalCurrency
	}
	return &Processor{
		rates:         rates,
		localCurrency: currencyutils.NormalizeCode(localCurrency),
		logger:        logger,
	}
}

// ProcessFile processes one statement into l in two passes: first the rates
// required by its rows are fetched and merged into the year's FX table, then
// every row is converted and accumulated. With a targetYear only rows of that
// year are kept, and a statement of another year is rejected with ErrYearMismatch.
func (p *Processor) ProcessFile(ctx context.Context, l *ledger.Ledger, path, targetYear string) (FileResult, error) {
	result := FileResult{Path: path}
	fileField := logging.Field{Key: logging.FieldFile, Value: path}

	per, lines, err := period.DetectFile(path)
	if err != nil {
		return result, err
	}
	result.Period = per
	if targetYear != "" && per.Year != targetYear {
		return result, fmt.Errorf("%s: period year %s, requested %s: %w", path, per.Year, targetYear, ErrYearMismatch)
	}

	year := l.EnsureYear(per)

	req := CollectRequirements(lines, targetYear)
	if len(req.Currencies) > 0 && req.HasRange() {
		start, end := req.Range.StartISO(), req.Range.EndISO()
		for _, ccy := range req.Currencies {
			var rates []models.RateRecord
			if ccy == p.localCurrency {
				rates = []models.RateRecord{{Date: start, Rate: decimal.NewFromInt(1)}}
			} else {
				rates = p.rates.FetchRates(ctx, ccy, start, end)
			}
			l.MergeRates(per.Year, ccy, rates)
			p.logger.Debug("Merged rates",
				fileField,
				logging.Field{Key: logging.FieldCurrency, Value: ccy},
				logging.Field{Key: logging.FieldStartDate, Value: start},
				logging.Field{Key: logging.FieldEndDate, Value: end},
				logging.Field{Key: logging.FieldCount, Value: len(rates)})
		}
	}

	for i, line := range lines {
		kind, ok := processor.RowKind(line)
		if !ok {
			continue
		}
		rec, err := processor.ProcessLine(kind, line, year.FX, per.Year)
		if err != nil {
			result.Skipped++
			p.logger.WithError(err).Debug("Skipping row", fileField, logging.Field{Key: logging.FieldLine, Value: i + 1})
			continue
		}
		if targetYear != "" && !strings.HasPrefix(rec.Date, targetYear) {
			result.Skipped++
			continue
		}
		l.AddRecord(per.Year, rec, kind)
		if kind == models.KindTax {
			result.Taxes++
		} else {
			result.Dividends++
		}
	}

	p.logger.Info("Processed statement",
		fileField,
		logging.Field{Key: logging.FieldYear, Value: per.Year},
		logging.Field{Key: "dividends", Value: result.Dividends},
		logging.Field{Key: "taxes", Value: result.Taxes})
	return result, nil
}

// ProcessDirectory processes every statement of dir in sorted filename order.
// A failing statement is logged and skipped; only an unreadable directory or
// a cancelled context stops the run.
func (p *Processor) ProcessDirectory(ctx context.Context, l *ledger.Ledger, dir, targetYear string) (RunResult, error) {
	var run RunResult

	files, err := fileutils.ListFilesWithExtension(dir, StatementExtension)
	if err != nil {
		return run, fmt.Errorf("failed to list statements: %w", err)
	}
	p.logger.Info("Found statements",
		logging.Field{Key: logging.FieldInputDir, Value: dir},
		logging.Field{Key: logging.FieldCount, Value: len(files)})

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		p.logger.Info("Processing " + filepath.Base(file))

		res, err := p.ProcessFile(ctx, l, file, targetYear)
		if err != nil {
			run.Failed++
			if errors.Is(err, ErrYearMismatch) {
				p.logger.Info("Skipping statement of another year",
					logging.Field{Key: logging.FieldFile, Value: file},
					logging.Field{Key: logging.FieldYear, Value: res.Period.Year})
				continue
			}
			msg := "Failed to read statement"
			if errors.Is(err, period.ErrPeriodNotFound) {
				msg = "Could not parse report period"
			}
			p.logger.WithError(err).Warn(msg, logging.Field{Key: logging.FieldFile, Value: file})
			continue
		}
		run.Files = append(run.Files, res)
	}
	return run, nil
}
