// Package common provides the flat CSV export of ledger records.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"fjacquet/divtax/internal/fileutils"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/models"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter is the CSV field separator used when none is configured.
const DefaultDelimiter = ','

// ExportRow is one ledger record flattened for spreadsheets.
type ExportRow struct {
	Year      string `csv:"Year"`
	Kind      string `csv:"Kind"`
	Ticker    string `csv:"Ticker"`
	Currency  string `csv:"Currency"`
	Date      string `csv:"Date"`
	Amount    string `csv:"Amount"`
	Rate      string `csv:"Rate"`
	AmountPLN string `csv:"AmountPLN"`
}

// FlattenYear turns the buckets of a year into export rows, dividends first,
// each with the rate that applies to its currency and date.
func FlattenYear(y *models.YearLedger) []ExportRow {
	rows := make([]ExportRow, 0)
	for _, kind := range []models.RecordKind{models.KindDividend, models.KindTax} {
		for _, b := range y.Buckets(kind) {
			for _, rec := range b.Records {
				rows = append(rows, ExportRow{
					Year:      y.Year,
					Kind:      string(kind),
					Ticker:    b.Ticker,
					Currency:  rec.Currency,
					Date:      rec.Date,
					Amount:    rec.Amount.StringFixed(models.MoneyPlaces),
					Rate:      y.FX.RateFor(rec.Currency, rec.Date).String(),
					AmountPLN: rec.AmountPLN.StringFixed(models.MoneyPlaces),
				})
			}
		}
	}
	return rows
}

// FlattenReport flattens every year of a report in order.
func FlattenReport(report *models.Report) []ExportRow {
	rows := make([]ExportRow, 0)
	for _, y := range report.Years {
		rows = append(rows, FlattenYear(y)...)
	}
	return rows
}

// ReadCSVFile reads CSV data with the given delimiter into a slice of structs using gocsv.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	logger.Debug("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	file, err := os.Open(filePath) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = delimiter

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}
	return rows, nil
}

// WriteRecordsToCSV writes export rows to csvFile with the given delimiter,
// creating the parent directory when needed.
func WriteRecordsToCSV(rows []ExportRow, csvFile string, delimiter rune, logger logging.Logger) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	logger.Info("Writing records to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		logger.WithError(err).Error("Failed to marshal records to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	if err := fileutils.WriteFile(csvFile, buf.Bytes(), models.PermissionReportFile); err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	return nil
}
