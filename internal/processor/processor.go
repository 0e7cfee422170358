// Package processor turns single dividend and withholding-tax statement rows
// into local-currency transaction records.
package processor

import (
	"strings"

	"fjacquet/divtax/internal/currencyutils"
	"fjacquet/divtax/internal/models"
	"fjacquet/divtax/internal/parsererror"
)

const minFields = 6

// IsDividendRow reports whether a raw line is a dividend data row.
func IsDividendRow(line string) bool {
	return strings.HasPrefix(line, models.DividendRowPrefix)
}

// IsTaxRow reports whether a raw line is a withholding-tax data row.
func IsTaxRow(line string) bool {
	return strings.HasPrefix(line, models.WithholdingTaxRowPrefix)
}

// RowKind classifies a raw line. ok is false for rows that are neither dividends nor taxes.
func RowKind(line string) (kind models.RecordKind, ok bool) {
	switch {
	case IsDividendRow(line):
		return models.KindDividend, true
	case IsTaxRow(line):
		return models.KindTax, true
	default:
		return "", false
	}
}

// SplitFields splits a row on every comma and trims surrounding whitespace,
// then quote characters, from each field. Quoted commas are not honored.
func SplitFields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"`)
	}
	return parts
}

// Row is the positional view of a dividend or tax row:
// [marker, "Data", currency, date, description, signedAmount].
type Row struct {
	Currency    string
	Date        string
	Description string
	Amount      string
}

// ParseRow splits a line into a Row. Lines with fewer than six fields are malformed.
func ParseRow(line string) (Row, bool) {
	parts := SplitFields(line)
	if len(parts) < minFields {
		return Row{}, false
	}
	return Row{
		Currency:    currencyutils.NormalizeCode(parts[2]),
		Date:        parts[3],
		Description: parts[4],
		Amount:      parts[5],
	}, true
}

// ParseTicker returns the part of a description before the first "(", trimmed.
// An empty result yields models.UnknownTicker.
func ParseTicker(description string) string {
	ticker := strings.TrimSpace(strings.SplitN(description, "(", 2)[0])
	if ticker == "" {
		return models.UnknownTicker
	}
	return ticker
}

// ProcessLine converts one row of the given kind into a record for reportYear.
// The amount is rounded half-even to two places before conversion; the rate
// comes from fx (exact date, else latest known, else 1).
func ProcessLine(kind models.RecordKind, line string, fx models.FXTable, reportYear string) (models.TransactionRecord, error) {
	parser := string(kind)

	row, ok := ParseRow(line)
	if !ok {
		return models.TransactionRecord{}, &parsererror.ParseError{
			Parser: parser, Field: "line", Value: line, Err: parsererror.ErrMalformedLine,
		}
	}
	if !strings.HasPrefix(row.Date, reportYear) {
		return models.TransactionRecord{}, &parsererror.ParseError{
			Parser: parser, Field: "date", Value: row.Date, Err: parsererror.ErrOutsideYear,
		}
	}

	raw, err := currencyutils.ParseAmount(row.Amount)
	if err != nil {
		return models.TransactionRecord{}, &parsererror.ParseError{
			Parser: parser, Field: "amount", Value: row.Amount, Err: err,
		}
	}
	amount := models.Round2(raw)
	rate := fx.RateFor(row.Currency, row.Date)

	return models.TransactionRecord{
		Ticker:    ParseTicker(row.Description),
		Date:      row.Date,
		Currency:  row.Currency,
		Amount:    amount,
		AmountPLN: models.ConvertToLocal(amount, rate),
	}, nil
}

// ProcessDividendLine parses a "Dividends,Data," row.
func ProcessDividendLine(line string, fx models.FXTable, reportYear string) (models.TransactionRecord, error) {
	return ProcessLine(models.KindDividend, line, fx, reportYear)
}

// ProcessTaxLine parses a "Withholding Tax,Data," row.
func ProcessTaxLine(line string, fx models.FXTable, reportYear string) (models.TransactionRecord, error) {
	return ProcessLine(models.KindTax, line, fx, reportYear)
}
