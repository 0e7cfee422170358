// Package period detects the reporting period declared by a broker statement.
package period

import (
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"fjacquet/divtax/internal/dateutils"
	"fjacquet/divtax/internal/fileutils"
	"fjacquet/divtax/internal/models"
	"fjacquet/divtax/internal/parsererror"
)

// ErrPeriodNotFound is returned when no row declares a parsable period.
var ErrPeriodNotFound = errors.New("report period not detected")

const expectedFormat = `Statement,Data,Period,"<Month D, YYYY> - <Month D, YYYY>"`

var periodPattern = regexp.MustCompile(`([A-Za-z]+ \d{1,2}, \d{4})\s*[-–]\s*([A-Za-z]+ \d{1,2}, \d{4})`)

// Detect scans statement lines for the Statement/Data/Period row and returns
// its dates in ISO form. The year is the 4-digit prefix of the start date.
func Detect(lines []string) (models.Period, error) {
	for _, line := range lines {
		row := splitRow(line)
		if len(row) < 4 ||
			row[0] != models.SectionStatement ||
			row[1] != models.RowTypeData ||
			row[2] != models.StatementFieldPeriod {
			continue
		}
		if p, ok := parsePeriodField(row[3]); ok {
			return p, nil
		}
	}
	return models.Period{}, ErrPeriodNotFound
}

// DetectFile reads a statement and detects its period. A missing period is
// reported as *parsererror.InvalidFormatError wrapping ErrPeriodNotFound.
func DetectFile(path string) (models.Period, []string, error) {
	lines, err := fileutils.ReadLines(path)
	if err != nil {
		return models.Period{}, nil, fmt.Errorf("failed to read statement: %w", err)
	}
	p, err := Detect(lines)
	if err != nil {
		return models.Period{}, lines, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: expectedFormat,
			Msg:            "period not detected",
			Err:            err,
		}
	}
	return p, lines, nil
}

func parsePeriodField(field string) (models.Period, bool) {
	m := periodPattern.FindStringSubmatch(field)
	if m == nil {
		m = periodPattern.FindStringSubmatch(strings.Trim(strings.TrimSpace(field), `"`))
	}
	if m == nil {
		return models.Period{}, false
	}
	from, err := dateutils.LongDateToISO(m[1])
	if err != nil {
		return models.Period{}, false
	}
	to, err := dateutils.LongDateToISO(m[2])
	if err != nil {
		return models.Period{}, false
	}
	return models.Period{FromDate: from, ToDate: to, Year: dateutils.YearOf(from)}, true
}

// splitRow parses one CSV line honoring quoted commas. Cells are trimmed.
// A line that is not valid CSV yields nil.
func splitRow(line string) []string {
	line = strings.TrimRight(strings.TrimPrefix(line, "\ufeff"), " \t\r")
	if line == "" {
		return nil
	}
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	row, err := r.Read()
	if err != nil {
		return nil
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	return row
}
