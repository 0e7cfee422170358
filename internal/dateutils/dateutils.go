// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutMonth = "2006-01"
	DateLayoutLong  = "January 2, 2006"
)

// monthNumbers is the fixed English month-name table used by broker statements.
var monthNumbers = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}

var longDatePattern = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2}),\s*(\d{4})$`)

// LongDateToISO converts a long-form date such as "January 1, 2025" to
// "2025-01-01". The month name is matched case-insensitively.
func LongDateToISO(long string) (string, error) {
	m := longDatePattern.FindStringSubmatch(CleanDateString(long))
	if m == nil {
		return "", fmt.Errorf("unable to parse long date: %s", long)
	}
	month, ok := monthNumbers[strings.ToLower(m[1])]
	if !ok {
		return "", fmt.Errorf("unknown month name '%s' in date: %s", m[1], long)
	}
	day, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 {
		return "", fmt.Errorf("day out of range in date: %s", long)
	}
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day), nil
}

// ParseISO parses a YYYY-MM-DD date.
func ParseISO(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayoutISO, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
	}
	return t, nil
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// YearOf returns the 4-digit year prefix of an ISO date, or "" when too short.
func YearOf(isoDate string) string {
	if len(isoDate) < 4 {
		return ""
	}
	return isoDate[:4]
}

// MonthOf returns the YYYY-MM prefix of an ISO date, or "" when too short.
func MonthOf(isoDate string) string {
	if len(isoDate) < 7 {
		return ""
	}
	return isoDate[:7]
}

// YearBounds returns the first and last ISO day of a 4-digit year.
func YearBounds(year string) (string, string) {
	return year + "-01-01", year + "-12-31"
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	return strings.Join(strings.Fields(dateStr), " ")
}

// DateRange tracks the earliest and latest valid ISO dates seen.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Include widens the range to cover date. Unparsable dates are ignored and
// reported as false.
func (r *DateRange) Include(isoDate string) bool {
	t, err := ParseISO(isoDate)
	if err != nil {
		return false
	}
	if r.Start.IsZero() || t.Before(r.Start) {
		r.Start = t
	}
	if r.End.IsZero() || t.After(r.End) {
		r.End = t
	}
	return true
}

// IsZero reports whether no date has been included yet.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero()
}

// StartISO returns the start of the range as YYYY-MM-DD.
func (r DateRange) StartISO() string {
	return ToISODate(r.Start)
}

// EndISO returns the end of the range as YYYY-MM-DD.
func (r DateRange) EndISO() string {
	return ToISODate(r.End)
}
