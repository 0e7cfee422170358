// Package validation checks user-supplied command inputs.
package validation

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"fjacquet/divtax/internal/dateutils"
)

var (
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// IsValidFile checks that path exists and is a regular file.
func IsValidFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidDirectory checks that path exists and is a directory.
func IsValidDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given ledger format is supported.
func IsValidOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'json', 'yaml'", format)
	}
}

// IsValidYear checks for a four-digit year.
func IsValidYear(year string) error {
	if !yearPattern.MatchString(year) {
		return fmt.Errorf("invalid year %q: expected YYYY", year)
	}
	return nil
}

// IsValidCurrencyCode checks for a three-letter uppercase ISO 4217 code.
func IsValidCurrencyCode(code string) error {
	if !currencyPattern.MatchString(code) {
		return fmt.Errorf("invalid currency code %q: expected three letters", code)
	}
	return nil
}

// IsValidDateRange checks two ISO dates with start not after end.
func IsValidDateRange(start, end string) error {
	from, err := dateutils.ParseISO(start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	to, err := dateutils.ParseISO(end)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return nil
}
