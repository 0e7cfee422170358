package validation_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/divtax/internal/validation"

	"github.com/stretchr/testify/assert"
)

func TestIsValidFileAndDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "statement.csv")
	assert.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))
	missing := filepath.Join(tmpDir, "missing.csv")

	assert.NoError(t, validation.IsValidFile(testFile))
	assert.ErrorContains(t, validation.IsValidFile(tmpDir), "not a regular file")
	assert.ErrorContains(t, validation.IsValidFile(missing), "path does not exist")

	assert.NoError(t, validation.IsValidDirectory(tmpDir))
	assert.ErrorContains(t, validation.IsValidDirectory(testFile), "not a directory")
	assert.ErrorContains(t, validation.IsValidDirectory(missing), "path does not exist")
}

func TestIsValidOutputFormat(t *testing.T) {
	tests := []struct {
		format      string
		expectError bool
	}{
		{"json", false},
		{"yaml", false},
		{"JSON", false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validation.IsValidOutputFormat(tt.format)
			if tt.expectError {
				assert.ErrorContains(t, err, "unsupported output format")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsValidYear(t *testing.T) {
	assert.NoError(t, validation.IsValidYear("2025"))
	assert.Error(t, validation.IsValidYear("25"))
	assert.Error(t, validation.IsValidYear("2025-01"))
	assert.Error(t, validation.IsValidYear(""))
}

func TestIsValidCurrencyCode(t *testing.T) {
	assert.NoError(t, validation.IsValidCurrencyCode("USD"))
	assert.Error(t, validation.IsValidCurrencyCode("usd"))
	assert.Error(t, validation.IsValidCurrencyCode("US"))
	assert.Error(t, validation.IsValidCurrencyCode("TOTAL"))
}

func TestIsValidDateRange(t *testing.T) {
	tests := []struct {
		name        string
		start, end  string
		errContains string
	}{
		{name: "valid", start: "2025-01-01", end: "2025-01-31"},
		{name: "single day", start: "2025-01-01", end: "2025-01-01"},
		{name: "bad start", start: "2025/01/01", end: "2025-01-31", errContains: "invalid start date"},
		{name: "bad end", start: "2025-01-01", end: "31.01.2025", errContains: "invalid end date"},
		{name: "reversed", start: "2025-02-01", end: "2025-01-01", errContains: "before start date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidDateRange(tt.start, tt.end)
			if tt.errContains == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errContains)
			}
		})
	}
}
