package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "bad amount",
			err: &ParseError{
				Parser: "dividend",
				Field:  "amount",
				Value:  "4,4x",
				Err:    errors.New("invalid decimal"),
			},
			expected: "dividend: failed to parse amount='4,4x': invalid decimal",
		},
		{
			name: "empty date",
			err: &ParseError{
				Parser: "tax",
				Field:  "date",
				Value:  "",
				Err:    ErrOutsideYear,
			},
			expected: "tax: failed to parse date='': transaction date outside report year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	parseErr := &ParseError{Parser: "dividend", Field: "date", Value: "2024-12-31", Err: ErrOutsideYear}
	wrapped := fmt.Errorf("line 12: %w", parseErr)

	assert.True(t, errors.Is(wrapped, ErrOutsideYear))

	var target *ParseError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "date", target.Field)
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name: "with content snippet",
			err: &InvalidFormatError{
				FilePath:             "broker_reports/U123.csv",
				ExpectedFormat:       "broker statement with period row",
				ActualContentSnippet: "Trades,Header,",
				Msg:                  "period not detected",
			},
			expected: "invalid format in file 'broker_reports/U123.csv': period not detected. Expected: broker statement with period row. Content snippet: 'Trades,Header,'",
		},
		{
			name: "without content snippet",
			err: &InvalidFormatError{
				FilePath:       "a.csv",
				ExpectedFormat: "CSV",
				Msg:            "empty file",
			},
			expected: "invalid format in file 'a.csv': empty file. Expected: CSV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestInvalidFormatError_Unwrap(t *testing.T) {
	sentinel := errors.New("period not found")
	err := &InvalidFormatError{FilePath: "x.csv", Msg: "no period", Err: sentinel}

	assert.True(t, errors.Is(err, sentinel))
	assert.Nil(t, (&InvalidFormatError{}).Unwrap())
}

func TestDataExtractionError(t *testing.T) {
	tests := []struct {
		name     string
		err      *DataExtractionError
		expected string
	}{
		{
			name: "with raw data snippet",
			err: &DataExtractionError{
				FilePath:       "ledger.json",
				FieldName:      "years",
				RawDataSnippet: "{}",
				Reason:         "missing list",
				Msg:            "could not read ledger",
			},
			expected: "data extraction failed in file 'ledger.json' for field 'years': could not read ledger. Reason: missing list. Raw data snippet: '{}'",
		},
		{
			name: "without raw data snippet",
			err: &DataExtractionError{
				FilePath:  "ledger.json",
				FieldName: "year",
				Reason:    "not found",
				Msg:       "requested year missing",
			},
			expected: "data extraction failed in file 'ledger.json' for field 'year': requested year missing. Reason: not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}
