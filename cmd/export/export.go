// Package export implements the command that flattens a ledger into CSV.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/divtax/cmd/root"
	"fjacquet/divtax/internal/common"
	"fjacquet/divtax/internal/ledger"
	"fjacquet/divtax/internal/logging"

	"github.com/spf13/cobra"
)

var (
	output string
	year   string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export <ledger>",
	Short: "Export ledger records to a flat CSV file",
	Long: `Export every dividend and tax record of a ledger to a flat CSV file with
one row per record: year, kind, ticker, currency, date, amount, rate and
amount in PLN. The delimiter comes from config csv.delimiter.

Example:
  divtax export tax_reports/divs_2025.json -o tax_reports/divs_2025.csv`,
	Args: cobra.ExactArgs(1),
	RunE: exportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file (default: ledger path with .csv extension)")
	Cmd.Flags().StringVarP(&year, "year", "y", "", "Only export this year")
}

func exportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	out, count, err := Export(args[0], output, year, c.GetConfig().Delimiter(), c.GetLogger())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d records)\n", out, count)
	return nil
}

// DefaultOutput derives the CSV path of a ledger file.
func DefaultOutput(ledgerPath string) string {
	return strings.TrimSuffix(ledgerPath, filepath.Ext(ledgerPath)) + ".csv"
}

// Export writes the records of the ledger at ledgerPath, or of one of its
// years, to out and reads the file back to check every row landed. It
// returns the written path and the number of rows.
func Export(ledgerPath, out, onlyYear string, delimiter rune, logger logging.Logger) (string, int, error) {
	l, err := ledger.Load(ledgerPath)
	if err != nil {
		return "", 0, err
	}
	if out == "" {
		out = DefaultOutput(ledgerPath)
	}

	var rows []common.ExportRow
	if onlyYear == "" {
		rows = common.FlattenReport(l.Report())
	} else {
		y := l.Year(onlyYear)
		if y == nil {
			return "", 0, fmt.Errorf("no year %q in ledger %s", onlyYear, ledgerPath)
		}
		rows = common.FlattenYear(y)
	}

	if err := common.WriteRecordsToCSV(rows, out, delimiter, logger); err != nil {
		return "", 0, err
	}
	if len(rows) == 0 {
		return out, 0, nil
	}

	written, err := common.ReadCSVFile[common.ExportRow](out, delimiter, logger)
	if err != nil {
		return "", 0, fmt.Errorf("failed to verify %s: %w", out, err)
	}
	if len(written) != len(rows) {
		return "", 0, fmt.Errorf("export %s holds %d rows, expected %d", out, len(written), len(rows))
	}
	return out, len(rows), nil
}
