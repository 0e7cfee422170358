// Package summary implements the command that prints the yearly tax summary
// of a saved ledger.
package summary

import (
	"fmt"
	"io"

	"fjacquet/divtax/cmd/root"
	"fjacquet/divtax/internal/ledger"
	"fjacquet/divtax/internal/models"
	yearsummary "fjacquet/divtax/internal/summary"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	year  string
	plain bool
	style string
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary <ledger>",
	Short: "Print the yearly tax summary of a ledger",
	Long: `Print the yearly tax summary of a ledger written by the report command:
total dividends, withheld tax, the additional Polish tax and the final net,
followed by per-currency, per-asset and monthly breakdowns.

Example:
  divtax summary tax_reports/divs_2025.json
  divtax summary tax_reports/divs_2025.json --plain > summary.md`,
	Args: cobra.ExactArgs(1),
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().StringVarP(&year, "year", "y", "", "Only summarize this year")
	Cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown instead of rendering it")
	Cmd.Flags().StringVar(&style, "style", "", "Glamour style (default from config summary.style)")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	s := style
	if s == "" {
		s = cfg.Summary.Style
	}
	return Print(cmd.OutOrStdout(), args[0], year, cfg.AdditionalTaxRate(), s, plain)
}

// Print loads the ledger at path and writes the summary of each of its years,
// or of the selected year only.
func Print(w io.Writer, path, onlyYear string, rate decimal.Decimal, style string, plain bool) error {
	l, err := ledger.Load(path)
	if err != nil {
		return err
	}

	var years []*models.YearLedger
	for _, y := range l.Years() {
		if onlyYear == "" || y == onlyYear {
			years = append(years, l.Year(y))
		}
	}
	if len(years) == 0 {
		return fmt.Errorf("no year %q in ledger %s", onlyYear, path)
	}

	for _, y := range years {
		yearsummary.Normalize(y)
		s := yearsummary.Aggregate(y, rate)
		if plain {
			if _, err := fmt.Fprintln(w, yearsummary.Markdown(s)); err != nil {
				return err
			}
			continue
		}
		out, err := yearsummary.Render(s, style)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, out); err != nil {
			return err
		}
	}
	return nil
}
