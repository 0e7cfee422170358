// Package report implements the command that builds the yearly ledger from
// broker statements.
package report

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/divtax/cmd/root"
	"fjacquet/divtax/internal/batch"
	"fjacquet/divtax/internal/ledger"
	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/period"
	ledgerreport "fjacquet/divtax/internal/report"
	"fjacquet/divtax/internal/summary"
	"fjacquet/divtax/internal/validation"

	"github.com/spf13/cobra"
)

// Options selects what a report run reads and where it writes.
type Options struct {
	File      string
	Year      string
	InputDir  string
	OutputDir string
	Format    string
}

var (
	flags     Options
	noSummary bool
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Build the yearly dividend and tax ledger",
	Long: `Build the yearly dividend and withholding-tax ledger in PLN.

Either a single statement is processed, or with --year every *.csv statement
of the input directory whose period falls in that year. The ledger is written
to <output>/divs_<year>.<format> and a yearly summary is printed.

Example:
  divtax report broker_reports/U1234567_2025.csv
  divtax report --year 2025 --input broker_reports --output tax_reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flags.Year, "year", "y", "", "Collect every statement of the input directory for this year")
	Cmd.Flags().StringVarP(&flags.InputDir, "input", "i", "", "Input directory for --year (default from config paths.input_dir)")
	Cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", "", "Output directory (default from config paths.output_dir)")
	Cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Ledger format: json or yaml (default from config report.format)")
	Cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Do not print the yearly summary")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	logger := c.GetLogger()

	opts := flags
	if len(args) == 1 {
		opts.File = args[0]
	}
	if opts.InputDir == "" {
		opts.InputDir = cfg.Paths.InputDir
	}
	if opts.OutputDir == "" {
		opts.OutputDir = cfg.Paths.OutputDir
	}
	if opts.Format == "" {
		opts.Format = cfg.Report.Format
	}

	l, path, err := Run(cmd.Context(), c.GetProcessor(), c.GetReportGenerator(), opts, logger)
	if err != nil || path == "" {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if noSummary {
		return nil
	}
	y := l.Year(l.Years()[0])
	summary.Normalize(y)
	out, err := summary.Render(summary.Aggregate(y, cfg.AdditionalTaxRate()), cfg.Summary.Style)
	if err != nil {
		logger.WithError(err).Warn("Failed to render summary")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

// Run processes the statements selected by opts and saves the ledger. It
// returns an empty path, and no error, when nothing was collected.
func Run(ctx context.Context, proc *batch.Processor, gen *ledgerreport.ReportGenerator, opts Options, logger logging.Logger) (*ledger.Ledger, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validation.IsValidOutputFormat(opts.Format); err != nil {
		return nil, "", err
	}
	l := ledger.New()

	switch {
	case opts.Year != "":
		if err := validation.IsValidYear(opts.Year); err != nil {
			return nil, "", err
		}
		if err := validation.IsValidDirectory(opts.InputDir); err != nil {
			return nil, "", fmt.Errorf("invalid input directory: %w", err)
		}
		if opts.File != "" {
			logger.Warn("Ignoring file argument in year mode",
				logging.Field{Key: logging.FieldFile, Value: opts.File})
		}
		if _, err := proc.ProcessDirectory(ctx, l, opts.InputDir, opts.Year); err != nil {
			return nil, "", err
		}
		if l.IsEmpty() {
			logger.Info("No data found for given year",
				logging.Field{Key: logging.FieldYear, Value: opts.Year})
			return l, "", nil
		}

	case opts.File != "":
		if err := validation.IsValidFile(opts.File); err != nil {
			return nil, "", err
		}
		if _, err := proc.ProcessFile(ctx, l, opts.File, ""); err != nil {
			if !errors.Is(err, period.ErrPeriodNotFound) {
				return nil, "", err
			}
			logger.WithError(err).Warn("Could not parse report period",
				logging.Field{Key: logging.FieldFile, Value: opts.File})
		}
		if l.IsEmpty() {
			logger.Info("No data collected from file",
				logging.Field{Key: logging.FieldFile, Value: opts.File})
			return l, "", nil
		}

	default:
		return nil, "", fmt.Errorf("no input file: use 'divtax report <file.csv>' or 'divtax report --year <YYYY>'")
	}

	year := l.Years()[0]
	path, err := gen.Save(l.Report(), opts.OutputDir, year, opts.Format)
	if err != nil {
		return l, "", err
	}
	return l, path, nil
}
