// Package rates implements the command that looks up exchange rates through
// the rate cache, mainly to inspect or warm the cache.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/divtax/cmd/root"
	"fjacquet/divtax/internal/currencyutils"
	"fjacquet/divtax/internal/nbp"
	"fjacquet/divtax/internal/validation"

	"github.com/spf13/cobra"
)

var refresh bool

// CacheEvicter drops a cached rate range so the next lookup asks the rate service again.
type CacheEvicter interface {
	Remove(currency, start, end string) error
}

// Cmd represents the rates command
var Cmd = &cobra.Command{
	Use:   "rates <CCY> <START> <END>",
	Short: "Fetch mid-market rates for a currency and date range",
	Long: `Fetch the NBP mid-market rates of a currency between two ISO dates
(inclusive) and print them as JSON. Results are served from and written to
the rate cache directory. A range once answered with no rates stays cached
as empty; --refresh drops the cached entry first.

Example:
  divtax rates USD 2025-01-01 2025-01-31`,
	Args: cobra.ExactArgs(3),
	RunE: ratesFunc,
}

func init() {
	Cmd.Flags().BoolVar(&refresh, "refresh", false, "Drop the cached entry and query the rate service again")
}

func ratesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.RequireContainer()
	if err != nil {
		return err
	}
	if refresh {
		if err := Evict(c.GetStore(), args[0], args[1], args[2]); err != nil {
			return err
		}
	}
	return Print(cmd.Context(), cmd.OutOrStdout(), c.GetRateClient(), args[0], args[1], args[2])
}

// Evict removes the cached rates of currency between start and end.
func Evict(cache CacheEvicter, currency, start, end string) error {
	ccy := currencyutils.NormalizeCode(currency)
	if err := validation.IsValidCurrencyCode(ccy); err != nil {
		return err
	}
	if err := validation.IsValidDateRange(start, end); err != nil {
		return err
	}
	return cache.Remove(ccy, start, end)
}

// Print fetches the rates of currency between start and end and writes them
// as indented JSON.
func Print(ctx context.Context, w io.Writer, fetcher nbp.RateFetcher, currency, start, end string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ccy := currencyutils.NormalizeCode(currency)
	if err := validation.IsValidCurrencyCode(ccy); err != nil {
		return err
	}
	if err := validation.IsValidDateRange(start, end); err != nil {
		return err
	}

	records := fetcher.FetchRates(ctx, ccy, start, end)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
