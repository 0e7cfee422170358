// Package summary aggregates a year ledger into the totals of the annual tax
// statement and renders them for the terminal.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/divtax/internal/currencyutils"
	"fjacquet/divtax/internal/dateutils"
	"fjacquet/divtax/internal/models"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// DefaultAdditionalTaxRate is the Polish top-up on dividends (19% due minus
// the 10% treaty withholding).
var DefaultAdditionalTaxRate = decimal.RequireFromString("0.09")

// DefaultStyle is the glamour style used by Render.
const DefaultStyle = "dark"

const unknownMonth = "unknown"

// CurrencyTotal is the local-currency sum of all records held in one currency.
type CurrencyTotal struct {
	Currency string
	TotalPLN decimal.Decimal
}

// MonthTotal holds the dividends and taxes of one YYYY-MM month.
type MonthTotal struct {
	Month        string
	DividendsPLN decimal.Decimal
	TaxPLN       decimal.Decimal
}

// AssetTotal holds the dividends, taxes and net of one ticker.
type AssetTotal struct {
	Ticker       string
	Currency     string
	DividendsPLN decimal.Decimal
	TaxPLN       decimal.Decimal
	NetPLN       decimal.Decimal
}

// Summary is the yearly statement derived from a YearLedger.
type Summary struct {
	Year              string
	FromDate          string
	ToDate            string
	AdditionalTaxRate decimal.Decimal
	TotalDividendsPLN decimal.Decimal
	TotalTaxPLN       decimal.Decimal
	AdditionalTaxPLN  decimal.Decimal
	FinalNetPLN       decimal.Decimal
	PerCurrency       []CurrencyTotal
	Tickers           []string
	DividendCount     int
	TaxCount          int
	Monthly           []MonthTotal
	Assets            []AssetTotal
}

// Normalize recomputes the period of a year from the dates of its records.
// A year without dated records spans the whole calendar year.
func Normalize(y *models.YearLedger) {
	var r dateutils.DateRange
	for _, kind := range []models.RecordKind{models.KindDividend, models.KindTax} {
		for _, rec := range y.Records(kind) {
			r.Include(rec.Date)
		}
	}
	if !r.IsZero() {
		y.FromDate = r.StartISO()
		y.ToDate = r.EndISO()
		return
	}
	if _, err := dateutils.ParseISO(y.Year + "-01-01"); err == nil {
		y.FromDate, y.ToDate = dateutils.YearBounds(y.Year)
	}
}

// Aggregate computes the statement totals of a year. Sums are rounded once,
// after accumulation; the additional tax applies rate to the dividend total.
func Aggregate(y *models.YearLedger, rate decimal.Decimal) Summary {
	s := Summary{
		Year:              y.Year,
		FromDate:          y.FromDate,
		ToDate:            y.ToDate,
		AdditionalTaxRate: rate,
	}

	perCurrency := map[string]decimal.Decimal{}
	monthly := map[string]*MonthTotal{}
	tickers := map[string]struct{}{}
	assets := map[string]*AssetTotal{}

	month := func(date string) *MonthTotal {
		key := dateutils.MonthOf(date)
		if key == "" {
			key = unknownMonth
		}
		m, ok := monthly[key]
		if !ok {
			m = &MonthTotal{Month: key}
			monthly[key] = m
		}
		return m
	}
	asset := func(b *models.TickerBucket) *AssetTotal {
		a, ok := assets[b.Ticker]
		if !ok {
			a = &AssetTotal{Ticker: b.Ticker}
			assets[b.Ticker] = a
		}
		return a
	}

	for _, b := range y.Dividends {
		tickers[b.Ticker] = struct{}{}
		a := asset(b)
		if a.Currency == "" && len(b.Records) > 0 {
			a.Currency = currencyutils.NormalizeCode(b.Records[0].Currency)
		}
		for _, rec := range b.Records {
			s.DividendCount++
			s.TotalDividendsPLN = s.TotalDividendsPLN.Add(rec.AmountPLN)
			if ccy := currencyutils.NormalizeCode(rec.Currency); ccy != "" {
				perCurrency[ccy] = perCurrency[ccy].Add(rec.AmountPLN)
			}
			m := month(rec.Date)
			m.DividendsPLN = m.DividendsPLN.Add(rec.AmountPLN)
			a.DividendsPLN = a.DividendsPLN.Add(models.Round2(rec.AmountPLN))
		}
	}

	for _, b := range y.Taxes {
		tickers[b.Ticker] = struct{}{}
		a := asset(b)
		for _, rec := range b.Records {
			s.TaxCount++
			s.TotalTaxPLN = s.TotalTaxPLN.Add(rec.AmountPLN)
			if ccy := currencyutils.NormalizeCode(rec.Currency); ccy != "" {
				perCurrency[ccy] = perCurrency[ccy].Add(rec.AmountPLN)
			}
			m := month(rec.Date)
			m.TaxPLN = m.TaxPLN.Add(rec.AmountPLN)
			a.TaxPLN = a.TaxPLN.Add(models.Round2(rec.AmountPLN))
		}
	}

	s.TotalDividendsPLN = models.Round2(s.TotalDividendsPLN)
	s.TotalTaxPLN = models.Round2(s.TotalTaxPLN)
	s.AdditionalTaxPLN = models.Round2(s.TotalDividendsPLN.Mul(rate))
	s.FinalNetPLN = models.Round2(s.TotalDividendsPLN.Add(s.TotalTaxPLN).Sub(s.AdditionalTaxPLN))

	for ccy, total := range perCurrency {
		s.PerCurrency = append(s.PerCurrency, CurrencyTotal{Currency: ccy, TotalPLN: models.Round2(total)})
	}
	sort.Slice(s.PerCurrency, func(i, j int) bool { return s.PerCurrency[i].Currency < s.PerCurrency[j].Currency })

	for t := range tickers {
		if t != "" && t != models.UnknownTicker {
			s.Tickers = append(s.Tickers, t)
		}
	}
	sort.Strings(s.Tickers)

	for _, m := range monthly {
		m.DividendsPLN = models.Round2(m.DividendsPLN)
		m.TaxPLN = models.Round2(m.TaxPLN)
		s.Monthly = append(s.Monthly, *m)
	}
	sort.Slice(s.Monthly, func(i, j int) bool { return s.Monthly[i].Month < s.Monthly[j].Month })

	// Only tickers that paid a dividend get an asset row.
	for _, b := range y.Dividends {
		a := assets[b.Ticker]
		if a == nil {
			continue
		}
		a.NetPLN = models.Round2(a.DividendsPLN.Add(a.TaxPLN))
		s.Assets = append(s.Assets, *a)
		delete(assets, b.Ticker)
	}
	sort.SliceStable(s.Assets, func(i, j int) bool { return s.Assets[i].Ticker < s.Assets[j].Ticker })

	return s
}

// Markdown renders a summary as a markdown document.
func Markdown(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tax report %s\n\n", s.Year)
	fmt.Fprintf(&b, "Report period: %s - %s\n\n", orDash(s.FromDate), orDash(s.ToDate))

	b.WriteString("## Yearly summary\n\n")
	b.WriteString("| Metric | Amount (PLN) |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Total dividends | %s |\n", currencyutils.FormatPLN(s.TotalDividendsPLN))
	fmt.Fprintf(&b, "| Withheld tax | %s |\n", currencyutils.FormatPLN(s.TotalTaxPLN))
	fmt.Fprintf(&b, "| Additional tax (%s%%) | %s |\n",
		s.AdditionalTaxRate.Shift(2).String(), currencyutils.FormatPLN(s.AdditionalTaxPLN))
	fmt.Fprintf(&b, "| Final net | %s |\n\n", currencyutils.FormatPLN(s.FinalNetPLN))

	b.WriteString("| Indicator | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Tickers (unique) | %d |\n", len(s.Tickers))
	fmt.Fprintf(&b, "| Dividend rows | %d |\n", s.DividendCount)
	fmt.Fprintf(&b, "| Tax rows | %d |\n\n", s.TaxCount)

	if len(s.PerCurrency) > 0 {
		b.WriteString("## By currency\n\n| Currency | Total (PLN) |\n|---|---:|\n")
		for _, c := range s.PerCurrency {
			fmt.Fprintf(&b, "| %s | %s |\n", c.Currency, currencyutils.FormatPLN(c.TotalPLN))
		}
		b.WriteString("\n")
	}

	if len(s.Assets) > 0 {
		b.WriteString("## Assets\n\n| Ticker | Currency | Dividends (PLN) | Taxes (PLN) | Net (PLN) |\n|---|---|---:|---:|---:|\n")
		for _, a := range s.Assets {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", a.Ticker, a.Currency,
				currencyutils.FormatPLN(a.DividendsPLN),
				currencyutils.FormatPLN(a.TaxPLN),
				currencyutils.FormatPLN(a.NetPLN))
		}
		b.WriteString("\n")
	}

	if len(s.Monthly) > 0 {
		b.WriteString("## Monthly\n\n| Month | Dividends (PLN) | Tax (PLN) |\n|---|---:|---:|\n")
		for _, m := range s.Monthly {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", m.Month,
				currencyutils.FormatPLN(m.DividendsPLN),
				currencyutils.FormatPLN(m.TaxPLN))
		}
	}

	return b.String()
}

// Render renders a summary for the terminal with the named glamour style
// ("dark", "light", "notty", ...). An empty style selects DefaultStyle.
func Render(s Summary, style string) (string, error) {
	if style == "" {
		style = DefaultStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(Markdown(s))
	if err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}
	return out, nil
}

func orDash(s string) string {
	if s == "" {
		return "---"
	}
	return s
}
