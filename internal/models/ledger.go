// Package models provides the data structures used throughout the application.
package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RecordKind distinguishes dividend records from withholding-tax records.
type RecordKind string

// Period is the reporting period declared by one broker statement.
type Period struct {
	FromDate string `json:"fromDate" yaml:"fromDate"`
	ToDate   string `json:"toDate" yaml:"toDate"`
	Year     string `json:"year" yaml:"year"`
}

// TransactionRecord is one dividend or tax line enriched with its local-currency value.
// Tax amounts are negative (withheld), dividend amounts positive.
type TransactionRecord struct {
	Ticker    string          `json:"-" yaml:"-"`
	Date      string          `json:"date" yaml:"date"`
	Currency  string          `json:"currency" yaml:"currency"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	AmountPLN decimal.Decimal `json:"amountPln" yaml:"amountPln"`
}

// TickerBucket groups the records of one ticker within one kind of one year.
type TickerBucket struct {
	Ticker   string
	Currency string
	Kind     RecordKind
	Records  []TransactionRecord
}

// bucketDoc is the serialized form of a TickerBucket. The records live under
// "dividend" for dividend buckets and under "tax" for tax buckets.
type bucketDoc struct {
	Ticker   string              `json:"ticker" yaml:"ticker"`
	Currency string              `json:"currency" yaml:"currency"`
	Dividend []TransactionRecord `json:"dividend,omitempty" yaml:"dividend,omitempty"`
	Tax      []TransactionRecord `json:"tax,omitempty" yaml:"tax,omitempty"`
}

func (b TickerBucket) doc() bucketDoc {
	records := b.Records
	if records == nil {
		records = []TransactionRecord{}
	}
	d := bucketDoc{Ticker: b.Ticker, Currency: b.Currency}
	if b.Kind == KindTax {
		d.Tax = records
	} else {
		d.Dividend = records
	}
	return d
}

func (b *TickerBucket) fromDoc(d bucketDoc) {
	b.Ticker = d.Ticker
	b.Currency = d.Currency
	if d.Tax != nil {
		b.Kind = KindTax
		b.Records = d.Tax
	} else {
		b.Kind = KindDividend
		b.Records = d.Dividend
	}
	for i := range b.Records {
		b.Records[i].Ticker = b.Ticker
	}
}

// MarshalJSON writes the bucket with its records keyed by kind.
func (b TickerBucket) MarshalJSON() ([]byte, error) {
	d := b.doc()
	if b.Kind == KindTax {
		return json.Marshal(struct {
			Ticker   string              `json:"ticker"`
			Currency string              `json:"currency"`
			Tax      []TransactionRecord `json:"tax"`
		}{d.Ticker, d.Currency, d.Tax})
	}
	return json.Marshal(struct {
		Ticker   string              `json:"ticker"`
		Currency string              `json:"currency"`
		Dividend []TransactionRecord `json:"dividend"`
	}{d.Ticker, d.Currency, d.Dividend})
}

// UnmarshalJSON reads a bucket in either the dividend or the tax shape.
func (b *TickerBucket) UnmarshalJSON(data []byte) error {
	var d bucketDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	b.fromDoc(d)
	return nil
}

// MarshalYAML writes the bucket with its records keyed by kind.
func (b TickerBucket) MarshalYAML() (interface{}, error) {
	return b.doc(), nil
}

// UnmarshalYAML reads a bucket in either the dividend or the tax shape.
func (b *TickerBucket) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var d bucketDoc
	if err := unmarshal(&d); err != nil {
		return err
	}
	b.fromDoc(d)
	return nil
}

// YearLedger aggregates everything collected for one reporting year.
type YearLedger struct {
	Year      string          `json:"year" yaml:"year"`
	FromDate  string          `json:"fromDate,omitempty" yaml:"fromDate,omitempty"`
	ToDate    string          `json:"toDate,omitempty" yaml:"toDate,omitempty"`
	Dividends []*TickerBucket `json:"dividends" yaml:"dividends"`
	Taxes     []*TickerBucket `json:"taxes" yaml:"taxes"`
	FX        FXTable         `json:"fx" yaml:"fx"`
}

// NewYearLedger returns an empty ledger for the given year.
func NewYearLedger(year string) *YearLedger {
	return &YearLedger{
		Year:      year,
		Dividends: []*TickerBucket{},
		Taxes:     []*TickerBucket{},
		FX:        FXTable{},
	}
}

// Buckets returns the bucket list for a kind.
func (y *YearLedger) Buckets(kind RecordKind) []*TickerBucket {
	if kind == KindTax {
		return y.Taxes
	}
	return y.Dividends
}

// Records returns all records of a kind in bucket order.
func (y *YearLedger) Records(kind RecordKind) []TransactionRecord {
	var out []TransactionRecord
	for _, b := range y.Buckets(kind) {
		out = append(out, b.Records...)
	}
	return out
}

// Report is the root of the in-memory ledger, written whole to storage.
type Report struct {
	Years []*YearLedger `json:"years" yaml:"years"`
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Years: []*YearLedger{}}
}

// Normalize restores the invariants that serialization does not carry:
// bucket kinds follow the list they live in, and nil collections become empty.
func (r *Report) Normalize() {
	if r.Years == nil {
		r.Years = []*YearLedger{}
	}
	for _, y := range r.Years {
		if y.Dividends == nil {
			y.Dividends = []*TickerBucket{}
		}
		if y.Taxes == nil {
			y.Taxes = []*TickerBucket{}
		}
		if y.FX == nil {
			y.FX = FXTable{}
		}
		for _, b := range y.Dividends {
			b.Kind = KindDividend
		}
		for _, b := range y.Taxes {
			b.Kind = KindTax
		}
	}
}
