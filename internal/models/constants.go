package models

// Record kinds. Dividends and withheld taxes are bucketed separately.
const (
	KindDividend RecordKind = "dividend"
	KindTax      RecordKind = "tax"
)

// UnknownTicker is used when no ticker can be derived from a description.
const UnknownTicker = "UNKNOWN"

// DefaultLocalCurrency is the currency every amount is converted into.
const DefaultLocalCurrency = "PLN"

// Row markers of a broker activity statement.
const (
	SectionStatement        = "Statement"
	SectionDividends        = "Dividends"
	SectionWithholdingTax   = "Withholding Tax"
	RowTypeData             = "Data"
	StatementFieldPeriod    = "Period"
	DividendRowPrefix       = SectionDividends + "," + RowTypeData + ","
	WithholdingTaxRowPrefix = SectionWithholdingTax + "," + RowTypeData + ","
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
	PermissionCacheFile  = 0644
)
