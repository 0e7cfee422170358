package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldInputDir   = "input_dir"
	FieldOutputFile = "output_file"
	FieldYear       = "year"
	FieldCurrency   = "currency"
	FieldTicker     = "ticker"
	FieldKind       = "kind"
	FieldDate       = "date"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldLine       = "line"
	FieldCount      = "count"
	FieldURL        = "url"
	FieldStatusCode = "status_code"
	FieldCachePath  = "cache_path"
	FieldFormat     = "format"
	FieldReason     = "reason"
	FieldError      = "error"
)
