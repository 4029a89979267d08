package logging

// Standardized field names for structured logging.
const (
	FieldOperation     = "operation"
	FieldComponent     = "component"
	FieldDate          = "date"
	FieldAsOf          = "as_of"
	FieldCutoff        = "cutoff"
	FieldCount         = "count"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldTransactionID = "transaction_id"
	FieldSaturday      = "last_saturday"
	FieldSunday        = "last_sunday"
	FieldBackend       = "backend"
	FieldFile          = "file_path"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatus        = "status"
	FieldDuration      = "duration_ms"
	FieldUser          = "user"
)
