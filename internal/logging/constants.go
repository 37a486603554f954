package logging

// Standardized field names for structured logging.
// These constants keep the log output consistent so it can be filtered
// and analyzed without guessing key spellings.
const (
	FieldTransactionID = "transaction_id"
	FieldRunID         = "run_id"
	FieldBatch         = "batch"
	FieldChunk         = "chunk"
	FieldCount         = "count"
	FieldCategory      = "category"
	FieldSubCategory   = "subcategory"
	FieldModel         = "model"
	FieldSourceFile    = "source_file"
	FieldTablePath     = "table_path"
	FieldStatus        = "status"
	FieldReason        = "reason"
	FieldDuration      = "duration_ms"
)
