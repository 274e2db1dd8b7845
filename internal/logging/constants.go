package logging

// Standardized field names for structured logging, for consistent filtering
// across the application's log output.
const (
	FieldFile          = "file_path"
	FieldTemplate      = "template"
	FieldTransactionID = "transaction_id"
	FieldRuleID        = "rule_id"
	FieldCategory      = "category"
	FieldMethod        = "match_method"
	FieldConfidence    = "confidence"
	FieldMerchant      = "merchant"
	FieldReason        = "reason"
	FieldCount         = "count"
	FieldInputFile     = "input_file"
	FieldOutputFile    = "output_file"
)
