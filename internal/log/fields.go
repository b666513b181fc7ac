package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldKey           = "key"
	FieldBackend       = "backend"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldRuleID        = "rule_id"
	FieldDate          = "date"
	FieldAmount        = "amount"
	FieldCount         = "count"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentEngine    = "engine"
	ComponentStore     = "store"
	ComponentRecurring = "recurring"
	ComponentConfig    = "config"
)

// Standard operation names.
const (
	OpLoad        = "load"
	OpSave        = "save"
	OpAdd         = "add"
	OpDelete      = "delete"
	OpUpdate      = "update"
	OpReorder     = "reorder"
	OpMaterialize = "materialize"
)
