package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldAccountID   = "account_id"
	FieldCategoryID  = "category_id"
	FieldTxID        = "transaction_id"
	FieldSnapshotID  = "snapshot_id"
	FieldAmountCents = "amount_cents"
	FieldBalance     = "balance_cents"
	FieldTxType      = "transaction_type"
	FieldDate        = "date"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentJournal  = "journal"
	ComponentSnapshot = "snapshot"
	ComponentCategory = "category"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
)
