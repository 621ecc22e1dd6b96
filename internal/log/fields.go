package log

// Field names shared by all structured log call sites.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldYear        = "year"
	FieldPeriod      = "period"
	FieldRecordCount = "record_count"
	FieldRecordID    = "record_id"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldSheet       = "sheet"
	FieldBackend     = "backend"
)

// Standard component names.
const (
	ComponentServer  = "server"
	ComponentClient  = "client"
	ComponentChat    = "chat"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentQueue   = "queue"
	ComponentWorker  = "worker"
)
