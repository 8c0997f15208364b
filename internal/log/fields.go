package log

// Canonical field name constants for structured logging.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldSessionID = "session_id"
	FieldJobID     = "job_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldAttempt   = "attempt"
	FieldElapsed   = "elapsed"
	FieldInterval  = "interval"
	FieldTimeout   = "timeout"
	FieldURL       = "url"
	FieldHTTPCode  = "http_status"
	FieldKind      = "kind"
)
