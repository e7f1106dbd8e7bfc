package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldCollection = "collection"
	FieldDocID      = "doc_id"
	FieldMemberID   = "member_id"
	FieldEventID    = "event_id"
	FieldMese       = "mese"
	FieldImporto    = "importo"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentRubrica    = "rubrica"
	ComponentQuote      = "quote"
	ComponentPresenze   = "presenze"
	ComponentSpese      = "spese"
	ComponentCalendario = "calendario"
	ComponentStore      = "store"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentSheets     = "sheets"
	ComponentCache      = "cache"
	ComponentTrace      = "trace"
	ComponentBackend    = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpToggle   = "toggle"
	OpExport   = "export"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
