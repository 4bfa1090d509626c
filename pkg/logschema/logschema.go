package logschema

// Log schema constants for muedit structured logs.
const (
	SchemaID    = "muedit.log.v1"
	FieldSchema = "log_schema"

	FieldTimestamp = "ts"
	FieldLevel     = "level"
	FieldMessage   = "msg"
	FieldLogger    = "logger"
	FieldCaller    = "caller"
	FieldStack     = "stack"

	FieldComponent = "component"
	FieldEvent     = "event"
	FieldResult    = "result"
	FieldError     = "error"
	FieldSession   = "session"
	FieldUnit      = "unit"
)

// LogRecord is a generic map representation of a log entry.
type LogRecord map[string]interface{}
