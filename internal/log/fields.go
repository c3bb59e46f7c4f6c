package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldTable     = "table"
	FieldSubjectID = "subject_id"
	FieldTaskID    = "task_id"
	FieldSessionID = "session_id"
	FieldChangeID  = "change_id"
	FieldPath      = "path"
	FieldDuration  = "duration_ms"
	FieldScreen    = "screen"
	FieldQueue     = "queue"
	FieldExchange  = "exchange"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentState   = "state"
	ComponentSummary = "summary"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpRead    = "read"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpMigrate = "migrate"
	OpPublish = "publish"
	OpConsume = "consume"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithChange adds the fields identifying a committed change.
func (f LogFields) WithChange(id, table string, entityID, subjectID int64) LogFields {
	f[FieldChangeID] = id
	f[FieldTable] = table
	if entityID != 0 {
		f["entity_id"] = entityID
	}
	if subjectID != 0 {
		f[FieldSubjectID] = subjectID
	}
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
