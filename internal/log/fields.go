package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldGoalID     = "goal_id"
	FieldGoalName   = "goal_name"
	FieldYear       = "year"
	FieldEventType  = "event_type"
	FieldCategory   = "category"
	FieldSection    = "section"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentBackend   = "backend"
	ComponentGoals     = "goals"
	ComponentDashboard = "dashboard"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentExport    = "export"
	ComponentCache     = "cache"
)
