package types

// Status tracks the archival lifecycle of a persisted row and determines
// whether it should be included in queries. Distinct from the domain-level
// lease/payment statuses which carry business meaning.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)

type RunMode string

const (
	// ModeLocal runs the API server with local defaults
	ModeLocal RunMode = "local"
	// ModeAPI runs the API server for a deployed environment
	ModeAPI RunMode = "api"
)
