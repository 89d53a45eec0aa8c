package constants

// Context keys
const (
	ContextKeyUser   = "current_user"
	ContextKeyUserID = "user_id"
)

// Validation
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// OTP
const (
	OtpCodeLength  = 6
	OtpMaxAttempts = 5
)

// DefaultTaskStateName seeds the state table when a task is created
// before any state exists.
const DefaultTaskStateName = "To Do"
