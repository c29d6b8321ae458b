package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these so the control
// loop can classify failures with errors.Is without knowing the transport.
var (
	// Core taxonomy, checked at the control loop boundary.
	ErrInsufficientData   = errors.New("not enough bars to evaluate a signal")
	ErrDataUnavailable    = errors.New("market data unavailable")
	ErrExecutionFailed    = errors.New("order execution failed")
	ErrNotificationFailed = errors.New("notification delivery failed")

	// Transport-level causes. The exchange adapter attaches one of these
	// underneath ErrExecutionFailed/ErrDataUnavailable for diagnostics.
	ErrTimeout              = errors.New("operation timed out")
	ErrContextCanceled      = errors.New("operation canceled via context")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
	ErrInvalidAPIKeys       = errors.New("invalid API keys or permissions")
	ErrInsufficientFunds    = errors.New("insufficient funds for operation")
	ErrInvalidRequest       = errors.New("invalid request parameters or format")
	ErrUnknown              = errors.New("unknown error occurred")

	// Database specific errors.
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
