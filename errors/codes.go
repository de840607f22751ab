package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Step outcome errors
const (
	// ErrCodeStepFailed indicates a step returned a failure result.
	ErrCodeStepFailed ErrorCode = "STEP_FAILED"
	// ErrCodeTimeout indicates a step lost the race against the configured timeout.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeLoopFailed indicates an iteration of a while loop failed.
	ErrCodeLoopFailed ErrorCode = "LOOP_FAILED"
	// ErrCodeCanceled indicates the execution context was canceled between steps.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Thrown errors
const (
	// ErrCodeUnhandled indicates an error escaped the chain and no handler recovered it.
	ErrCodeUnhandled ErrorCode = "UNHANDLED_EXCEPTION"
	// ErrCodeRetryExhausted indicates a retried step failed on every attempt.
	ErrCodeRetryExhausted ErrorCode = "RETRY_EXHAUSTED"
	// ErrCodePanic indicates a step, condition or handler panicked.
	ErrCodePanic ErrorCode = "PANIC"
	// ErrCodeCircuitOpen indicates a guarded step was short-circuited.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
	// ErrCodeRateLimited indicates a rate-limited step could not acquire a token.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeBulkheadFull indicates a step found no free concurrency slot.
	ErrCodeBulkheadFull ErrorCode = "BULKHEAD_FULL"
)

// Contract violations
const (
	// ErrCodeInvalidInput indicates Execute was called with a nil input.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidBuild indicates the builder was used incorrectly.
	ErrCodeInvalidBuild ErrorCode = "INVALID_BUILD"
	// ErrCodeTypeMismatch indicates a boxed value had an unexpected type at run time.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeValidation indicates a configuration value failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeStepFailed:     true,
	ErrCodeTimeout:        true,
	ErrCodeCircuitOpen:    true,
	ErrCodeRateLimited:    true,
	ErrCodeBulkheadFull:   true,
	ErrCodeRetryExhausted: false,
	ErrCodeTypeMismatch:   false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
