package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified flowkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// StepFailed creates an AppError for a step that returned a failure.
func StepFailed(message string) *AppError {
	return New(ErrCodeStepFailed, message)
}

// Timeout creates an AppError for a step that exceeded its time budget.
func Timeout(step string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "Step timed out", Retryable: true,
		Details: map[string]any{"step": step},
	}
}

// LoopFailed creates an AppError for a failed while-loop iteration.
// The iteration's message is kept unchanged.
func LoopFailed(message string) *AppError {
	return New(ErrCodeLoopFailed, message)
}

// Canceled creates an AppError for an execution whose context was canceled.
func Canceled(cause error) *AppError {
	return &AppError{Code: ErrCodeCanceled, Message: "Workflow canceled", Cause: cause}
}

// Unhandled creates an AppError for an error no handler recovered from.
func Unhandled(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeUnhandled,
		Message: fmt.Sprintf("Unhandled exception: %s", MessageOf(cause)),
		Cause:   cause,
	}
}

// RetryExhausted creates an AppError for a step that failed on every attempt.
func RetryExhausted(attempts int, lastFailure string) *AppError {
	return &AppError{
		Code:    ErrCodeRetryExhausted,
		Message: fmt.Sprintf("Step failed after %d attempts", attempts),
		Details: map[string]any{"attempts": attempts, "last_failure": lastFailure},
	}
}

// Panic creates an AppError from a recovered panic value.
func Panic(value any) *AppError {
	if err, ok := value.(error); ok {
		return &AppError{Code: ErrCodePanic, Message: fmt.Sprintf("panic: %v", err), Cause: err}
	}
	return &AppError{Code: ErrCodePanic, Message: fmt.Sprintf("panic: %v", value)}
}

// CircuitOpen creates an AppError for a step rejected by an open circuit breaker.
func CircuitOpen(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCircuitOpen, Message: fmt.Sprintf("circuit %q is open", name), Retryable: true,
		Details: map[string]any{"circuit": name}, Cause: cause,
	}
}

// RateLimited creates an AppError for a step that could not acquire a token.
func RateLimited(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("rate limiter %q rejected the call", name), Retryable: true,
		Details: map[string]any{"limiter": name}, Cause: cause,
	}
}

// BulkheadFull creates an AppError for a step rejected by a saturated bulkhead.
func BulkheadFull(name string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeBulkheadFull, Message: fmt.Sprintf("bulkhead %q is full", name), Retryable: true,
		Details: map[string]any{"bulkhead": name}, Cause: cause,
	}
}

// InvalidInput creates an AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// InvalidBuild creates an AppError for an incorrectly assembled chain.
func InvalidBuild(operation, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidBuild, Message: fmt.Sprintf("%s: %s", operation, reason),
		Details: map[string]any{"operation": operation},
	}
}

// TypeMismatch creates an AppError for a boxed value of an unexpected type.
func TypeMismatch(step string, want, got any) *AppError {
	return &AppError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("step %q expected %T, got %T", step, want, got),
		Details: map[string]any{"step": step},
	}
}

// Validation creates an AppError for validation errors.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FindCode returns the first AppError in err's chain carrying the given code.
func FindCode(err error, code ErrorCode) (*AppError, bool) {
	for err != nil {
		appErr, ok := AsAppError(err)
		if !ok {
			return nil, false
		}
		if appErr.Code == code {
			return appErr, true
		}
		err = appErr.Cause
	}
	return nil, false
}

// HasCode reports whether any AppError in err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	_, ok := FindCode(err, code)
	return ok
}

// MessageOf returns the human-readable message of err: the AppError message
// when err is one (not merely wraps one), err.Error() otherwise.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return err.Error()
}
