package workflow

import (
	"github.com/kbukum/flowkit/errors"
)

// Result is the outcome of a step or a workflow: a value on success, a
// message and code on failure. The zero value is a failure with no message.
type Result[T any] struct {
	value   T
	ok      bool
	message string
	code    errors.ErrorCode
	cause   error
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v, ok: true}
}

// Failure creates a failed result classified as STEP_FAILED.
func Failure[T any](message string) Result[T] {
	return FailureWithCode[T](errors.ErrCodeStepFailed, message)
}

// FailureWithCode creates a failed result with an explicit classification.
func FailureWithCode[T any](code errors.ErrorCode, message string) Result[T] {
	return Result[T]{message: message, code: code}
}

// failureFrom converts an error into a failed result, keeping the error as cause.
func failureFrom[T any](appErr *errors.AppError) Result[T] {
	return Result[T]{message: appErr.Message, code: appErr.Code, cause: appErr.Cause}
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool { return r.ok }

// Value returns the success value, or the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Message returns the failure message, or "" on success.
func (r Result[T]) Message() string { return r.message }

// Code returns the failure classification, or "" on success.
func (r Result[T]) Code() errors.ErrorCode {
	if r.ok {
		return ""
	}
	if r.code == "" {
		return errors.ErrCodeStepFailed
	}
	return r.code
}

// Err returns the failure as an AppError, or nil on success.
func (r Result[T]) Err() *errors.AppError {
	if r.ok {
		return nil
	}
	appErr := errors.New(r.Code(), r.message)
	if r.cause != nil {
		appErr.WithCause(r.cause)
	}
	return appErr
}

// Unwrap returns the value and a nil error on success, the zero value and
// Err() on failure.
func (r Result[T]) Unwrap() (T, error) {
	if r.ok {
		return r.value, nil
	}
	var zero T
	return zero, r.Err()
}

// retype carries a failure across a change of value type.
func retype[T, U any](r Result[U]) Result[T] {
	return Result[T]{message: r.message, code: r.code, cause: r.cause}
}
