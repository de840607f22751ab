package workflow

import (
	"testing"

	"github.com/kbukum/flowkit/errors"
)

func TestResult_Success(t *testing.T) {
	r := Success(42)
	if !r.IsSuccess() || r.Value() != 42 {
		t.Fatalf("expected success with 42, got %+v", r)
	}
	if r.Message() != "" || r.Code() != "" || r.Err() != nil {
		t.Errorf("success must not carry failure data: %+v", r)
	}
	v, err := r.Unwrap()
	if v != 42 || err != nil {
		t.Errorf("Unwrap() = %d, %v", v, err)
	}
}

func TestResult_Failure(t *testing.T) {
	r := Failure[int]("out of stock")
	if r.IsSuccess() {
		t.Fatal("expected failure")
	}
	if r.Value() != 0 {
		t.Errorf("failure must hold the zero value, got %d", r.Value())
	}
	if r.Message() != "out of stock" {
		t.Errorf("unexpected message %q", r.Message())
	}
	if r.Code() != errors.ErrCodeStepFailed {
		t.Errorf("expected STEP_FAILED, got %s", r.Code())
	}
	_, err := r.Unwrap()
	if !errors.HasCode(err, errors.ErrCodeStepFailed) {
		t.Errorf("expected STEP_FAILED error, got %v", err)
	}
}

func TestResult_FailureWithCode(t *testing.T) {
	r := FailureWithCode[string](errors.ErrCodeTimeout, "Step timed out")
	appErr := r.Err()
	if appErr == nil || appErr.Code != errors.ErrCodeTimeout || appErr.Message != "Step timed out" {
		t.Errorf("unexpected Err() %v", appErr)
	}
}

func TestResult_ZeroValueIsFailure(t *testing.T) {
	var r Result[string]
	if r.IsSuccess() {
		t.Error("zero Result must be a failure")
	}
	if r.Code() != errors.ErrCodeStepFailed {
		t.Errorf("expected default code, got %s", r.Code())
	}
}

func TestResult_RetypeKeepsFailure(t *testing.T) {
	cause := errors.StepFailed("inner")
	src := failureFrom[int](errors.Unhandled(cause))
	got := retype[string](src)
	if got.IsSuccess() || got.Message() != src.Message() || got.Code() != errors.ErrCodeUnhandled {
		t.Errorf("retype lost failure data: %+v", got)
	}
	if got.Err().Cause != cause {
		t.Error("expected cause to survive retype")
	}
}
