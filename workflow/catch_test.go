package workflow

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/kbukum/flowkit/errors"
)

type paymentError struct{ reason string }

func (e *paymentError) Error() string { return "payment failed: " + e.reason }

type shippingError struct{}

func (shippingError) Error() string { return "no courier" }

func TestCatch_MatchesByType(t *testing.T) {
	tests := []struct {
		name      string
		thrown    error
		wantOK    bool
		wantValue int
		wantMsg   string
	}{
		{"registered type", &paymentError{reason: "declined"}, true, 99, ""},
		{"wrapped registered type", errorsJoin(&paymentError{reason: "x"}), true, 99, ""},
		{"unregistered type", shippingError{}, false, 0, "Unhandled exception: no courier"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := Catch(StartWith(throwing(tc.thrown)), func(_ context.Context, err *paymentError) (Result[int], error) {
				return Success(99), nil
			})
			res := mustExecute(t, mustBuild(t, b), 1)
			if res.IsSuccess() != tc.wantOK {
				t.Fatalf("expected success=%v, got %+v", tc.wantOK, res)
			}
			if tc.wantOK && res.Value() != tc.wantValue {
				t.Errorf("expected %d, got %d", tc.wantValue, res.Value())
			}
			if !tc.wantOK && res.Message() != tc.wantMsg {
				t.Errorf("expected %q, got %q", tc.wantMsg, res.Message())
			}
		})
	}
}

func errorsJoin(err error) error { return stderrors.Join(stderrors.New("context"), err) }

func TestCatch_HandlerReceivesTypedError(t *testing.T) {
	var got string
	b := Catch(StartWith(throwing(&paymentError{reason: "expired"})), func(_ context.Context, err *paymentError) (Result[int], error) {
		got = err.reason
		return Success(0), nil
	})
	mustExecute(t, mustBuild(t, b), 1)
	if got != "expired" {
		t.Errorf("expected reason 'expired', got %q", got)
	}
}

func TestCatch_RegistrationOrder(t *testing.T) {
	var tried []string
	respond := func(name string, res Result[int], err error) func(context.Context, error) (Result[int], error) {
		return func(context.Context, error) (Result[int], error) {
			tried = append(tried, name)
			return res, err
		}
	}
	all := func(error) bool { return true }

	b := StartWith(throwing(stderrors.New("boom")))
	b = CatchWhen(b, all, respond("fails", Failure[int]("still broken"), nil))
	b = CatchWhen(b, all, respond("throws", Result[int]{}, stderrors.New("handler error")))
	b = CatchWhen(b, all, func(context.Context, error) (Result[int], error) {
		tried = append(tried, "panics")
		panic("handler panic")
	})
	b = CatchWhen(b, all, respond("recovers", Success(7), nil))
	b = CatchWhen(b, all, respond("never", Success(8), nil))

	res := mustExecute(t, mustBuild(t, b), 1)
	if res.Value() != 7 {
		t.Errorf("expected the first successful handler to win, got %+v", res)
	}
	want := []string{"fails", "throws", "panics", "recovers"}
	if len(tried) != len(want) {
		t.Fatalf("expected handlers %v, got %v", want, tried)
	}
	for i := range want {
		if tried[i] != want[i] {
			t.Errorf("handler %d: expected %s, got %s", i, want[i], tried[i])
		}
	}
}

func TestCatch_NoHandlerRecovers(t *testing.T) {
	b := Catch(StartWith(throwing(&paymentError{reason: "x"})), func(_ context.Context, err *paymentError) (Result[int], error) {
		return Failure[int]("An unexpected error occurred: " + err.Error()), nil
	})
	res := mustExecute(t, mustBuild(t, b), 1)
	if res.Code() != errors.ErrCodeUnhandled || res.Message() != "Unhandled exception: payment failed: x" {
		t.Errorf("expected unhandled failure, got %+v", res)
	}
}

func TestCatch_FailuresAreNotOffered(t *testing.T) {
	called := false
	b := CatchWhen(StartWith(failing("plain failure")), func(error) bool { return true },
		func(context.Context, error) (Result[int], error) {
			called = true
			return Success(1), nil
		})
	res := mustExecute(t, mustBuild(t, b), 1)
	if called || res.Message() != "plain failure" {
		t.Errorf("returned failures must bypass handlers, got %+v called=%v", res, called)
	}
}

func TestCatchCode(t *testing.T) {
	b := CatchCode(StartWith(throwing(errors.Validation("bad sku"))), errors.ErrCodeValidation,
		func(_ context.Context, err *errors.AppError) (Result[int], error) {
			if err.Message != "bad sku" {
				return Failure[int]("wrong error"), nil
			}
			return Success(-1), nil
		})
	res := mustExecute(t, mustBuild(t, b), 1)
	if res.Value() != -1 {
		t.Errorf("expected -1, got %+v", res)
	}
}

func TestCatch_PanicIsOffered(t *testing.T) {
	boom := func(context.Context, int) (Result[int], error) { panic("nil pointer") }
	b := CatchCode(StartWith(boom), errors.ErrCodePanic, func(_ context.Context, err *errors.AppError) (Result[int], error) {
		return Success(0), nil
	})
	if res := mustExecute(t, mustBuild(t, b), 1); !res.IsSuccess() {
		t.Errorf("expected panic to be recovered, got %+v", res)
	}
}
