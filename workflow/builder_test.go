package workflow

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/resilience"
)

func TestNew_EmptyChainReturnsInput(t *testing.T) {
	wf := mustBuild(t, New[string]())
	res := mustExecute(t, wf, "ping")
	if !res.IsSuccess() || res.Value() != "ping" {
		t.Errorf("expected Success(ping), got %+v", res)
	}
}

func TestBuilder_IsPersistent(t *testing.T) {
	base := StartWith(addOne)
	left := Then(base, double)
	right := Then(base, addOne)

	if len(base.links) != 1 {
		t.Fatalf("deriving builders must not change the base, got %d links", len(base.links))
	}

	tests := []struct {
		name string
		b    Builder[int, int]
		want int
	}{
		{"base", base, 2},
		{"left", left, 4},
		{"right", right, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := mustExecute(t, mustBuild(t, tc.b), 1)
			if res.Value() != tc.want {
				t.Errorf("expected %d, got %d", tc.want, res.Value())
			}
		})
	}
}

func TestBuilder_DecoratingDoesNotAlias(t *testing.T) {
	c := &counter{}
	base := StartWith(c.wrap(failing("nope")))
	_ = base.Retry(3, 0)

	res := mustExecute(t, mustBuild(t, base), 1)
	if res.IsSuccess() {
		t.Fatal("expected failure")
	}
	if c.count() != 1 {
		t.Errorf("undecorated builder must invoke the step once, got %d", c.count())
	}
}

func TestBuilder_StepNames(t *testing.T) {
	b := Then(StartWith(addOne), double)
	b = Map(b, func(n int) int { return n })
	renamed := b.As("identity")

	if got := b.links[0].name; got != "addOne" {
		t.Errorf("expected step name addOne, got %q", got)
	}
	if got := b.links[2].name; got != nameMap {
		t.Errorf("expected map step name, got %q", got)
	}
	if got := renamed.links[2].name; got != "identity" {
		t.Errorf("expected renamed step, got %q", got)
	}
	if b.links[2].name != nameMap {
		t.Error("As must not rename the receiver's step")
	}
}

type upper struct{}

func (upper) Name() string { return "upper" }

func (upper) Run(_ context.Context, in string) (Result[string], error) {
	return Success(strings.ToUpper(in)), nil
}

func TestThenNode(t *testing.T) {
	b := ThenNode(New[string](), Node[string, string](upper{}))
	if b.links[0].name != "upper" {
		t.Errorf("expected node name, got %q", b.links[0].name)
	}
	res := mustExecute(t, mustBuild(t, b), "abc")
	if res.Value() != "ABC" {
		t.Errorf("expected ABC, got %q", res.Value())
	}
}

func TestBuild_InvalidBuilds(t *testing.T) {
	tests := []struct {
		name  string
		build func() error
	}{
		{"retry without step", func() error {
			_, err := New[int]().Retry(3, time.Second).Build()
			return err
		}},
		{"retry zero attempts", func() error {
			_, err := StartWith(addOne).Retry(0, time.Second).Build()
			return err
		}},
		{"retry negative delay", func() error {
			_, err := StartWith(addOne).Retry(2, -time.Second).Build()
			return err
		}},
		{"negative timeout", func() error {
			_, err := StartWith(addOne).WithTimeout(-time.Second).Build()
			return err
		}},
		{"as without step", func() error {
			_, err := New[int]().As("x").Build()
			return err
		}},
		{"nil step", func() error {
			_, err := Then[int, int, int](New[int](), nil).Build()
			return err
		}},
		{"nil map function", func() error {
			_, err := Map[int, int, string](New[int](), nil).Build()
			return err
		}},
		{"nil condition", func() error {
			_, err := New[int]().If(nil, identity[int]).Build()
			return err
		}},
		{"nil while body", func() error {
			_, err := New[int]().While(func(context.Context, int) (bool, error) { return false, nil }, nil).Build()
			return err
		}},
		{"nil circuit breaker", func() error {
			_, err := StartWith(addOne).CircuitBreaker(nil).Build()
			return err
		}},
		{"circuit breaker without step", func() error {
			cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("cb"))
			_, err := New[int]().CircuitBreaker(cb).Build()
			return err
		}},
		{"nil handler", func() error {
			_, err := Catch[int, int, *errors.AppError](StartWith(addOne), nil).Build()
			return err
		}},
		{"handler of another type", func() error {
			b := CatchWhen(StartWith(addOne), func(error) bool { return true },
				func(context.Context, error) (Result[int], error) { return Success(0), nil })
			_, err := Map(b, strconv.Itoa).Build()
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.build()
			if !errors.HasCode(err, errors.ErrCodeInvalidBuild) {
				t.Errorf("expected INVALID_BUILD, got %v", err)
			}
		})
	}
}

func TestBuild_ReturnsFirstError(t *testing.T) {
	_, err := New[int]().Retry(1, 0).As("x").Build()
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Details["operation"] != "Retry" {
		t.Errorf("expected the Retry error first, got %v", appErr.Details["operation"])
	}
}

func TestBuild_ErrorSurvivesLaterCalls(t *testing.T) {
	b := Then(New[int]().As("missing"), addOne).WithTimeout(time.Second)
	if _, err := b.Build(); err == nil {
		t.Error("expected recorded error to survive later builder calls")
	}
}
