package workflow

import (
	"context"
	"reflect"
	"runtime"
	"strings"
)

// Step turns one value into the Result of another. A returned Failure ends
// the workflow; a returned error is offered to the registered handlers.
type Step[I, O any] func(ctx context.Context, in I) (Result[O], error)

// Condition is a predicate used by Branch, If and While.
type Condition[T any] func(ctx context.Context, v T) (bool, error)

// Node is a named step object.
type Node[I, O any] interface {
	Name() string
	Run(ctx context.Context, in I) (Result[O], error)
}

// Func adapts a plain function that cannot fail into a Step.
func Func[I, O any](fn func(ctx context.Context, in I) O) Step[I, O] {
	return func(ctx context.Context, in I) (Result[O], error) {
		return Success(fn(ctx, in)), nil
	}
}

// Combinator step names.
const (
	nameBranch      = "branch"
	nameIf          = "if"
	nameWhile       = "while"
	nameMap         = "map"
	nameSubWorkflow = "subworkflow"
)

// funcName returns the short Go name of fn, e.g. "validateOrder" or
// "(*Checkout).charge-fm".
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "step"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "step"
	}
	name := f.Name()
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}
