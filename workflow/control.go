package workflow

import (
	"context"

	"github.com/kbukum/flowkit/errors"
)

// Definition declares a reusable workflow.
type Definition[I, O any] interface {
	Build(b Builder[I, I]) Builder[I, O]
}

// FromDefinition builds the workflow a definition declares.
func FromDefinition[I, O any](def Definition[I, O]) (*Workflow[I, O], error) {
	if def == nil {
		return nil, errors.InvalidBuild("FromDefinition", "definition must not be nil")
	}
	return def.Build(New[I]()).Build()
}

// Branch appends a step that evaluates cond and runs exactly one of the two
// nested chains on the current value. The chosen chain is built on each run;
// a build error is thrown from the branch step.
func Branch[I, O, P any](
	b Builder[I, O],
	cond Condition[O],
	whenTrue, whenFalse func(Builder[O, O]) Builder[O, P],
) Builder[I, P] {
	switch {
	case cond == nil:
		return withErr[I, O, P](b, "Branch", "condition must not be nil")
	case whenTrue == nil || whenFalse == nil:
		return withErr[I, O, P](b, "Branch", "both branches are required")
	}
	return extend[I, O, P](b, eraseStep[O, P](nameBranch, func(ctx context.Context, v O) (Result[P], error) {
		ok, err := cond(ctx, v)
		if err != nil {
			return Result[P]{}, err
		}
		body := whenFalse
		if ok {
			body = whenTrue
		}
		return runNested(ctx, body(New[O]()), v)
	}))
}

// If runs body when cond holds and passes the value through otherwise.
func (b Builder[I, O]) If(cond Condition[O], body func(Builder[O, O]) Builder[O, O]) Builder[I, O] {
	if body == nil {
		return withErr[I, O, O](b, "If", "body must not be nil")
	}
	next := Branch(b, cond, body, identity[O])
	if len(next.errs) > len(b.errs) {
		return next
	}
	return next.As(nameIf)
}

// While runs body repeatedly for as long as cond holds, feeding each
// iteration the previous one's output. There is no iteration cap. A failed
// iteration ends the loop with LOOP_FAILED and the iteration's message.
func (b Builder[I, O]) While(cond Condition[O], body func(Builder[O, O]) Builder[O, O]) Builder[I, O] {
	switch {
	case cond == nil:
		return withErr[I, O, O](b, "While", "condition must not be nil")
	case body == nil:
		return withErr[I, O, O](b, "While", "body must not be nil")
	}
	return extend[I, O, O](b, eraseStep[O, O](nameWhile, func(ctx context.Context, v O) (Result[O], error) {
		current := v
		for {
			ok, err := cond(ctx, current)
			if err != nil {
				return Result[O]{}, err
			}
			if !ok {
				return Success(current), nil
			}
			if err := ctx.Err(); err != nil {
				return failureFrom[O](errors.Canceled(err)), nil
			}
			r, err := runNested(ctx, body(New[O]()), current)
			if err != nil {
				return Result[O]{}, err
			}
			if !r.IsSuccess() {
				return FailureWithCode[O](errors.ErrCodeLoopFailed, r.Message()), nil
			}
			current = r.Value()
		}
	}))
}

// SubWorkflow runs def on in(current) and maps its output back with out.
// A failure of the sub-workflow is propagated unchanged.
func SubWorkflow[I, O, SI, SO any](b Builder[I, O], def Definition[SI, SO], in func(O) SI, out func(SO) O) Builder[I, O] {
	switch {
	case def == nil:
		return withErr[I, O, O](b, "SubWorkflow", "definition must not be nil")
	case in == nil || out == nil:
		return withErr[I, O, O](b, "SubWorkflow", "mapping functions are required")
	}
	return extend[I, O, O](b, eraseStep[O, O](nameSubWorkflow, func(ctx context.Context, v O) (Result[O], error) {
		r, err := runNested(ctx, def.Build(New[SI]()), in(v))
		if err != nil {
			return Result[O]{}, err
		}
		if !r.IsSuccess() {
			return retype[O](r), nil
		}
		return Success(out(r.Value())), nil
	}))
}

func identity[T any](b Builder[T, T]) Builder[T, T] { return b }

// runNested builds and executes a nested chain. It shares the caller's
// clock and execution ID through ctx.
func runNested[T, P any](ctx context.Context, nested Builder[T, P], v T) (Result[P], error) {
	wf, err := nested.Build()
	if err != nil {
		return Result[P]{}, err
	}
	return wf.execute(ctx, v)
}
