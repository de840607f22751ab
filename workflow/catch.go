package workflow

import (
	"context"
	stderrors "errors"
	"reflect"

	"github.com/kbukum/flowkit/errors"
)

// handler recovers from errors thrown by steps.
type handler struct {
	selector func(error) bool
	recover  func(ctx context.Context, err error) (Result[any], error)
	out      reflect.Type
}

// Catch registers a handler for thrown errors of type E, matched with
// errors.As. Handlers are tried in registration order; the first to return
// Success decides the workflow result.
func Catch[I, O any, E error](b Builder[I, O], fn func(ctx context.Context, err E) (Result[O], error)) Builder[I, O] {
	if fn == nil {
		return withErr[I, O, O](b, "Catch", "handler must not be nil")
	}
	return b.addHandler(newHandler(
		func(err error) bool {
			var target E
			return stderrors.As(err, &target)
		},
		func(ctx context.Context, err error) (Result[O], error) {
			var target E
			stderrors.As(err, &target)
			return fn(ctx, target)
		},
	))
}

// CatchCode registers a handler for thrown AppErrors carrying code anywhere
// in their cause chain.
func CatchCode[I, O any](b Builder[I, O], code errors.ErrorCode, fn func(ctx context.Context, err *errors.AppError) (Result[O], error)) Builder[I, O] {
	if fn == nil {
		return withErr[I, O, O](b, "CatchCode", "handler must not be nil")
	}
	return b.addHandler(newHandler(
		func(err error) bool { return errors.HasCode(err, code) },
		func(ctx context.Context, err error) (Result[O], error) {
			appErr, _ := errors.FindCode(err, code)
			return fn(ctx, appErr)
		},
	))
}

// CatchWhen registers a handler for thrown errors accepted by selector.
func CatchWhen[I, O any](b Builder[I, O], selector func(error) bool, fn func(ctx context.Context, err error) (Result[O], error)) Builder[I, O] {
	if selector == nil || fn == nil {
		return withErr[I, O, O](b, "CatchWhen", "selector and handler are required")
	}
	return b.addHandler(newHandler(selector, fn))
}

func newHandler[O any](selector func(error) bool, fn func(context.Context, error) (Result[O], error)) handler {
	return handler{
		selector: selector,
		recover: func(ctx context.Context, err error) (Result[any], error) {
			r, err := fn(ctx, err)
			if err != nil {
				return Result[any]{}, err
			}
			return box(r), nil
		},
		out: reflect.TypeOf((*O)(nil)).Elem(),
	}
}

// tryRecover offers err to each matching handler in order. A handler that
// fails, throws or panics passes err on to the next one.
func tryRecover(ctx context.Context, handlers []handler, err error) (Result[any], bool) {
	for _, h := range handlers {
		if r, ok := runHandler(ctx, h, err); ok {
			return r, true
		}
	}
	return Result[any]{}, false
}

func runHandler(ctx context.Context, h handler, err error) (r Result[any], ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r, ok = Result[any]{}, false
		}
	}()
	if !h.selector(err) {
		return Result[any]{}, false
	}
	r, herr := h.recover(ctx, err)
	if herr != nil || !r.IsSuccess() {
		return Result[any]{}, false
	}
	return r, true
}
