package workflow

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/flowkit/errors"
)

// link is one type-erased step of a chain.
type link struct {
	name string
	run  func(ctx context.Context, in any) (Result[any], error)
}

// eraseStep boxes a typed step. The builder's generics guarantee the input
// type, so a failed unbox means the chain was assembled wrongly.
func eraseStep[I, O any](name string, step Step[I, O]) link {
	return link{
		name: name,
		run: func(ctx context.Context, in any) (Result[any], error) {
			v, err := unbox[I](name, in)
			if err != nil {
				return Result[any]{}, err
			}
			r, err := step(ctx, v)
			if err != nil {
				return Result[any]{}, err
			}
			return box(r), nil
		},
	}
}

func box[T any](r Result[T]) Result[any] {
	if r.ok {
		return Success[any](r.value)
	}
	return retype[any](r)
}

// unboxResult restores a typed result from an erased one.
func unboxResult[T any](name string, r Result[any]) (Result[T], error) {
	if !r.ok {
		return retype[T](r), nil
	}
	v, err := unbox[T](name, r.value)
	if err != nil {
		return Result[T]{}, err
	}
	return Success(v), nil
}

func unbox[T any](name string, v any) (T, error) {
	if t, ok := v.(T); ok {
		return t, nil
	}
	var zero T
	if v == nil && nillable(reflect.TypeOf((*T)(nil)).Elem()) {
		return zero, nil
	}
	return zero, errors.TypeMismatch(name, zero, v)
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// isNil reports whether v is nil or a nil pointer, map, slice, func or chan.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	if nillable(rv.Type()) {
		return rv.IsNil()
	}
	return false
}

// safeRun invokes l and turns a panic into a PANIC error.
func safeRun(ctx context.Context, l link, in any) (r Result[any], err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = Result[any]{}, errors.Panic(p).WithDetail("step", l.name)
		}
	}()
	return l.run(ctx, in)
}

// typeName is used in build error messages.
func typeName[T any]() string {
	return fmt.Sprint(reflect.TypeOf((*T)(nil)).Elem())
}
