package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
)

type ctxKey int

const (
	clockKey ctxKey = iota
	executionIDKey
)

// WithExecutionID returns a context whose workflow executions reuse id
// instead of generating a fresh one.
func WithExecutionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, executionIDKey, id)
}

// ExecutionID returns the identifier of the execution running on ctx.
func ExecutionID(ctx context.Context) string {
	id, _ := ctx.Value(executionIDKey).(string)
	return id
}

func ensureExecutionID(ctx context.Context) (context.Context, string) {
	if id := ExecutionID(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithExecutionID(ctx, id), id
}

// WithClock returns a context carrying the clock used by executions that
// were not built with their own.
func WithClock(ctx context.Context, clock clockz.Clock) context.Context {
	return context.WithValue(ctx, clockKey, clock)
}

func clockFrom(ctx context.Context) clockz.Clock {
	if c, ok := ctx.Value(clockKey).(clockz.Clock); ok && c != nil {
		return c
	}
	return clockz.RealClock
}
