package workflow

import (
	"context"

	"github.com/zoobzio/clockz"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/logger"
)

// Workflow is a built chain. It holds no per-execution state, so Execute
// may be called concurrently.
type Workflow[I, O any] struct {
	links    []link
	handlers []handler
	opts     options
}

// Name returns the name set with WithName, or "".
func (w *Workflow[I, O]) Name() string { return w.opts.name }

// Execute runs the chain against input.
//
// The Result reports what happened to the input: Success with the final
// value, or the Failure that ended the run (a step failure, a timeout,
// a cancellation or an unrecovered error). The error is reserved for
// misuse: a nil input, or a value of the wrong type between steps.
func (w *Workflow[I, O]) Execute(ctx context.Context, input I) (Result[O], error) {
	if isNil(any(input)) {
		return Result[O]{}, errors.InvalidInput("input", "input must not be nil")
	}
	return w.execute(ctx, input)
}

type outcome struct {
	result Result[any]
	err    error
}

func (w *Workflow[I, O]) execute(ctx context.Context, input I) (res Result[O], err error) {
	clock := w.opts.clock
	if clock == nil {
		clock = clockFrom(ctx)
	}
	ctx = WithClock(ctx, clock)
	ctx, execID := ensureExecutionID(ctx)
	log := w.logger()

	ctx, finish := w.observeExecution(ctx, clock, execID)
	defer func() { finish(res, err) }()

	var current any = input
	for i, l := range w.links {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return failureFrom[O](errors.Canceled(ctxErr)), nil
		}

		log.Info("Executing step", logger.StepFields(execID, l.name, i))
		r, stepErr := w.runStep(ctx, clock, log, l, current)
		if stepErr != nil {
			if errors.HasCode(stepErr, errors.ErrCodeTypeMismatch) {
				return Result[O]{}, stepErr
			}
			log.Error("Workflow execution failed", logger.Fields(
				logger.FieldExecutionID, execID,
				logger.FieldError, stepErr.Error(),
			))
			return w.recoverFrom(ctx, stepErr)
		}
		if !r.IsSuccess() {
			log.Error("Step failed", logger.Fields(
				logger.FieldExecutionID, execID,
				logger.FieldStep, l.name,
				logger.FieldError, r.Message(),
			))
			return retype[O](r), nil
		}
		current = r.value
	}
	return unboxResult[O]("result", Success(current))
}

// runStep invokes one step, racing it against the configured timeout.
func (w *Workflow[I, O]) runStep(ctx context.Context, clock clockz.Clock, log Logger, l link, in any) (Result[any], error) {
	if w.opts.timeout <= 0 {
		return safeRun(ctx, l, in)
	}

	stepCtx := ctx
	if w.opts.cancelOnTimeout {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithCancel(ctx)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		r, err := safeRun(stepCtx, l, in)
		done <- outcome{result: r, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-clock.After(w.opts.timeout):
		log.Error("Step timed out", logger.Fields(
			logger.FieldStep, l.name,
			logger.FieldTimeout, w.opts.timeout.Milliseconds(),
		))
		return failureFrom[any](errors.Timeout(l.name)), nil
	}
}

// recoverFrom turns a thrown error into the workflow result.
func (w *Workflow[I, O]) recoverFrom(ctx context.Context, err error) (Result[O], error) {
	if r, ok := tryRecover(ctx, w.handlers, err); ok {
		return unboxResult[O]("recover", r)
	}
	return failureFrom[O](errors.Unhandled(err)), nil
}

func (w *Workflow[I, O]) logger() Logger {
	if w.opts.logger == nil {
		return nopLogger{}
	}
	return w.opts.logger
}
