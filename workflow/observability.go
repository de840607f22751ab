package workflow

import (
	"context"

	"github.com/zoobzio/clockz"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/flowkit/observability"
)

// instrument wraps a link with a span and step metrics.
func instrument(l link, index int, opts options) link {
	return link{name: l.name, run: func(ctx context.Context, in any) (Result[any], error) {
		if opts.tracing {
			var span trace.Span
			ctx, span = observability.StartSpan(ctx, opts.tracePrefix+"."+l.name)
			defer span.End()
			observability.SetSpanAttribute(ctx, observability.AttrStepName, l.name)
			observability.SetSpanAttribute(ctx, observability.AttrStepIndex, index)
		}

		clock := clockFrom(ctx)
		start := clock.Now()
		r, err := l.run(ctx, in)
		status := statusOf(r, err)
		if opts.tracing {
			markSpan(ctx, r, err)
		}
		if opts.metrics != nil {
			opts.metrics.RecordStep(ctx, workflowName(opts), l.name, status, clock.Since(start))
		}
		return r, err
	}}
}

// observeExecution opens the execution span and metrics. The returned
// function closes them with the execution's outcome.
func (w *Workflow[I, O]) observeExecution(ctx context.Context, clock clockz.Clock, execID string) (context.Context, func(Result[O], error)) {
	if !w.opts.tracing && w.opts.metrics == nil {
		return ctx, func(Result[O], error) {}
	}

	name := workflowName(w.opts)
	start := clock.Now()
	var end func()
	if w.opts.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, w.opts.tracePrefix+"."+observability.SpanExecute)
		end = func() { span.End() }
		observability.SetSpanAttribute(ctx, observability.AttrWorkflow, name)
		observability.SetSpanAttribute(ctx, observability.AttrExecutionID, execID)
	}
	if w.opts.metrics != nil {
		w.opts.metrics.RecordExecutionStart(ctx, name)
	}

	return ctx, func(r Result[O], err error) {
		status := statusOf(box(r), err)
		if w.opts.tracing {
			markSpan(ctx, box(r), err)
			observability.SetSpanAttribute(ctx, observability.AttrStatus, status)
			end()
		}
		if w.opts.metrics != nil {
			if status == observability.StatusFailure {
				w.opts.metrics.RecordError(ctx, name, string(r.Code()))
			}
			w.opts.metrics.RecordExecutionEnd(ctx, name, status, clock.Since(start))
		}
	}
}

func markSpan(ctx context.Context, r Result[any], err error) {
	switch {
	case err != nil:
		observability.SetSpanError(ctx, err)
	case !r.IsSuccess():
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, string(r.Code()))
		observability.SetSpanAttribute(ctx, observability.AttrErrorMessage, r.Message())
		observability.SetSpanFailure(ctx, r.Message())
	}
}

func statusOf(r Result[any], err error) string {
	switch {
	case err != nil:
		return observability.StatusError
	case !r.IsSuccess():
		return observability.StatusFailure
	default:
		return observability.StatusSuccess
	}
}

func workflowName(opts options) string {
	if opts.name == "" {
		return "workflow"
	}
	return opts.name
}
