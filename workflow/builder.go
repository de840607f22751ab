package workflow

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/observability"
)

// Logger receives engine events. *logger.Logger satisfies it.
type Logger interface {
	Info(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...map[string]interface{})  {}
func (nopLogger) Error(string, ...map[string]interface{}) {}

type options struct {
	name            string
	logger          Logger
	timeout         time.Duration
	cancelOnTimeout bool
	clock           clockz.Clock
	tracing         bool
	tracePrefix     string
	metrics         *observability.Metrics
}

// Builder declares a chain from I to O. It is a value: every method returns
// a new Builder and leaves the receiver untouched.
type Builder[I, O any] struct {
	links    []link
	handlers []handler
	errs     []error
	opts     options
}

// New starts an empty chain. Executing it returns its input.
func New[I any]() Builder[I, I] {
	return Builder[I, I]{}
}

// StartWith starts a chain with its first step.
func StartWith[I, O any](step Step[I, O]) Builder[I, O] {
	return Then(New[I](), step)
}

// Then appends a step fed by the current output.
func Then[I, O, P any](b Builder[I, O], step Step[O, P]) Builder[I, P] {
	if step == nil {
		return withErr[I, O, P](b, "Then", "step must not be nil")
	}
	return extend[I, O, P](b, eraseStep(funcName(step), step))
}

// ThenNode appends a named step object.
func ThenNode[I, O, P any](b Builder[I, O], node Node[O, P]) Builder[I, P] {
	if node == nil {
		return withErr[I, O, P](b, "ThenNode", "node must not be nil")
	}
	return extend[I, O, P](b, eraseStep[O, P](node.Name(), node.Run))
}

// Map appends a transformation that always succeeds.
func Map[I, O, P any](b Builder[I, O], fn func(O) P) Builder[I, P] {
	if fn == nil {
		return withErr[I, O, P](b, "Map", "function must not be nil")
	}
	return extend[I, O, P](b, eraseStep[O, P](nameMap, func(_ context.Context, v O) (Result[P], error) {
		return Success(fn(v)), nil
	}))
}

// As renames the last step. The name appears in logs, spans and errors.
func (b Builder[I, O]) As(name string) Builder[I, O] {
	if len(b.links) == 0 {
		return withErr[I, O, O](b, "As", "no step to name")
	}
	last := b.links[len(b.links)-1]
	last.name = name
	return b.replaceLast(last)
}

// WithName sets the workflow name used in logs, spans and metrics.
func (b Builder[I, O]) WithName(name string) Builder[I, O] {
	b.opts.name = name
	return b
}

// WithLogging sets the logger for execution events. A nil logger disables them.
func (b Builder[I, O]) WithLogging(l Logger) Builder[I, O] {
	b.opts.logger = l
	return b
}

// WithTimeout bounds every top-level step. Zero disables the bound.
func (b Builder[I, O]) WithTimeout(d time.Duration) Builder[I, O] {
	if d < 0 {
		return withErr[I, O, O](b, "WithTimeout", "timeout must not be negative")
	}
	b.opts.timeout = d
	return b
}

// WithCancelOnTimeout cancels the context of a step that lost the timeout
// race. Without it the step keeps running unobserved.
func (b Builder[I, O]) WithCancelOnTimeout() Builder[I, O] {
	b.opts.cancelOnTimeout = true
	return b
}

// WithClock sets the time source for timeouts and retry delays.
func (b Builder[I, O]) WithClock(clock clockz.Clock) Builder[I, O] {
	b.opts.clock = clock
	return b
}

// WithTracing records one span per execution and one per step, named
// "<prefix>.execute" and "<prefix>.<step>".
func (b Builder[I, O]) WithTracing(prefix string) Builder[I, O] {
	if prefix == "" {
		prefix = "workflow"
	}
	b.opts.tracing = true
	b.opts.tracePrefix = prefix
	return b
}

// WithMetrics records execution and step instruments into m.
func (b Builder[I, O]) WithMetrics(m *observability.Metrics) Builder[I, O] {
	b.opts.metrics = m
	return b
}

// Build validates the chain and returns an immutable workflow.
func (b Builder[I, O]) Build() (*Workflow[I, O], error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	want := reflect.TypeOf((*O)(nil)).Elem()
	for _, h := range b.handlers {
		if h.out != want {
			return nil, errors.InvalidBuild("Catch",
				fmt.Sprintf("handler recovers %s but the workflow produces %s", h.out, want))
		}
	}

	links := b.links
	if b.opts.metrics != nil || b.opts.tracing {
		links = make([]link, len(b.links))
		for i, l := range b.links {
			links[i] = instrument(l, i, b.opts)
		}
	}
	return &Workflow[I, O]{links: links, handlers: b.handlers, opts: b.opts}, nil
}

func extend[I, O, P any](b Builder[I, O], l link) Builder[I, P] {
	return Builder[I, P]{
		links:    appendCopy(b.links, l),
		handlers: b.handlers,
		errs:     b.errs,
		opts:     b.opts,
	}
}

func withErr[I, O, P any](b Builder[I, O], op, reason string) Builder[I, P] {
	return Builder[I, P]{
		links:    b.links,
		handlers: b.handlers,
		errs:     appendCopy(b.errs, error(errors.InvalidBuild(op, reason))),
		opts:     b.opts,
	}
}

func (b Builder[I, O]) replaceLast(l link) Builder[I, O] {
	links := appendCopy(b.links[:len(b.links)-1], l)
	b.links = links
	return b
}

func (b Builder[I, O]) addHandler(h handler) Builder[I, O] {
	b.handlers = appendCopy(b.handlers, h)
	return b
}

// appendCopy never writes into s's backing array, so builders derived from
// a common prefix stay independent.
func appendCopy[T any](s []T, v ...T) []T {
	out := make([]T, 0, len(s)+len(v))
	out = append(out, s...)
	return append(out, v...)
}
