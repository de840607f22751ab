package workflow

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/resilience"
)

// errFailedAttempt lets a returned Failure drive the resilience primitives,
// which only understand errors.
var errFailedAttempt = stderrors.New("step returned a failure")

// Retry re-invokes the last step up to maxAttempts times in total, waiting
// delay between attempts. Returned failures and thrown errors both count.
// When every attempt fails, the error of the final attempt is thrown; if the
// final attempt returned a failure, RETRY_EXHAUSTED is thrown instead.
func (b Builder[I, O]) Retry(maxAttempts int, delay time.Duration) Builder[I, O] {
	if delay < 0 {
		return withErr[I, O, O](b, "Retry", "delay must not be negative")
	}
	return b.RetryWith(resilience.FixedDelay(maxAttempts, delay))
}

// RetryWith is Retry with a full backoff configuration. A nil cfg.Clock
// uses the workflow clock.
func (b Builder[I, O]) RetryWith(cfg resilience.RetryConfig) Builder[I, O] {
	if cfg.MaxAttempts < 1 {
		return withErr[I, O, O](b, "Retry", "maxAttempts must be at least 1")
	}
	return b.decorateLast("Retry", func(l link) link { return retryLink(l, cfg) })
}

// CircuitBreaker guards the last step. A failure or thrown error counts
// against the breaker; while open the step is not invoked and CIRCUIT_OPEN
// is thrown.
func (b Builder[I, O]) CircuitBreaker(cb *resilience.CircuitBreaker) Builder[I, O] {
	if cb == nil {
		return withErr[I, O, O](b, "CircuitBreaker", "circuit breaker must not be nil")
	}
	return b.decorateLast("CircuitBreaker", func(l link) link {
		return link{name: l.name, run: func(ctx context.Context, in any) (Result[any], error) {
			var (
				r       Result[any]
				stepErr error
				invoked bool
			)
			err := cb.Execute(func() error {
				invoked = true
				r, stepErr = safeRun(ctx, l, in)
				if stepErr != nil {
					return stepErr
				}
				if !r.IsSuccess() {
					return errFailedAttempt
				}
				return nil
			})
			if !invoked {
				return Result[any]{}, errors.CircuitOpen(cb.Name(), err)
			}
			return r, stepErr
		}}
	})
}

// RateLimit waits for a token from rl before each invocation of the last step.
func (b Builder[I, O]) RateLimit(rl *resilience.RateLimiter) Builder[I, O] {
	if rl == nil {
		return withErr[I, O, O](b, "RateLimit", "rate limiter must not be nil")
	}
	return b.decorateLast("RateLimit", func(l link) link {
		return link{name: l.name, run: func(ctx context.Context, in any) (Result[any], error) {
			var (
				r       Result[any]
				stepErr error
				invoked bool
			)
			err := rl.ExecuteWait(ctx, func() error {
				invoked = true
				r, stepErr = l.run(ctx, in)
				return stepErr
			})
			if !invoked {
				return Result[any]{}, errors.RateLimited(rl.Name(), err)
			}
			return r, stepErr
		}}
	})
}

// Bulkhead caps concurrent invocations of the last step across executions
// sharing bh. A rejected call throws BULKHEAD_FULL.
func (b Builder[I, O]) Bulkhead(bh *resilience.Bulkhead) Builder[I, O] {
	if bh == nil {
		return withErr[I, O, O](b, "Bulkhead", "bulkhead must not be nil")
	}
	return b.decorateLast("Bulkhead", func(l link) link {
		return link{name: l.name, run: func(ctx context.Context, in any) (Result[any], error) {
			invoked := false
			r, err := resilience.ExecuteWithResult(bh, ctx, func() (Result[any], error) {
				invoked = true
				return safeRun(ctx, l, in)
			})
			if !invoked {
				return Result[any]{}, errors.BulkheadFull(bh.Name(), err)
			}
			return r, err
		}}
	})
}

func retryLink(l link, cfg resilience.RetryConfig) link {
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = resilience.DefaultRetryIf
	}
	cfg.RetryIf = func(err error) bool {
		if err == errFailedAttempt {
			return true
		}
		return !errors.HasCode(err, errors.ErrCodeTypeMismatch) && retryIf(err)
	}

	return link{name: l.name, run: func(ctx context.Context, in any) (Result[any], error) {
		attemptCfg := cfg
		if attemptCfg.Clock == nil {
			attemptCfg.Clock = clockFrom(ctx)
		}
		var (
			attempts int
			last     Result[any]
		)
		r, err := resilience.Retry(ctx, attemptCfg, func() (Result[any], error) {
			attempts++
			r, err := safeRun(ctx, l, in)
			if err != nil {
				return r, err
			}
			if !r.IsSuccess() {
				last = r
				return r, errFailedAttempt
			}
			return r, nil
		})
		if err == errFailedAttempt {
			return Result[any]{}, errors.RetryExhausted(attempts, last.Message())
		}
		return r, err
	}}
}

func (b Builder[I, O]) decorateLast(op string, wrap func(link) link) Builder[I, O] {
	if len(b.links) == 0 {
		return withErr[I, O, O](b, op, "no step to decorate")
	}
	return b.replaceLast(wrap(b.links[len(b.links)-1]))
}
