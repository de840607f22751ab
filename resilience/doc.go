// Package resilience provides the fault-tolerance primitives behind
// flowkit's step decorators.
//
//   - Retry: re-invokes a function with fixed or exponential delay
//   - CircuitBreaker: fails fast once a step keeps failing
//   - RateLimiter: token bucket that callers wait on
//   - Bulkhead: caps concurrent callers of a step
//
// Every primitive takes a clockz.Clock so that delays and timeouts can be
// driven by a fake clock in tests:
//
//	cfg := resilience.FixedDelay(3, 200*time.Millisecond)
//	cfg.Clock = clock
//	v, err := resilience.Retry(ctx, cfg, call)
package resilience
