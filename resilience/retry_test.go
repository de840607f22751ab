package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	callCount := 0

	result, err := Retry(context.Background(), DefaultRetryConfig(), func() (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_ZeroDelayRetriesImmediately(t *testing.T) {
	callCount := 0

	result, err := Retry(context.Background(), FixedDelay(3, 0), func() (int, error) {
		callCount++
		if callCount < 3 {
			return 0, errors.New("temporary error")
		}
		return callCount, nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != 3 || callCount != 3 {
		t.Errorf("expected success on third call, got result=%d calls=%d", result, callCount)
	}
}

func TestRetry_ExceedsMaxAttempts_ReturnsLastError(t *testing.T) {
	callCount := 0
	lastErr := errors.New("attempt 4")

	_, err := Retry(context.Background(), FixedDelay(4, 0), func() (string, error) {
		callCount++
		if callCount == 4 {
			return "", lastErr
		}
		return "", errors.New("earlier")
	})

	if err != lastErr {
		t.Errorf("expected the final attempt's error unchanged, got %v", err)
	}
	if callCount != 4 {
		t.Errorf("expected 4 calls, got %d", callCount)
	}
}

func TestRetry_FixedDelayUsesClock(t *testing.T) {
	clock := clockz.NewFakeClock()
	cfg := FixedDelay(3, time.Second)
	cfg.Clock = clock

	var delays []time.Duration
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		delays = append(delays, backoff)
	}

	callCount := 0
	var err error
	driveClock(t, clock, 500*time.Millisecond, func() {
		_, err = Retry(context.Background(), cfg, func() (int, error) {
			callCount++
			return 0, errors.New("down")
		})
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != time.Second {
		t.Errorf("expected two fixed 1s delays, got %v", delays)
	}
}

func TestRetry_RespectsContext(t *testing.T) {
	clock := clockz.NewFakeClock()
	cfg := FixedDelay(10, time.Hour)
	cfg.Clock = clock

	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	_, err := Retry(ctx, cfg, func() (string, error) {
		callCount++
		cancel()
		return "", errors.New("error")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_RetryIfFilter(t *testing.T) {
	retryableErr := errors.New("retryable")
	nonRetryableErr := errors.New("non-retryable")

	cfg := FixedDelay(3, 0)
	cfg.RetryIf = func(err error) bool {
		return errors.Is(err, retryableErr)
	}

	tests := []struct {
		name      string
		err       error
		wantCalls int
	}{
		{"retryable", retryableErr, 3},
		{"non-retryable", nonRetryableErr, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			callCount := 0
			_, err := Retry(context.Background(), cfg, func() (string, error) {
				callCount++
				return "", tc.err
			})
			if callCount != tc.wantCalls {
				t.Errorf("expected %d calls, got %d", tc.wantCalls, callCount)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestRetryFunc(t *testing.T) {
	callCount := 0
	err := RetryFunc(context.Background(), FixedDelay(2, 0), func() error {
		callCount++
		if callCount == 1 {
			return errors.New("first")
		}
		return nil
	})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls, got %d", callCount)
	}
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RetryConfig
		attempt int
		want    time.Duration
	}{
		{"fixed", FixedDelay(5, 200*time.Millisecond), 4, 200 * time.Millisecond},
		{"zero", FixedDelay(5, 0), 2, 0},
		{"exponential", RetryConfig{InitialBackoff: 100 * time.Millisecond, BackoffFactor: 2}, 3, 400 * time.Millisecond},
		{"capped", RetryConfig{InitialBackoff: time.Second, BackoffFactor: 10, MaxBackoff: 5 * time.Second}, 3, 5 * time.Second},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := calculateBackoff(tc.attempt, tc.cfg); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
