package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/kbukum/flowkit/logger"
)

func addOne(_ context.Context, n int) (Result[int], error) { return Success(n + 1), nil }

func double(_ context.Context, n int) (Result[int], error) { return Success(n * 2), nil }

func failing(msg string) Step[int, int] {
	return func(context.Context, int) (Result[int], error) { return Failure[int](msg), nil }
}

func throwing(err error) Step[int, int] {
	return func(context.Context, int) (Result[int], error) { return Result[int]{}, err }
}

// counter counts invocations of the steps it wraps.
type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) wrap(step Step[int, int]) Step[int, int] {
	return func(ctx context.Context, v int) (Result[int], error) {
		c.mu.Lock()
		c.n++
		c.mu.Unlock()
		return step(ctx, v)
	}
}

func (c *counter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func mustBuild[I, O any](t *testing.T, b Builder[I, O]) *Workflow[I, O] {
	t.Helper()
	wf, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return wf
}

func mustExecute[I, O any](t *testing.T, wf *Workflow[I, O], in I) Result[O] {
	t.Helper()
	res, err := wf.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected execute error: %v", err)
	}
	return res
}

// driveClock runs fn in a goroutine and advances clock by step until fn returns.
func driveClock(t *testing.T, clock *clockz.FakeClock, step time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("function did not finish while advancing the fake clock")
		default:
		}
		clock.Advance(step)
		clock.BlockUntilReady()
		time.Sleep(time.Millisecond)
	}
}

// syncBuffer is a bytes.Buffer safe for the engine's timeout goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// entries decodes every JSON log line written so far.
func (b *syncBuffer) entries(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func newTestLogger() (*logger.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	cfg := &logger.Config{Level: "debug", Format: logger.FormatJSON}
	return logger.NewWithWriter(buf, cfg, "test"), buf
}

func findEntry(entries []map[string]any, msg string) (map[string]any, bool) {
	for _, e := range entries {
		if e["message"] == msg {
			return e, true
		}
	}
	return nil, false
}
