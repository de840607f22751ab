package resilience

import (
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

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
